package headless

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/entrhq/pyforge/pkg/types"
)

// Output file names.
const (
	CodeFileName     = "visualization.py"
	ArtifactFileName = "artifact.json"
	SummaryFileName  = "summary.md"
)

// ArtifactWriter writes run outputs into one directory.
type ArtifactWriter struct {
	outputDir string
}

// NewArtifactWriter creates a new artifact writer
func NewArtifactWriter(outputDir string) *ArtifactWriter {
	return &ArtifactWriter{outputDir: outputDir}
}

// Dir returns the output directory.
func (w *ArtifactWriter) Dir() string {
	return w.outputDir
}

// WriteCode writes the generated program and returns its path.
func (w *ArtifactWriter) WriteCode(code string) (string, error) {
	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(w.outputDir, CodeFileName)
	if err := os.WriteFile(path, []byte(code+"\n"), 0644); err != nil {
		return "", fmt.Errorf("failed to write code: %w", err)
	}
	return path, nil
}

// WriteAll writes artifact.json and summary.md.
func (w *ArtifactWriter) WriteAll(summary *ExecutionSummary) error {
	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := w.WriteArtifactJSON(summary); err != nil {
		return fmt.Errorf("failed to write artifact JSON: %w", err)
	}

	if err := w.WriteSummaryMarkdown(summary); err != nil {
		return fmt.Errorf("failed to write summary markdown: %w", err)
	}

	return nil
}

// WriteArtifactJSON writes the full run summary as JSON
func (w *ArtifactWriter) WriteArtifactJSON(summary *ExecutionSummary) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	return os.WriteFile(filepath.Join(w.outputDir, ArtifactFileName), data, 0600)
}

// WriteSummaryMarkdown writes a human-readable summary
func (w *ArtifactWriter) WriteSummaryMarkdown(summary *ExecutionSummary) error {
	var md strings.Builder

	md.WriteString("# pyforge Run Summary\n\n")
	md.WriteString(fmt.Sprintf("**Query:** %s\n\n", summary.Query))
	md.WriteString(fmt.Sprintf("**Provider:** %s (%s)\n\n", summary.Provider.DisplayName(), summary.Model))
	md.WriteString(fmt.Sprintf("**Status:** %s\n\n", summary.Status))
	md.WriteString(fmt.Sprintf("**Started:** %s\n\n", summary.StartTime.Format(time.RFC3339)))
	md.WriteString(fmt.Sprintf("**Duration:** %s\n\n", summary.Duration))

	md.WriteString("## Result\n\n")
	if summary.Error != "" {
		md.WriteString(fmt.Sprintf("❌ **Error:** %s\n\n", summary.Error))
		if summary.Advice != "" {
			md.WriteString(fmt.Sprintf("%s.\n\n", summary.Advice))
		}
	} else {
		md.WriteString("✅ **Success**\n\n")
	}

	if summary.CodeFile != "" {
		md.WriteString("## Code\n\n")
		md.WriteString(fmt.Sprintf("- **File:** `%s`\n", filepath.Base(summary.CodeFile)))
		md.WriteString(fmt.Sprintf("- **Lines:** %d\n", summary.CodeLines))
		md.WriteString(fmt.Sprintf("- **Tokens:** %d\n", summary.TokenCount))
		md.WriteString(fmt.Sprintf("- **Attempts:** %d\n\n", summary.Attempts))
	}

	if summary.CheckResults != nil && len(summary.CheckResults.Results) > 0 {
		md.WriteString("## Checks\n\n")
		for _, result := range summary.CheckResults.Results {
			status := "✅"
			if !result.Passed {
				status = "❌"
			}
			md.WriteString(fmt.Sprintf("%s **%s**", status, result.Name))
			if result.Required {
				md.WriteString(" (required)")
			}
			md.WriteString("\n")
			if result.Error != "" {
				md.WriteString(fmt.Sprintf("   Error: %s\n", result.Error))
			}
		}
		md.WriteString("\n")
	}

	if v := summary.Visualization; v != nil {
		md.WriteString("## Visualization\n\n")
		md.WriteString("| Step | Result | Duration | Notes |\n|---|---|---|---|\n")
		for _, step := range v.Steps {
			result, notes := "✅", step.Summary
			if step.Error != "" {
				result, notes = "❌", step.Error
			}
			md.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
				step.Role.Title(), result, step.Duration.Round(time.Millisecond), tableCell(notes)))
		}
		md.WriteString("\n")
		md.WriteString(fmt.Sprintf("- **Tool Calls:** %d\n", summary.ToolCallCount))
		md.WriteString(fmt.Sprintf("- **Agent Tokens:** %d\n", summary.TokensUsed))
	}

	return os.WriteFile(filepath.Join(w.outputDir, SummaryFileName), []byte(md.String()), 0600)
}

func tableCell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", "\\|")
}

// ExecutionSummary describes one headless run.
type ExecutionSummary struct {
	Query         string                `json:"query"`
	Provider      types.Provider        `json:"provider"`
	Model         string                `json:"model,omitempty"`
	Status        string                `json:"status"`
	Error         string                `json:"error,omitempty"`
	Advice        string                `json:"advice,omitempty"`
	StartTime     time.Time             `json:"start_time"`
	EndTime       time.Time             `json:"end_time"`
	Duration      time.Duration         `json:"duration"`
	ArtifactID    string                `json:"artifact_id,omitempty"`
	CodeFile      string                `json:"code_file,omitempty"`
	CodeLines     int                   `json:"code_lines,omitempty"`
	TokenCount    int                   `json:"token_count,omitempty"`
	Attempts      int                   `json:"attempts"`
	CheckResults  *CheckResults         `json:"check_results,omitempty"`
	Visualization *VisualizationSummary `json:"visualization,omitempty"`
	ToolCallCount int                   `json:"tool_call_count"`
	TokensUsed    int                   `json:"tokens_used"`
}

// VisualizationSummary records the browser part of a run.
type VisualizationSummary struct {
	RunID      string          `json:"run_id"`
	Success    bool            `json:"success"`
	Reason     string          `json:"reason,omitempty"`
	FailedRole types.AgentRole `json:"failed_role,omitempty"`
	Steps      []StepSummary   `json:"steps"`
}

// StepSummary records one agent step.
type StepSummary struct {
	Role     types.AgentRole `json:"role"`
	Summary  string          `json:"summary,omitempty"`
	Error    string          `json:"error,omitempty"`
	Duration time.Duration   `json:"duration"`
}
