package tui

import (
	"fmt"
	"strings"

	"github.com/entrhq/pyforge/pkg/types"
)

// handleProgress records a pipeline event in the progress log.
func (m *model) handleProgress(ev *types.Event) {
	switch ev.Type {
	case types.EventTypeStepStart:
		m.busyMessage = fmt.Sprintf("%s is working...", ev.Role.Title())
	case types.EventTypeTokenUsage:
		if ev.TokenUsage != nil {
			m.agentTokens += ev.TokenUsage.TotalTokens
		}
		return
	}

	if line := progressLine(ev); line != "" {
		m.progress = append(m.progress, line)
		if len(m.progress) > maxProgressLines {
			m.progress = m.progress[len(m.progress)-maxProgressLines:]
		}
	}
}

// progressLine formats one event, or returns "" for events not shown.
func progressLine(ev *types.Event) string {
	switch ev.Type {
	case types.EventTypeGenerationStart:
		return fmt.Sprintf("→ requesting code from %v", ev.Metadata["provider"])
	case types.EventTypeStepStart:
		return fmt.Sprintf("▶ %s", ev.Role.Title())
	case types.EventTypeStepComplete:
		return fmt.Sprintf("✓ %s: %s", ev.Role.Title(), oneLine(ev.Content, 80))
	case types.EventTypeStepFailed:
		return fmt.Sprintf("✗ %s: %v", ev.Role.Title(), ev.Error)
	case types.EventTypeToolCall:
		return fmt.Sprintf("  • %s", ev.ToolName)
	case types.EventTypeToolResultError:
		return fmt.Sprintf("  ! %s: %s", ev.ToolName, oneLine(fmt.Sprint(ev.Error), 80))
	default:
		return ""
	}
}

func oneLine(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > max {
		return s[:max-3] + "..."
	}
	return s
}

// formatTokenCount formats a token count with K/M suffixes for readability
func formatTokenCount(count int) string {
	if count >= 1000000 {
		return fmt.Sprintf("%.1fM", float64(count)/1000000)
	}
	if count >= 1000 {
		return fmt.Sprintf("%.1fK", float64(count)/1000)
	}
	return fmt.Sprintf("%d", count)
}
