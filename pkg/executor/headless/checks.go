package headless

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// fileToken in a check command is replaced with the generated file's path.
const fileToken = "{file}"

// CodeCheck validates generated code before it is visualized.
type CodeCheck interface {
	Name() string

	// Required reports whether failure rejects the generated code.
	Required() bool

	Execute(ctx context.Context, dir, file string) error
}

// CommandCheck runs a command such as "python3 -m py_compile {file}".
type CommandCheck struct {
	name     string
	command  string
	required bool
	timeout  time.Duration
}

// NewCommandCheck creates a command-based check.
func NewCommandCheck(name, command string, required bool) *CommandCheck {
	if name == "" {
		name = command
	}
	return &CommandCheck{
		name:     name,
		command:  command,
		required: required,
		timeout:  time.Minute,
	}
}

// Name returns the name of the check
func (c *CommandCheck) Name() string {
	return c.name
}

// Required returns true if failure rejects the code
func (c *CommandCheck) Required() bool {
	return c.required
}

// Execute runs the command in dir with {file} substituted.
func (c *CommandCheck) Execute(ctx context.Context, dir, file string) error {
	execCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	parts := strings.Fields(c.command)
	if len(parts) == 0 {
		return fmt.Errorf("empty command")
	}
	for i, p := range parts {
		parts[i] = strings.ReplaceAll(p, fileToken, file)
	}

	cmd := exec.CommandContext(execCtx, parts[0], parts[1:]...)
	cmd.Dir = dir

	output, err := cmd.CombinedOutput()
	if err != nil {
		return &CheckError{
			CheckName: c.name,
			Command:   c.command,
			Output:    strings.TrimSpace(string(output)),
			Err:       err,
		}
	}
	return nil
}

// CheckError reports a failed check command.
type CheckError struct {
	CheckName string
	Command   string
	Output    string
	Err       error
}

func (e *CheckError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("check '%s' failed: %v\n%s", e.CheckName, e.Err, e.Output)
	}
	return fmt.Sprintf("check '%s' failed: %v", e.CheckName, e.Err)
}

// Unwrap returns the underlying error
func (e *CheckError) Unwrap() error {
	return e.Err
}

// CheckRunner runs checks in order.
type CheckRunner struct {
	checks []CodeCheck
}

// NewCheckRunner creates a runner for checks.
func NewCheckRunner(checks []CodeCheck) *CheckRunner {
	return &CheckRunner{checks: checks}
}

// Len returns the number of configured checks.
func (r *CheckRunner) Len() int {
	return len(r.checks)
}

// RunAll executes every check. AllPassed is false only when a required
// check fails.
func (r *CheckRunner) RunAll(ctx context.Context, dir, file string) *CheckResults {
	results := &CheckResults{
		AllPassed: true,
		Results:   make([]CheckResult, 0, len(r.checks)),
	}

	for _, check := range r.checks {
		result := CheckResult{
			Name:     check.Name(),
			Required: check.Required(),
			Passed:   true,
		}
		if err := check.Execute(ctx, dir, file); err != nil {
			result.Passed = false
			result.Error = err.Error()
			if check.Required() {
				results.AllPassed = false
			}
		}
		results.Results = append(results.Results, result)
	}
	return results
}

// CheckResults contains results from one round of checks
type CheckResults struct {
	AllPassed bool          `json:"all_passed"`
	Results   []CheckResult `json:"results"`
}

// CheckResult represents the result of a single check
type CheckResult struct {
	Name     string `json:"name"`
	Required bool   `json:"required"`
	Passed   bool   `json:"passed"`
	Error    string `json:"error,omitempty"`
}

// FailedRequired returns the failed required checks
func (r *CheckResults) FailedRequired() []CheckResult {
	failed := make([]CheckResult, 0)
	for _, result := range r.Results {
		if result.Required && !result.Passed {
			failed = append(failed, result)
		}
	}
	return failed
}

// FormatErrorMessage lists the failed required checks.
func (r *CheckResults) FormatErrorMessage() string {
	failed := r.FailedRequired()
	if len(failed) == 0 {
		return ""
	}

	var msg strings.Builder
	msg.WriteString("Check failures:\n")
	for _, result := range failed {
		msg.WriteString(fmt.Sprintf("- %s: %s\n", result.Name, result.Error))
	}
	return msg.String()
}

// FormatFeedback turns failed checks into an addition to the generation
// query so the next attempt can fix them.
func (r *CheckResults) FormatFeedback(attempt, maxRetries int) string {
	failed := r.FailedRequired()
	if len(failed) == 0 {
		return ""
	}

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("\n\nYour previous program failed automated checks (attempt %d/%d). ", attempt, maxRetries+1))
	msg.WriteString("Write the whole program again and fix these problems:\n")
	for _, result := range failed {
		msg.WriteString(fmt.Sprintf("- %s: %s\n", result.Name, result.Error))
	}
	return msg.String()
}

// CreateChecks creates checks from configuration
func CreateChecks(configs []CheckConfig) []CodeCheck {
	checks := make([]CodeCheck, 0, len(configs))
	for _, cfg := range configs {
		checks = append(checks, NewCommandCheck(cfg.Name, cfg.Command, cfg.Required))
	}
	return checks
}
