package visualize

import (
	"time"

	"github.com/entrhq/pyforge/pkg/types"
)

// StepResult records one agent run.
type StepResult struct {
	Err         error
	Role        types.AgentRole
	Instruction string
	Summary     string
	Duration    time.Duration
}

// Succeeded reports whether the step finished its task.
func (s StepResult) Succeeded() bool {
	return s.Err == nil
}

// Outcome is the result of a visualization run.
type Outcome struct {
	// Err is the *AutomationError behind a failed run.
	Err error

	RunID      string
	Reason     string
	Advice     string
	FailedRole types.AgentRole
	Steps      []StepResult
	StartedAt  time.Time
	Duration   time.Duration
	Success    bool
}

func (o *Outcome) fail(err *AutomationError) {
	o.Success = false
	o.Err = err
	o.Reason = err.Error()
	o.FailedRole = err.Role
	o.Advice = ManualAdvice
}
