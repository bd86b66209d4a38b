package agent

import (
	"context"
	"fmt"

	"github.com/entrhq/pyforge/pkg/types"
)

// Run drives the loop until the model ends the task. It returns the
// task_completion summary, or an error when the model gives up, the step
// budget runs out, the circuit breaker trips, the model call fails or ctx
// is done.
//
// Run is not safe for concurrent use and starts a fresh conversation each
// time it is called.
func (a *Agent) Run(ctx context.Context) (string, error) {
	systemPrompt := a.SystemPrompt()
	a.history = []*types.Message{types.NewUserMessage(a.instruction)}
	a.consecutiveErrors = 0

	agentLog.Infof("%s starting: %s", a.role.Title(), a.instruction)

	var errorContext string
	for step := 1; step <= a.maxSteps; step++ {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("%s interrupted: %w", a.role.Title(), err)
		}

		agentLog.Debugf("%s iteration %d", a.role.Title(), step)
		out, err := a.executeIteration(ctx, systemPrompt, errorContext)
		if err != nil {
			agentLog.Warnf("%s stopped after %d iterations: %v", a.role.Title(), step, err)
			return "", err
		}
		if out.done {
			agentLog.Infof("%s completed in %d iterations", a.role.Title(), step)
			return out.result, nil
		}
		errorContext = out.errorContext
	}

	return "", fmt.Errorf("%s: %w (%d iterations)", a.role.Title(), ErrMaxSteps, a.maxSteps)
}
