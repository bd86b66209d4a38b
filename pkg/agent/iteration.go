package agent

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/entrhq/pyforge/pkg/agent/prompts"
	"github.com/entrhq/pyforge/pkg/agent/tools"
	"github.com/entrhq/pyforge/pkg/types"
)

// iterationOutcome is the result of one model call and its tool call.
type iterationOutcome struct {
	// result is the task_completion summary when done is set.
	result string

	// errorContext is fed to the next iteration as an ephemeral message.
	errorContext string

	done bool
}

var thinkingTags = regexp.MustCompile(`</?thinking>`)

// executeIteration performs a single model call and acts on its tool call.
func (a *Agent) executeIteration(ctx context.Context, systemPrompt, errorContext string) (*iterationOutcome, error) {
	if a.context != nil {
		if pruned, n := a.context.Evaluate(a.history); n > 0 {
			agentLog.Debugf("%s history trimmed (%d tool results elided)", a.role.Title(), n)
			a.history = pruned
		}
	}

	messages := prompts.BuildMessages(systemPrompt, a.history, errorContext)

	var promptTokens int
	if a.tokenizer != nil {
		promptTokens = a.tokenizer.CountMessagesTokens(messages)
	}

	resp, err := a.provider.Complete(ctx, messages)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%s interrupted: %w", a.role.Title(), ctx.Err())
		}
		return nil, fmt.Errorf("%s model call failed: %w", a.role.Title(), err)
	}

	if a.tokenizer != nil {
		completionTokens := a.tokenizer.CountTokens(resp.Content)
		a.emit.Emit(types.NewTokenUsageEvent(a.role, promptTokens, completionTokens))
	}

	a.history = append(a.history, types.NewAssistantMessage(resp.Content))

	thinking, call, parseErr := tools.ExtractThinkingAndToolCall(resp.Content)
	if thinking = strings.TrimSpace(thinkingTags.ReplaceAllString(thinking, "")); thinking != "" {
		a.emit.Emit(types.NewThinkingEvent(a.role, thinking))
	}

	if parseErr != nil {
		return a.handleMistake(prompts.ErrorRecoveryContext{Type: prompts.ErrorTypeInvalidXML, Error: parseErr})
	}
	if call == nil {
		return a.handleMistake(prompts.ErrorRecoveryContext{Type: prompts.ErrorTypeNoToolCall})
	}

	return a.executeTool(ctx, call)
}

// handleMistake records a mistake and returns the message for the next iteration,
// or an error once the circuit breaker trips.
func (a *Agent) handleMistake(ec prompts.ErrorRecoveryContext) (*iterationOutcome, error) {
	msg := prompts.BuildErrorRecoveryMessage(ec)

	a.consecutiveErrors++
	agentLog.Debugf("%s error %d/%d: %s", a.role.Title(), a.consecutiveErrors, maxConsecutiveErrors, msg)
	if a.consecutiveErrors >= maxConsecutiveErrors {
		return nil, fmt.Errorf("%s: %w (%d in a row, last: %s)", a.role.Title(), ErrCircuitBreaker, a.consecutiveErrors, msg)
	}

	return &iterationOutcome{errorContext: msg}, nil
}
