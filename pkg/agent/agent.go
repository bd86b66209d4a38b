// Package agent runs a single browser automation step: one instruction, one
// model and one page, driven through an XML tool-calling loop until the
// model calls task_completion or task_failed.
//
//	ag, err := agent.New(types.RoleNavigator, "Go to https://trinket.io/features/pygame",
//	    provider, browser.Tools(page, browser.ToolConfig{}))
//	if err != nil {
//	    return err
//	}
//	summary, err := ag.Run(ctx)
package agent

import (
	"errors"
	"fmt"
	"strings"

	agentcontext "github.com/entrhq/pyforge/pkg/agent/context"
	"github.com/entrhq/pyforge/pkg/agent/prompts"
	"github.com/entrhq/pyforge/pkg/agent/tools"
	"github.com/entrhq/pyforge/pkg/llm"
	"github.com/entrhq/pyforge/pkg/llm/tokenizer"
	"github.com/entrhq/pyforge/pkg/logging"
	"github.com/entrhq/pyforge/pkg/types"
)

var agentLog *logging.Logger

func init() {
	var err error
	agentLog, err = logging.NewLogger("agent")
	if err != nil {
		agentLog.Warnf("Failed to initialize agent logger, using stderr fallback: %v", err)
	}
}

const (
	// DefaultMaxSteps bounds the model calls one Run may make.
	DefaultMaxSteps = 15

	// maxConsecutiveErrors trips the circuit breaker.
	maxConsecutiveErrors = 5
)

var (
	// ErrMaxSteps is returned when the step budget runs out before the task ends.
	ErrMaxSteps = errors.New("step limit reached before the task was completed")

	// ErrCircuitBreaker is returned after too many consecutive mistakes.
	ErrCircuitBreaker = errors.New("too many consecutive errors")
)

// TaskFailedError is returned when the model gives up with task_failed.
type TaskFailedError struct {
	Role   types.AgentRole
	Reason string
}

func (e *TaskFailedError) Error() string {
	return fmt.Sprintf("%s could not complete its task: %s", e.Role.Title(), e.Reason)
}

// Agent is one instruction-following browser actor.
type Agent struct {
	provider    llm.Provider
	tools       *tools.Set
	tokenizer   *tokenizer.Tokenizer
	context     *agentcontext.Manager
	emit        types.EventEmitter
	role        types.AgentRole
	instruction string
	history     []*types.Message
	maxSteps    int

	consecutiveErrors int
}

// Option configures an Agent.
type Option func(*Agent)

// WithTokenizer enables token usage events.
func WithTokenizer(t *tokenizer.Tokenizer) Option {
	return func(a *Agent) {
		a.tokenizer = t
	}
}

// WithContextManager keeps the conversation inside a token budget.
func WithContextManager(m *agentcontext.Manager) Option {
	return func(a *Agent) {
		a.context = m
	}
}

// WithEventEmitter sets the progress event sink.
func WithEventEmitter(emit types.EventEmitter) Option {
	return func(a *Agent) {
		a.emit = emit
	}
}

// WithMaxSteps overrides DefaultMaxSteps. Values below 1 are ignored.
func WithMaxSteps(n int) Option {
	return func(a *Agent) {
		if n > 0 {
			a.maxSteps = n
		}
	}
}

// New creates an agent for role. The loop control tools task_completion and
// task_failed are added to browserTools.
func New(role types.AgentRole, instruction string, provider llm.Provider, browserTools []tools.Tool, opts ...Option) (*Agent, error) {
	if provider == nil {
		return nil, errors.New("agent requires an LLM provider")
	}
	if strings.TrimSpace(instruction) == "" {
		return nil, errors.New("agent requires an instruction")
	}

	all := append([]tools.Tool{}, browserTools...)
	all = append(all, tools.NewTaskCompletionTool(), tools.NewTaskFailureTool())
	set, err := tools.NewSet(all...)
	if err != nil {
		return nil, fmt.Errorf("invalid tool set for %s: %w", role, err)
	}

	a := &Agent{
		provider:    provider,
		tools:       set,
		role:        role,
		instruction: instruction,
		maxSteps:    DefaultMaxSteps,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Role returns the step this agent plays.
func (a *Agent) Role() types.AgentRole {
	return a.role
}

// Instruction returns the task text.
func (a *Agent) Instruction() string {
	return a.instruction
}

// Tools returns the agent's tools in registration order.
func (a *Agent) Tools() []tools.Tool {
	return a.tools.All()
}

// History returns a copy of the conversation so far.
func (a *Agent) History() []*types.Message {
	return append([]*types.Message(nil), a.history...)
}

// SystemPrompt returns the prompt sent with every model call.
func (a *Agent) SystemPrompt() string {
	return prompts.NewPromptBuilder().
		WithRole(a.role.Title()).
		WithTask(a.instruction).
		WithTools(a.tools.All()).
		Build()
}
