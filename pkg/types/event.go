package types

// EventType defines the type of progress event emitted while generating code
// or driving the browser.
type EventType string

const (
	EventTypeGenerationStart    EventType = "generation_start"    // EventTypeGenerationStart indicates a completion request is about to be sent.
	EventTypeGenerationComplete EventType = "generation_complete" // EventTypeGenerationComplete indicates a new artifact was stored.
	EventTypeGenerationFailed   EventType = "generation_failed"   // EventTypeGenerationFailed indicates generation failed and the previous artifact was kept.
	EventTypeStepStart          EventType = "step_start"          // EventTypeStepStart indicates an automation agent started running.
	EventTypeStepComplete       EventType = "step_complete"       // EventTypeStepComplete indicates an automation agent finished its task.
	EventTypeStepFailed         EventType = "step_failed"         // EventTypeStepFailed indicates an automation agent failed and the run stops.
	EventTypeToolCall           EventType = "tool_call"           // EventTypeToolCall indicates an agent is calling a browser tool.
	EventTypeToolResult         EventType = "tool_result"         // EventTypeToolResult indicates a successful tool call result.
	EventTypeToolResultError    EventType = "tool_result_error"   // EventTypeToolResultError indicates a tool call resulted in an error.
	EventTypeThinking           EventType = "thinking"            // EventTypeThinking carries the agent's reasoning text for one iteration.
	EventTypeTokenUsage         EventType = "token_usage"         // EventTypeTokenUsage indicates token usage for one LLM call.
	EventTypeRunComplete        EventType = "run_complete"        // EventTypeRunComplete indicates the visualization run ended.
)

// Event represents a progress notification. Surfaces render these; nothing
// in the pipeline depends on them being consumed.
type Event struct {
	// Metadata holds optional additional information about the event.
	Metadata map[string]interface{}

	// ToolInput is the parsed argument map for tool call events.
	ToolInput map[string]interface{}

	// Error contains error information for failure events.
	Error error

	// TokenUsage is set for token usage events.
	TokenUsage *TokenUsage

	// Content holds text content (tool output, thinking, summaries).
	Content string

	// ToolName is the browser tool being called.
	ToolName string

	// Role is the automation step the event belongs to, if any.
	Role AgentRole

	Type EventType
}

// TokenUsage contains token usage statistics from an LLM call.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// EventEmitter receives progress events. A nil emitter drops them.
type EventEmitter func(*Event)

// Emit sends the event if the emitter is non-nil.
func (e EventEmitter) Emit(event *Event) {
	if e != nil {
		e(event)
	}
}

func newEvent(t EventType) *Event {
	return &Event{Type: t, Metadata: make(map[string]interface{})}
}

// NewGenerationStartEvent creates a generation start event.
func NewGenerationStartEvent(provider Provider) *Event {
	ev := newEvent(EventTypeGenerationStart)
	ev.Metadata["provider"] = string(provider)
	return ev
}

// NewGenerationCompleteEvent creates a generation complete event.
func NewGenerationCompleteEvent(artifact *GeneratedArtifact) *Event {
	ev := newEvent(EventTypeGenerationComplete)
	ev.Content = artifact.NormalizedCode
	ev.Metadata["artifact_id"] = artifact.ID
	ev.Metadata["model"] = artifact.Model
	return ev
}

// NewGenerationFailedEvent creates a generation failed event.
func NewGenerationFailedEvent(err error) *Event {
	ev := newEvent(EventTypeGenerationFailed)
	ev.Error = err
	return ev
}

// NewStepStartEvent creates a step start event.
func NewStepStartEvent(role AgentRole, instruction string) *Event {
	ev := newEvent(EventTypeStepStart)
	ev.Role = role
	ev.Content = instruction
	return ev
}

// NewStepCompleteEvent creates a step complete event.
func NewStepCompleteEvent(role AgentRole, summary string) *Event {
	ev := newEvent(EventTypeStepComplete)
	ev.Role = role
	ev.Content = summary
	return ev
}

// NewStepFailedEvent creates a step failed event.
func NewStepFailedEvent(role AgentRole, err error) *Event {
	ev := newEvent(EventTypeStepFailed)
	ev.Role = role
	ev.Error = err
	return ev
}

// NewToolCallEvent creates a tool call event.
func NewToolCallEvent(role AgentRole, toolName string, toolInput map[string]interface{}) *Event {
	ev := newEvent(EventTypeToolCall)
	ev.Role = role
	ev.ToolName = toolName
	ev.ToolInput = toolInput
	return ev
}

// NewToolResultEvent creates a tool result event.
func NewToolResultEvent(role AgentRole, toolName, output string) *Event {
	ev := newEvent(EventTypeToolResult)
	ev.Role = role
	ev.ToolName = toolName
	ev.Content = output
	return ev
}

// NewToolResultErrorEvent creates a tool result error event.
func NewToolResultErrorEvent(role AgentRole, toolName string, err error) *Event {
	ev := newEvent(EventTypeToolResultError)
	ev.Role = role
	ev.ToolName = toolName
	ev.Error = err
	return ev
}

// NewThinkingEvent creates a thinking event.
func NewThinkingEvent(role AgentRole, content string) *Event {
	ev := newEvent(EventTypeThinking)
	ev.Role = role
	ev.Content = content
	return ev
}

// NewTokenUsageEvent creates a token usage event.
func NewTokenUsageEvent(role AgentRole, promptTokens, completionTokens int) *Event {
	ev := newEvent(EventTypeTokenUsage)
	ev.Role = role
	ev.TokenUsage = &TokenUsage{
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		TotalTokens:      promptTokens + completionTokens,
	}
	return ev
}

// NewRunCompleteEvent creates a run complete event. err is nil on success.
func NewRunCompleteEvent(err error) *Event {
	ev := newEvent(EventTypeRunComplete)
	ev.Error = err
	return ev
}

// IsError reports whether the event signals a failure.
func (e *Event) IsError() bool {
	return e.Error != nil
}
