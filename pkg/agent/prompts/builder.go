package prompts

import (
	"strings"

	"github.com/entrhq/pyforge/pkg/agent/tools"
	"github.com/entrhq/pyforge/pkg/types"
)

// PromptBuilder constructs the system prompt for one automation step.
type PromptBuilder struct {
	tools []tools.Tool
	role  string
	task  string
}

// NewPromptBuilder creates a new prompt builder with default settings
func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{
		tools: []tools.Tool{},
	}
}

// WithTools sets the available tools for the agent
func (pb *PromptBuilder) WithTools(toolsList []tools.Tool) *PromptBuilder {
	pb.tools = toolsList
	return pb
}

// WithRole names the step the agent plays, e.g. "Navigator".
func (pb *PromptBuilder) WithRole(role string) *PromptBuilder {
	pb.role = role
	return pb
}

// WithTask sets the natural-language instruction for the step.
func (pb *PromptBuilder) WithTask(task string) *PromptBuilder {
	pb.task = task
	return pb
}

// Build constructs the complete system prompt by assembling all sections
func (pb *PromptBuilder) Build() string {
	var b strings.Builder

	if pb.role != "" {
		b.WriteString("You are the ")
		b.WriteString(pb.role)
		b.WriteString(" in a browser automation run that executes a pygame program on trinket.io.\n\n")
	}

	if pb.task != "" {
		b.WriteString("<task>\n")
		b.WriteString(pb.task)
		b.WriteString("\n</task>\n\n")
	}

	b.WriteString(SystemCapabilitiesPrompt)
	b.WriteString("\n\n")
	b.WriteString(AgentLoopPrompt)
	b.WriteString("\n\n")
	b.WriteString(ChainOfThoughtPrompt)
	b.WriteString("\n\n")
	b.WriteString(ToolCallingPrompt)
	b.WriteString("\n\n")

	if len(pb.tools) > 0 {
		b.WriteString("<available_tools>\n")
		b.WriteString(FormatToolSchemas(pb.tools))
		b.WriteString("</available_tools>\n\n")
	}

	b.WriteString(ToolUseRulesPrompt)
	b.WriteString("\n\n")
	b.WriteString(BrowserUsePrompt)

	return b.String()
}

// BuildMessages creates the message list for one iteration. errorContext is
// appended as an ephemeral user message that is not kept in history.
func BuildMessages(systemPrompt string, history []*types.Message, errorContext string) []*types.Message {
	messages := make([]*types.Message, 0, len(history)+2)
	messages = append(messages, types.NewSystemMessage(systemPrompt))

	for _, msg := range history {
		if msg.Role != types.RoleSystem {
			messages = append(messages, msg)
		}
	}

	if errorContext != "" {
		messages = append(messages, types.NewUserMessage(errorContext))
	}

	return messages
}
