package prompts

import (
	"fmt"
	"strings"

	"github.com/entrhq/pyforge/pkg/agent/tools"
)

// ErrorType classifies a recoverable mistake in an iteration.
type ErrorType int

const (
	// ErrorTypeNoToolCall means the response contained no tool call.
	ErrorTypeNoToolCall ErrorType = iota
	// ErrorTypeInvalidXML means the tool call could not be parsed.
	ErrorTypeInvalidXML
	// ErrorTypeUnknownTool means the named tool does not exist.
	ErrorTypeUnknownTool
	// ErrorTypeToolExecution means the tool returned an error.
	ErrorTypeToolExecution
)

// ErrorRecoveryContext describes a mistake to feed back to the model.
type ErrorRecoveryContext struct {
	Error          error
	ToolName       string
	AvailableTools []tools.Tool
	Type           ErrorType
}

// BuildErrorRecoveryMessage tells the model what went wrong and how to continue.
func BuildErrorRecoveryMessage(ec ErrorRecoveryContext) string {
	switch ec.Type {
	case ErrorTypeNoToolCall:
		return "ERROR: Your response did not contain a tool call. Every response must end with exactly one " +
			"<tool> element. If your task is done, call task_completion; if it cannot be done, call task_failed."
	case ErrorTypeInvalidXML:
		return fmt.Sprintf("ERROR: Your tool call could not be parsed: %v\n"+
			"Check that every tag is closed and that &, < and > inside values are escaped.", ec.Error)
	case ErrorTypeUnknownTool:
		names := make([]string, 0, len(ec.AvailableTools))
		for _, t := range ec.AvailableTools {
			names = append(names, t.Name())
		}
		return fmt.Sprintf("ERROR: Unknown tool '%s'. Available tools: %s", ec.ToolName, strings.Join(names, ", "))
	default:
		return fmt.Sprintf("ERROR: Tool '%s' failed: %v\n"+
			"Read the page again if a selector was wrong, then try a different approach.", ec.ToolName, ec.Error)
	}
}
