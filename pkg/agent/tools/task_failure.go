package tools

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"
)

// TaskFailureToolName is the name of the tool that ends a step as failed.
const TaskFailureToolName = "task_failed"

// TaskFailureTool lets the agent give up on a step it cannot accomplish, for
// example when the page never offers the expected control. The agent loop
// treats a call as the end of the step with an error.
type TaskFailureTool struct{}

// NewTaskFailureTool creates a new task failure tool.
func NewTaskFailureTool() *TaskFailureTool {
	return &TaskFailureTool{}
}

// Name returns the tool's identifier.
func (t *TaskFailureTool) Name() string {
	return TaskFailureToolName
}

// Description returns a description of what this tool does.
func (t *TaskFailureTool) Description() string {
	return "Report that your browser task cannot be completed. Use this only after you have tried the " +
		"available tools and the page does not allow the task, and explain what blocked you."
}

// Schema returns the JSON schema for the tool's arguments.
func (t *TaskFailureTool) Schema() map[string]interface{} {
	return BaseToolSchema(
		map[string]interface{}{
			"reason": map[string]interface{}{
				"type":        "string",
				"description": "What prevented the task, in one or two sentences.",
			},
		},
		[]string{"reason"},
	)
}

// Execute returns the reason.
func (t *TaskFailureTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var args struct {
		XMLName xml.Name `xml:"arguments"`
		Reason  string   `xml:"reason"`
	}
	if err := UnmarshalXMLWithFallback(argsXML, &args); err != nil {
		return "", nil, fmt.Errorf("invalid arguments for %s: %w", TaskFailureToolName, err)
	}

	reason := strings.TrimSpace(args.Reason)
	if reason == "" {
		return "", nil, fmt.Errorf("reason cannot be empty")
	}
	return reason, map[string]interface{}{"failed": true}, nil
}

// IsLoopBreaking returns true because this tool terminates the agent loop.
func (t *TaskFailureTool) IsLoopBreaking() bool {
	return true
}
