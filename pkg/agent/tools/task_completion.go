package tools

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"
)

// TaskCompletionToolName is the name of the tool that ends a step successfully.
const TaskCompletionToolName = "task_completion"

// TaskCompletionTool ends the agent loop and reports what the step achieved.
type TaskCompletionTool struct{}

// NewTaskCompletionTool creates a new task completion tool
func NewTaskCompletionTool() *TaskCompletionTool {
	return &TaskCompletionTool{}
}

// Name returns the tool's identifier
func (t *TaskCompletionTool) Name() string {
	return TaskCompletionToolName
}

// Description returns a description of what this tool does
func (t *TaskCompletionTool) Description() string {
	return "Signal that your browser task is done. Call this once the page is in the state your task asks for, " +
		"and describe what you observed."
}

// Schema returns the JSON schema for the tool's arguments
func (t *TaskCompletionTool) Schema() map[string]interface{} {
	return BaseToolSchema(
		map[string]interface{}{
			"result": map[string]interface{}{
				"type":        "string",
				"description": "A short summary of what was done and what the page showed.",
			},
		},
		[]string{"result"},
	)
}

// Execute returns the summary.
func (t *TaskCompletionTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var args struct {
		XMLName xml.Name `xml:"arguments"`
		Result  string   `xml:"result"`
	}
	if err := UnmarshalXMLWithFallback(argsXML, &args); err != nil {
		return "", nil, fmt.Errorf("invalid arguments for %s: %w", TaskCompletionToolName, err)
	}

	result := strings.TrimSpace(args.Result)
	if result == "" {
		return "", nil, fmt.Errorf("result cannot be empty")
	}
	return result, nil, nil
}

// IsLoopBreaking returns true because this tool terminates the agent loop
func (t *TaskCompletionTool) IsLoopBreaking() bool {
	return true
}
