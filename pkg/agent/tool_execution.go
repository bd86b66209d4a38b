package agent

import (
	"context"
	"fmt"
	"maps"

	agentcontext "github.com/entrhq/pyforge/pkg/agent/context"
	"github.com/entrhq/pyforge/pkg/agent/prompts"
	"github.com/entrhq/pyforge/pkg/agent/tools"
	"github.com/entrhq/pyforge/pkg/types"
)

// executeTool looks up and runs the call, feeding the result back into the
// conversation or ending the loop for loop-breaking tools.
func (a *Agent) executeTool(ctx context.Context, call *tools.ToolCall) (*iterationOutcome, error) {
	tool, ok := a.tools.Get(call.ToolName)
	if !ok {
		return a.handleMistake(prompts.ErrorRecoveryContext{
			Type:           prompts.ErrorTypeUnknownTool,
			ToolName:       call.ToolName,
			AvailableTools: a.tools.All(),
		})
	}

	argsXML := call.GetArgumentsXML()
	argsMap, err := tools.XMLToMap(argsXML)
	if err != nil {
		argsMap = make(map[string]interface{})
	}
	a.emit.Emit(types.NewToolCallEvent(a.role, call.ToolName, argsMap))

	result, metadata, toolErr := tool.Execute(ctx, argsXML)
	if toolErr != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%s interrupted: %w", a.role.Title(), ctx.Err())
		}
		a.emit.Emit(types.NewToolResultErrorEvent(a.role, call.ToolName, toolErr))
		return a.handleMistake(prompts.ErrorRecoveryContext{
			Type:     prompts.ErrorTypeToolExecution,
			ToolName: call.ToolName,
			Error:    toolErr,
		})
	}

	event := types.NewToolResultEvent(a.role, call.ToolName, result)
	if len(metadata) > 0 {
		maps.Copy(event.Metadata, metadata)
	}
	a.emit.Emit(event)
	a.consecutiveErrors = 0

	if tool.IsLoopBreaking() {
		if call.ToolName == tools.TaskFailureToolName {
			return nil, &TaskFailedError{Role: a.role, Reason: result}
		}
		return &iterationOutcome{result: result, done: true}, nil
	}

	a.history = append(a.history, agentcontext.ToolResultMessage(call.ToolName, result))
	return &iterationOutcome{}, nil
}
