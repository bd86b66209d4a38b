package browser

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"

	"github.com/entrhq/pyforge/pkg/agent/tools"
)

// EvaluateTool runs JavaScript in the page.
type EvaluateTool struct {
	page Page
}

// NewEvaluateTool creates an evaluate tool.
func NewEvaluateTool(page Page) *EvaluateTool {
	return &EvaluateTool{page: page}
}

// Name returns the tool name.
func (t *EvaluateTool) Name() string {
	return "browser_evaluate"
}

// Description returns the tool description.
func (t *EvaluateTool) Description() string {
	return "Execute JavaScript in the page and return the result of the expression. For multi-statement code wrap it in an IIFE: (() => { /* code */ })()."
}

// Schema returns the tool's JSON schema.
func (t *EvaluateTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"code": map[string]interface{}{
				"type":        "string",
				"description": "JavaScript expression to evaluate",
			},
		},
		[]string{"code"},
	)
}

type evaluateParams struct {
	XMLName xml.Name `xml:"arguments"`
	Code    string   `xml:"code"`
}

// Execute evaluates the expression.
func (t *EvaluateTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var input evaluateParams
	if err := tools.UnmarshalXMLWithFallback(argsXML, &input); err != nil {
		return "", nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if input.Code == "" {
		return "", nil, fmt.Errorf("JavaScript code is required")
	}

	if err := ctx.Err(); err != nil {
		return "", nil, err
	}
	result, err := t.page.Evaluate(input.Code)
	if err != nil {
		return "", nil, err
	}

	return fmt.Sprintf("Result:\n%s", formatResult(result)), nil, nil
}

func formatResult(v interface{}) string {
	if v == nil {
		return "undefined"
	}
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

// IsLoopBreaking returns whether this tool breaks the agent loop.
func (t *EvaluateTool) IsLoopBreaking() bool {
	return false
}
