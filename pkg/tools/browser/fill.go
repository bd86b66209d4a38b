package browser

import (
	"context"
	"encoding/xml"
	"fmt"

	"github.com/entrhq/pyforge/pkg/agent/tools"
)

// FillTool sets the value of a form field.
type FillTool struct {
	page Page
}

// NewFillTool creates a fill tool.
func NewFillTool(page Page) *FillTool {
	return &FillTool{page: page}
}

// Name returns the tool name.
func (t *FillTool) Name() string {
	return "browser_fill"
}

// Description returns the tool description.
func (t *FillTool) Description() string {
	return "Fill a plain input or textarea with a value, replacing its contents. Not suitable for code editors; use browser_type_code for those."
}

// Schema returns the tool's JSON schema.
func (t *FillTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"selector": map[string]interface{}{
				"type":        "string",
				"description": "CSS selector for the input element",
			},
			"value": map[string]interface{}{
				"type":        "string",
				"description": "Value to fill",
			},
		},
		[]string{"selector", "value"},
	)
}

type fillParams struct {
	XMLName  xml.Name `xml:"arguments"`
	Selector string   `xml:"selector"`
	Value    string   `xml:"value"`
}

// Execute fills the field.
func (t *FillTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var input fillParams
	if err := tools.UnmarshalXMLWithFallback(argsXML, &input); err != nil {
		return "", nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if input.Selector == "" {
		return "", nil, fmt.Errorf("selector is required")
	}

	if err := ctx.Err(); err != nil {
		return "", nil, err
	}
	if err := t.page.Fill(FillOptions{Selector: input.Selector, Value: input.Value}); err != nil {
		return "", nil, err
	}

	return fmt.Sprintf("Filled %s with %d characters", input.Selector, len(input.Value)), nil, nil
}

// IsLoopBreaking returns whether this tool breaks the agent loop.
func (t *FillTool) IsLoopBreaking() bool {
	return false
}

// PressKeyTool presses a key combination, optionally on a focused element.
type PressKeyTool struct {
	page Page
}

// NewPressKeyTool creates a press key tool.
func NewPressKeyTool(page Page) *PressKeyTool {
	return &PressKeyTool{page: page}
}

// Name returns the tool name.
func (t *PressKeyTool) Name() string {
	return "browser_press_key"
}

// Description returns the tool description.
func (t *PressKeyTool) Description() string {
	return "Press a key or key combination such as 'Enter', 'Escape' or 'Control+Enter'. When a selector is given the element is focused first."
}

// Schema returns the tool's JSON schema.
func (t *PressKeyTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"key": map[string]interface{}{
				"type":        "string",
				"description": "Key or combination to press",
			},
			"selector": map[string]interface{}{
				"type":        "string",
				"description": "Optional CSS selector of the element to focus first",
			},
		},
		[]string{"key"},
	)
}

type pressKeyParams struct {
	XMLName  xml.Name `xml:"arguments"`
	Key      string   `xml:"key"`
	Selector string   `xml:"selector"`
}

// Execute presses the key.
func (t *PressKeyTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var input pressKeyParams
	if err := tools.UnmarshalXMLWithFallback(argsXML, &input); err != nil {
		return "", nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if input.Key == "" {
		return "", nil, fmt.Errorf("key is required")
	}

	if err := ctx.Err(); err != nil {
		return "", nil, err
	}
	if err := t.page.Press(input.Selector, input.Key); err != nil {
		return "", nil, err
	}

	if input.Selector == "" {
		return fmt.Sprintf("Pressed %s", input.Key), nil, nil
	}
	return fmt.Sprintf("Pressed %s on %s", input.Key, input.Selector), nil, nil
}

// IsLoopBreaking returns whether this tool breaks the agent loop.
func (t *PressKeyTool) IsLoopBreaking() bool {
	return false
}
