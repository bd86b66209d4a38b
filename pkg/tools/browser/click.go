package browser

import (
	"context"
	"encoding/xml"
	"fmt"

	"github.com/entrhq/pyforge/pkg/agent/tools"
)

// ClickTool clicks an element on the page.
type ClickTool struct {
	page Page
}

// NewClickTool creates a click tool.
func NewClickTool(page Page) *ClickTool {
	return &ClickTool{page: page}
}

// Name returns the tool name.
func (t *ClickTool) Name() string {
	return "browser_click"
}

// Description returns the tool description.
func (t *ClickTool) Description() string {
	return "Click an element using a CSS selector. Supports single and double clicks, and different mouse buttons."
}

// Schema returns the tool's JSON schema.
func (t *ClickTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"selector": map[string]interface{}{
				"type":        "string",
				"description": "CSS selector for the element to click (e.g., 'button.run-it', '#runButton', 'text=Run')",
			},
			"button": map[string]interface{}{
				"type":        "string",
				"description": "Mouse button to use: 'left' (default), 'right', or 'middle'",
			},
			"click_count": map[string]interface{}{
				"type":        "integer",
				"description": "Number of clicks: 1 (default) for single click, 2 for double click",
			},
		},
		[]string{"selector"},
	)
}

type clickParams struct {
	XMLName    xml.Name `xml:"arguments"`
	Selector   string   `xml:"selector"`
	Button     string   `xml:"button"`
	ClickCount *int     `xml:"click_count"`
}

var validButtons = map[string]bool{
	"left":   true,
	"right":  true,
	"middle": true,
}

// Execute clicks an element.
func (t *ClickTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var input clickParams
	if err := tools.UnmarshalXMLWithFallback(argsXML, &input); err != nil {
		return "", nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if input.Selector == "" {
		return "", nil, fmt.Errorf("selector is required")
	}

	opts := ClickOptions{
		Selector:   input.Selector,
		Button:     input.Button,
		ClickCount: 1,
	}
	if input.ClickCount != nil {
		if *input.ClickCount < 1 || *input.ClickCount > 3 {
			return "", nil, fmt.Errorf("click_count must be between 1 and 3")
		}
		opts.ClickCount = *input.ClickCount
	}
	if opts.Button != "" && !validButtons[opts.Button] {
		return "", nil, fmt.Errorf("invalid button: %s (must be 'left', 'right', or 'middle')", opts.Button)
	}

	if err := ctx.Err(); err != nil {
		return "", nil, err
	}
	if err := t.page.Click(opts); err != nil {
		return "", nil, err
	}

	clickType := "single click"
	switch opts.ClickCount {
	case 2:
		clickType = "double click"
	case 3:
		clickType = "triple click"
	}
	button := opts.Button
	if button == "" {
		button = "left"
	}

	result := fmt.Sprintf(`Click executed successfully

Click Details:
- Selector: %s
- Action: %s with %s button
- Current URL: %s`,
		input.Selector,
		clickType,
		button,
		t.page.URL(),
	)

	return result, nil, nil
}

// IsLoopBreaking returns whether this tool breaks the agent loop.
func (t *ClickTool) IsLoopBreaking() bool {
	return false
}
