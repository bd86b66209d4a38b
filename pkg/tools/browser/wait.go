package browser

import (
	"context"
	"encoding/xml"
	"fmt"
	"time"

	"github.com/entrhq/pyforge/pkg/agent/tools"
)

// WaitTool pauses for a number of seconds or until an element reaches a state.
type WaitTool struct {
	page  Page
	after func(time.Duration) <-chan time.Time
}

// NewWaitTool creates a wait tool.
func NewWaitTool(page Page) *WaitTool {
	return &WaitTool{page: page, after: time.After}
}

// Name returns the tool name.
func (t *WaitTool) Name() string {
	return "browser_wait"
}

// Description returns the tool description.
func (t *WaitTool) Description() string {
	return "Wait for a number of seconds, or for an element to reach a state. Useful for letting a program run, or for waiting on dynamic content."
}

// Schema returns the tool's JSON schema.
func (t *WaitTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"seconds": map[string]interface{}{
				"type":        "number",
				"description": fmt.Sprintf("Seconds to wait (at most %d). Used when no selector is given.", MaxWaitSeconds),
			},
			"selector": map[string]interface{}{
				"type":        "string",
				"description": "CSS selector for the element to wait for",
			},
			"state": map[string]interface{}{
				"type":        "string",
				"description": "State to wait for: 'attached', 'detached', 'visible' (default), or 'hidden'",
			},
			"timeout": map[string]interface{}{
				"type":        "number",
				"description": "Maximum wait time for the selector in milliseconds. Default: 30000",
			},
		},
		nil,
	)
}

type waitParams struct {
	XMLName  xml.Name `xml:"arguments"`
	Seconds  *float64 `xml:"seconds"`
	Selector string   `xml:"selector"`
	State    string   `xml:"state"`
	Timeout  *float64 `xml:"timeout"`
}

var validElementStates = map[string]bool{
	"attached": true,
	"detached": true,
	"visible":  true,
	"hidden":   true,
}

// Execute waits.
func (t *WaitTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var input waitParams
	if err := tools.UnmarshalXMLWithFallback(argsXML, &input); err != nil {
		return "", nil, fmt.Errorf("invalid parameters: %w", err)
	}

	if input.Selector == "" {
		if input.Seconds == nil {
			return "", nil, fmt.Errorf("either seconds or selector is required")
		}
		return t.sleep(ctx, *input.Seconds)
	}

	opts := WaitOptions{Selector: input.Selector, State: input.State}
	if opts.State == "" {
		opts.State = "visible"
	}
	if !validElementStates[opts.State] {
		return "", nil, fmt.Errorf("invalid state: %s (must be 'attached', 'detached', 'visible', or 'hidden')", opts.State)
	}
	if input.Timeout != nil {
		if *input.Timeout < 0 || *input.Timeout > 300000 {
			return "", nil, fmt.Errorf("timeout must be between 0 and 300000 milliseconds (5 minutes)")
		}
		opts.Timeout = *input.Timeout
	}

	if err := ctx.Err(); err != nil {
		return "", nil, err
	}
	if err := t.page.WaitForSelector(opts); err != nil {
		return "", nil, err
	}

	return fmt.Sprintf("Element %s is %s", opts.Selector, opts.State), nil, nil
}

func (t *WaitTool) sleep(ctx context.Context, seconds float64) (string, map[string]interface{}, error) {
	if seconds <= 0 || seconds > MaxWaitSeconds {
		return "", nil, fmt.Errorf("seconds must be greater than 0 and at most %d", MaxWaitSeconds)
	}

	select {
	case <-t.after(time.Duration(seconds * float64(time.Second))):
	case <-ctx.Done():
		return "", nil, fmt.Errorf("wait interrupted: %w", ctx.Err())
	}

	return fmt.Sprintf("Waited %g seconds. Current URL: %s", seconds, t.page.URL()), nil, nil
}

// IsLoopBreaking returns whether this tool breaks the agent loop.
func (t *WaitTool) IsLoopBreaking() bool {
	return false
}
