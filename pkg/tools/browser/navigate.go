package browser

import (
	"context"
	"encoding/xml"
	"fmt"

	"github.com/entrhq/pyforge/pkg/agent/tools"
)

// NavigateTool loads a URL in the page.
type NavigateTool struct {
	page      Page
	allowlist *URLAllowlist
}

// NewNavigateTool creates a navigate tool. A nil allowlist allows any http(s) URL.
func NewNavigateTool(page Page, allowlist *URLAllowlist) *NavigateTool {
	return &NavigateTool{page: page, allowlist: allowlist}
}

// Name returns the tool name.
func (t *NavigateTool) Name() string {
	return "browser_navigate"
}

// Description returns the tool description.
func (t *NavigateTool) Description() string {
	return "Navigate the browser to a URL. The browser loads the page and waits for it to be ready."
}

// Schema returns the tool's JSON schema.
func (t *NavigateTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"url": map[string]interface{}{
				"type":        "string",
				"description": "URL to navigate to (must include protocol, e.g., https://trinket.io/features/pygame)",
			},
			"wait_until": map[string]interface{}{
				"type":        "string",
				"description": "When to consider navigation complete: 'load' (default), 'domcontentloaded', or 'networkidle'",
			},
		},
		[]string{"url"},
	)
}

type navigateParams struct {
	XMLName   xml.Name `xml:"arguments"`
	URL       string   `xml:"url"`
	WaitUntil string   `xml:"wait_until"`
}

var validWaitStates = map[string]bool{
	"load":             true,
	"domcontentloaded": true,
	"networkidle":      true,
}

// Execute navigates to a URL.
func (t *NavigateTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var input navigateParams
	if err := tools.UnmarshalXMLWithFallback(argsXML, &input); err != nil {
		return "", nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if input.URL == "" {
		return "", nil, fmt.Errorf("URL is required")
	}
	if err := t.allowlist.Check(input.URL); err != nil {
		return "", nil, err
	}

	opts := NavigateOptions{WaitUntil: input.WaitUntil}
	if opts.WaitUntil == "" {
		opts.WaitUntil = "load"
	}
	if !validWaitStates[opts.WaitUntil] {
		return "", nil, fmt.Errorf("invalid wait_until value: %s (must be 'load', 'domcontentloaded', or 'networkidle')", opts.WaitUntil)
	}

	if err := ctx.Err(); err != nil {
		return "", nil, err
	}
	if err := t.page.Goto(input.URL, opts); err != nil {
		return "", nil, err
	}

	title, err := t.page.Title()
	if err != nil {
		title = "Unknown"
	}

	result := fmt.Sprintf(`Navigation successful

Page Details:
- URL: %s
- Title: %s

The page has loaded. Use browser_extract_content to find selectors before clicking or typing.`,
		t.page.URL(),
		title,
	)

	return result, map[string]interface{}{"url": t.page.URL(), "title": title}, nil
}

// IsLoopBreaking returns whether this tool breaks the agent loop.
func (t *NavigateTool) IsLoopBreaking() bool {
	return false
}
