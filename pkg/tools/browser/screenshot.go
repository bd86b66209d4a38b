package browser

import (
	"context"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/entrhq/pyforge/pkg/agent/tools"
)

// ScreenshotTool saves PNG captures of the viewport into a directory.
type ScreenshotTool struct {
	page Page
	dir  string

	mu    sync.Mutex
	count int
}

// NewScreenshotTool creates a screenshot tool writing under dir.
func NewScreenshotTool(page Page, dir string) *ScreenshotTool {
	return &ScreenshotTool{page: page, dir: dir}
}

// Name returns the tool name.
func (t *ScreenshotTool) Name() string {
	return "browser_screenshot"
}

// Description returns the tool description.
func (t *ScreenshotTool) Description() string {
	return "Save a screenshot of the current viewport, for example to record the running program's output."
}

// Schema returns the tool's JSON schema.
func (t *ScreenshotTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"label": map[string]interface{}{
				"type":        "string",
				"description": "Short label used in the file name (letters, digits, '-' and '_')",
			},
		},
		nil,
	)
}

type screenshotParams struct {
	XMLName xml.Name `xml:"arguments"`
	Label   string   `xml:"label"`
}

var unsafeLabelChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// Execute captures the viewport.
func (t *ScreenshotTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var input screenshotParams
	if err := tools.UnmarshalXMLWithFallback(argsXML, &input); err != nil {
		return "", nil, fmt.Errorf("invalid parameters: %w", err)
	}

	label := unsafeLabelChars.ReplaceAllString(input.Label, "-")
	if label == "" || label == "-" {
		label = "screenshot"
	}

	if err := ctx.Err(); err != nil {
		return "", nil, err
	}
	if err := os.MkdirAll(t.dir, 0o755); err != nil {
		return "", nil, fmt.Errorf("failed to create screenshot directory: %w", err)
	}

	t.mu.Lock()
	t.count++
	n := t.count
	t.mu.Unlock()

	path := filepath.Join(t.dir, fmt.Sprintf("%02d-%s.png", n, label))
	if err := t.page.Screenshot(path); err != nil {
		return "", nil, err
	}

	return fmt.Sprintf("Screenshot saved to %s", path), map[string]interface{}{"path": path}, nil
}

// IsLoopBreaking returns whether this tool breaks the agent loop.
func (t *ScreenshotTool) IsLoopBreaking() bool {
	return false
}
