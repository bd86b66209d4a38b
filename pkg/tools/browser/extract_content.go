package browser

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/entrhq/pyforge/pkg/agent/tools"
)

// ExtractContentTool returns a digest of the current page.
type ExtractContentTool struct {
	page Page
}

// NewExtractContentTool creates an extract content tool.
func NewExtractContentTool(page Page) *ExtractContentTool {
	return &ExtractContentTool{page: page}
}

// Name returns the tool name.
func (t *ExtractContentTool) Name() string {
	return "browser_extract_content"
}

// Description returns the tool description.
func (t *ExtractContentTool) Description() string {
	return "Read the current page. 'html' (default) returns cleaned markup with ids, classes and other attributes useful for building selectors; 'text' returns visible text only."
}

// Schema returns the tool's JSON schema.
func (t *ExtractContentTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"format": map[string]interface{}{
				"type":        "string",
				"description": "Output format: 'html' (default) or 'text'",
			},
			"selector": map[string]interface{}{
				"type":        "string",
				"description": "Optional CSS selector to limit text extraction to one element (text format only)",
			},
			"max_length": map[string]interface{}{
				"type":        "integer",
				"description": fmt.Sprintf("Maximum content length in characters. Default: %d", DefaultMaxLength),
			},
		},
		nil,
	)
}

type extractContentParams struct {
	XMLName   xml.Name `xml:"arguments"`
	Format    string   `xml:"format"`
	Selector  string   `xml:"selector"`
	MaxLength *int     `xml:"max_length"`
}

// Execute extracts content from the page.
func (t *ExtractContentTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var input extractContentParams
	if err := tools.UnmarshalXMLWithFallback(argsXML, &input); err != nil {
		return "", nil, fmt.Errorf("invalid parameters: %w", err)
	}

	format := FormatHTML
	switch input.Format {
	case "", string(FormatHTML):
	case string(FormatText):
		format = FormatText
	default:
		return "", nil, fmt.Errorf("invalid format: %s (must be 'html' or 'text')", input.Format)
	}

	maxLength := DefaultMaxLength
	if input.MaxLength != nil {
		if *input.MaxLength < 100 || *input.MaxLength > 100000 {
			return "", nil, fmt.Errorf("max_length must be between 100 and 100000")
		}
		maxLength = *input.MaxLength
	}

	if err := ctx.Err(); err != nil {
		return "", nil, err
	}

	var (
		content   string
		truncated bool
		title     string
	)
	switch format {
	case FormatText:
		selector := input.Selector
		if selector == "" {
			selector = "body"
		}
		text, err := t.page.InnerText(selector)
		if err != nil {
			return "", nil, fmt.Errorf("failed to read text of %s: %w", selector, err)
		}
		content, truncated = truncate(strings.TrimSpace(text), maxLength)
		title, _ = t.page.Title()
	default:
		raw, err := t.page.Content()
		if err != nil {
			return "", nil, fmt.Errorf("failed to read page content: %w", err)
		}
		digest, err := DigestHTML(raw, maxLength)
		if err != nil {
			return "", nil, err
		}
		content, truncated, title = digest.HTML, digest.Truncated, digest.Title
	}

	result := fmt.Sprintf(`Content extracted successfully

Extraction Details:
- URL: %s
- Title: %s
- Format: %s
- Length: %d characters (truncated: %t)

---

%s`,
		t.page.URL(),
		title,
		format,
		len(content),
		truncated,
		content,
	)

	return result, map[string]interface{}{"truncated": truncated}, nil
}

func truncate(s string, n int) (string, bool) {
	if len(s) <= n {
		return s, false
	}
	return s[:n] + "...", true
}

// IsLoopBreaking returns whether this tool breaks the agent loop.
func (t *ExtractContentTool) IsLoopBreaking() bool {
	return false
}
