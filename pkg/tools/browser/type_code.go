package browser

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/entrhq/pyforge/pkg/agent/tools"
)

// TypeCodeTool replaces the contents of a code editor with a fixed program.
//
// The program is bound at construction so the model only chooses where it
// goes, never what it says.
type TypeCodeTool struct {
	page Page
	code string
}

// NewTypeCodeTool creates a type code tool that inserts code.
func NewTypeCodeTool(page Page, code string) *TypeCodeTool {
	return &TypeCodeTool{page: page, code: code}
}

// Name returns the tool name.
func (t *TypeCodeTool) Name() string {
	return "browser_type_code"
}

// Description returns the tool description.
func (t *TypeCodeTool) Description() string {
	return "Replace everything in the code editor with the generated program. Give the CSS selector of the editor's editable area (for example '.ace_text-input' or '.CodeMirror textarea'). The program text is supplied automatically."
}

// Schema returns the tool's JSON schema.
func (t *TypeCodeTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"selector": map[string]interface{}{
				"type":        "string",
				"description": "CSS selector of the editor element to focus",
			},
		},
		[]string{"selector"},
	)
}

type typeCodeParams struct {
	XMLName  xml.Name `xml:"arguments"`
	Selector string   `xml:"selector"`
}

// Execute inserts the bound program into the editor.
func (t *TypeCodeTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var input typeCodeParams
	if err := tools.UnmarshalXMLWithFallback(argsXML, &input); err != nil {
		return "", nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if input.Selector == "" {
		return "", nil, fmt.Errorf("selector is required")
	}
	if strings.TrimSpace(t.code) == "" {
		return "", nil, fmt.Errorf("no code to type")
	}

	if err := ctx.Err(); err != nil {
		return "", nil, err
	}
	if err := t.page.InsertText(input.Selector, t.code); err != nil {
		return "", nil, err
	}

	lines := strings.Count(t.code, "\n") + 1
	result := fmt.Sprintf("Typed %d lines (%d characters) into %s", lines, len(t.code), input.Selector)
	return result, map[string]interface{}{"lines": lines, "selector": input.Selector}, nil
}

// IsLoopBreaking returns whether this tool breaks the agent loop.
func (t *TypeCodeTool) IsLoopBreaking() bool {
	return false
}
