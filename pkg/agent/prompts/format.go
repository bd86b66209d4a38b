package prompts

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/entrhq/pyforge/pkg/agent/tools"
)

// FormatToolSchema renders one tool for the system prompt.
func FormatToolSchema(tool tools.Tool) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## %s\n", tool.Name())
	b.WriteString(tool.Description())
	b.WriteString("\n")
	if tool.IsLoopBreaking() {
		b.WriteString("(loop-breaking: calling this ends your step)\n")
	}

	schema := tool.Schema()
	if params, err := json.MarshalIndent(schema, "", "  "); err == nil {
		b.WriteString("\nParameters:\n")
		b.Write(params)
		b.WriteString("\n")
	}

	b.WriteString("\nExample:\n")
	if ex, ok := tool.(XMLExampleProvider); ok {
		b.WriteString(ex.XMLExample())
	} else {
		b.WriteString(GenerateXMLExample(schema, tool.Name()))
	}
	b.WriteString("\n")

	return b.String()
}

// FormatToolSchemas renders every tool under one header.
func FormatToolSchemas(list []tools.Tool) string {
	if len(list) == 0 {
		return "No tools available.\n"
	}

	var b strings.Builder
	b.WriteString("# AVAILABLE TOOLS\n\n")
	for _, tool := range list {
		b.WriteString(FormatToolSchema(tool))
		b.WriteString("\n")
	}
	return b.String()
}
