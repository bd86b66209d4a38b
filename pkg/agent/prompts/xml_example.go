package prompts

import (
	"fmt"
	"sort"
	"strings"
)

// XMLExampleProvider is an optional interface that tools can implement
// to provide custom XML usage examples
type XMLExampleProvider interface {
	XMLExample() string
}

// GenerateXMLExample creates a call example from a JSON Schema using only
// the required properties, in name order.
func GenerateXMLExample(schema map[string]interface{}, toolName string) string {
	var b strings.Builder

	b.WriteString("<tool>\n")
	b.WriteString("<server_name>local</server_name>\n")
	fmt.Fprintf(&b, "<tool_name>%s</tool_name>\n", toolName)
	b.WriteString("<arguments>\n")

	properties, _ := schema["properties"].(map[string]interface{}) //nolint:errcheck
	required, _ := schema["required"].([]string)                   //nolint:errcheck
	names := append([]string(nil), required...)
	sort.Strings(names)

	for _, name := range names {
		prop, ok := properties[name].(map[string]interface{})
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "  <%s>%s</%s>\n", name, exampleValue(name, prop), name)
	}

	b.WriteString("</arguments>\n")
	b.WriteString("</tool>")
	return b.String()
}

func exampleValue(name string, prop map[string]interface{}) string {
	propType, _ := prop["type"].(string) //nolint:errcheck

	switch propType {
	case "integer":
		return "1"
	case "number":
		return "2.5"
	case "boolean":
		return "true"
	}

	if enum, ok := prop["enum"].([]interface{}); ok && len(enum) > 0 {
		if s, ok := enum[0].(string); ok {
			return s
		}
	}

	switch name {
	case "selector":
		return "#run-button"
	case "url":
		return "https://trinket.io/features/pygame"
	case "code":
		return "document.title"
	case "key":
		return "Enter"
	case "result", "reason":
		return "what happened &amp; why"
	}
	return "value"
}
