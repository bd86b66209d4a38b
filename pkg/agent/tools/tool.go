// Package tools defines the tool contract used by browser automation agents
// and the XML format the model uses to invoke tools.
package tools

import (
	"context"
	"encoding/xml"
	"fmt"
	"sort"
)

// Tool is a capability an agent can invoke during a step.
//
// The model calls tools with XML:
//
//	<tool>
//	<server_name>local</server_name>
//	<tool_name>browser_click</tool_name>
//	<arguments>
//	  <selector>#runButton</selector>
//	</arguments>
//	</tool>
type Tool interface {
	// Name returns the identifier the model uses in <tool_name>.
	Name() string

	// Description tells the model what the tool does.
	Description() string

	// Schema returns a JSON Schema object describing the arguments.
	Schema() map[string]interface{}

	// Execute runs the tool with the raw <arguments> element and returns the
	// text fed back to the model plus optional metadata for events.
	Execute(ctx context.Context, argumentsXML []byte) (string, map[string]interface{}, error)

	// IsLoopBreaking reports whether a successful call ends the agent loop.
	IsLoopBreaking() bool
}

// ToolCall is a parsed tool invocation from a model response.
type ToolCall struct {
	XMLName    xml.Name       `xml:"tool"`
	ServerName string         `xml:"server_name"`
	ToolName   string         `xml:"tool_name"`
	Arguments  ArgumentsBlock `xml:"arguments"`
}

// ArgumentsBlock holds the raw inner XML of <arguments>.
type ArgumentsBlock struct {
	InnerXML []byte `xml:",innerxml"`
}

// GetArgumentsXML returns the arguments re-wrapped in <arguments> tags so
// tools can unmarshal them into their own structs.
func (tc *ToolCall) GetArgumentsXML() []byte {
	const open, closing = "<arguments>", "</arguments>"
	out := make([]byte, 0, len(open)+len(tc.Arguments.InnerXML)+len(closing))
	out = append(out, open...)
	out = append(out, tc.Arguments.InnerXML...)
	return append(out, closing...)
}

// BaseToolSchema builds an object schema from properties and required names.
func BaseToolSchema(properties map[string]interface{}, required []string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// Set is an ordered, name-indexed collection of tools.
type Set struct {
	byName map[string]Tool
	order  []string
}

// NewSet builds a set from tools. Duplicate names are rejected.
func NewSet(list ...Tool) (*Set, error) {
	s := &Set{byName: make(map[string]Tool, len(list))}
	for _, t := range list {
		if _, dup := s.byName[t.Name()]; dup {
			return nil, fmt.Errorf("duplicate tool name %q", t.Name())
		}
		s.byName[t.Name()] = t
		s.order = append(s.order, t.Name())
	}
	return s, nil
}

// Get returns the tool called name.
func (s *Set) Get(name string) (Tool, bool) {
	t, ok := s.byName[name]
	return t, ok
}

// All returns the tools in insertion order.
func (s *Set) All() []Tool {
	out := make([]Tool, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.byName[name])
	}
	return out
}

// Names returns the tool names sorted alphabetically.
func (s *Set) Names() []string {
	names := append([]string(nil), s.order...)
	sort.Strings(names)
	return names
}
