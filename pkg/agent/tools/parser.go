package tools

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

const (
	defaultServerName = "local"
	argumentsTagName  = "arguments"
	// maxToolCallSize bounds the text scanned for a tool call.
	maxToolCallSize = 1 << 20
)

var (
	// ErrNoToolCall is returned when a response contains no <tool> element.
	ErrNoToolCall = errors.New("no tool call found in response")

	toolRegex = regexp.MustCompile(`(?s)<tool>.*?</tool>`)

	// entityRegex matches ampersands that already start an XML entity.
	entityRegex = regexp.MustCompile(`&(?:amp|lt|gt|quot|apos|#\d+|#x[0-9a-fA-F]+);`)
)

// ParseToolCall extracts the first <tool> element from text. It returns the
// call and the text with every tool element removed.
func ParseToolCall(text string) (*ToolCall, string, error) {
	if len(text) > maxToolCallSize {
		return nil, text, fmt.Errorf("response exceeds maximum tool call size of %d bytes", maxToolCallSize)
	}

	raw := toolRegex.FindString(text)
	if raw == "" {
		return nil, text, ErrNoToolCall
	}

	var call ToolCall
	if err := UnmarshalXMLWithFallback([]byte(strings.TrimSpace(raw)), &call); err != nil {
		return nil, text, fmt.Errorf("failed to parse tool call XML: %w (near %q)", err, snippet(raw, 200))
	}

	call.ToolName = strings.TrimSpace(call.ToolName)
	if call.ToolName == "" {
		return nil, text, errors.New("tool_name is required in tool call")
	}
	call.ServerName = strings.TrimSpace(call.ServerName)
	if call.ServerName == "" {
		call.ServerName = defaultServerName
	}

	rest := strings.TrimSpace(toolRegex.ReplaceAllString(text, ""))
	return &call, rest, nil
}

// ExtractThinkingAndToolCall splits a response into the reasoning text that
// precedes the first tool call and the call itself. Without a tool call the
// whole text is returned as thinking and call is nil.
func ExtractThinkingAndToolCall(text string) (thinking string, call *ToolCall, err error) {
	loc := toolRegex.FindStringIndex(text)
	if loc == nil {
		return strings.TrimSpace(text), nil, nil
	}

	thinking = strings.TrimSpace(text[:loc[0]])
	call, _, err = ParseToolCall(text[loc[0]:loc[1]])
	return thinking, call, err
}

// HasToolCall reports whether text contains a <tool> element.
func HasToolCall(text string) bool {
	return toolRegex.MatchString(text)
}

// UnmarshalXMLWithFallback unmarshals data, retrying once with bare
// ampersands escaped since models often emit them unescaped in URLs and code.
func UnmarshalXMLWithFallback(data []byte, v interface{}) error {
	if err := xml.Unmarshal(data, v); err == nil {
		return nil
	}
	return xml.Unmarshal(escapeBareAmpersands(data), v)
}

func escapeBareAmpersands(data []byte) []byte {
	text := string(data)
	entities := make(map[int]bool)
	for _, m := range entityRegex.FindAllStringIndex(text, -1) {
		entities[m[0]] = true
	}

	var b strings.Builder
	b.Grow(len(text) + 16)
	for i := 0; i < len(text); i++ {
		if text[i] == '&' && !entities[i] {
			b.WriteString("&amp;")
			continue
		}
		b.WriteByte(text[i])
	}
	return []byte(b.String())
}

// XMLToMap flattens the direct children of <arguments> into a map of their
// trimmed text. It is used to attach tool inputs to events.
func XMLToMap(data []byte) (map[string]interface{}, error) {
	decoder := xml.NewDecoder(strings.NewReader(string(data)))
	result := make(map[string]interface{})

	var path []string
	var text strings.Builder

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			return result, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse XML: %w", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			path = append(path, t.Name.Local)
			text.Reset()
		case xml.EndElement:
			if len(path) == 0 {
				continue
			}
			name := path[len(path)-1]
			path = path[:len(path)-1]
			if len(path) == 1 && path[0] == argumentsTagName {
				if v := strings.TrimSpace(text.String()); v != "" {
					result[name] = v
				}
			}
			text.Reset()
		case xml.CharData:
			text.Write(t)
		}
	}
}

func snippet(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
