package codegen

import "strings"

const (
	fence       = "```"
	pythonFence = "```python"
)

// Normalize strips one optional leading fence (language-tagged or generic)
// and one optional trailing fence from raw model output, then trims
// surrounding whitespace.
//
// The strip repeats until nothing changes so Normalize(Normalize(x)) equals
// Normalize(x) for every input.
func Normalize(raw string) string {
	code := stripFences(raw)
	for {
		next := stripFences(code)
		if next == code {
			return code
		}
		code = next
	}
}

func stripFences(text string) string {
	switch {
	case strings.HasPrefix(text, pythonFence):
		text = text[len(pythonFence):]
	case strings.HasPrefix(text, fence):
		text = text[len(fence):]
	}
	text = strings.TrimSuffix(text, fence)
	return strings.TrimSpace(text)
}
