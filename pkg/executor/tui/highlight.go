package tui

import (
	"bytes"

	"github.com/alecthomas/chroma/v2/quick"
)

const (
	codeLexer     = "python"
	codeFormatter = "terminal256"
	codeStyle     = "monokai"
)

// highlightPython renders code with ANSI colors, or returns it unchanged if
// highlighting fails.
func highlightPython(code string) string {
	var buf bytes.Buffer
	if err := quick.Highlight(&buf, code, codeLexer, codeFormatter, codeStyle); err != nil {
		tuiLog.Debugf("highlight failed: %v", err)
		return code
	}
	return buf.String()
}

// setCode shows code in the code panel and scrolls to the top.
func (m *model) setCode(code string) {
	m.code.SetContent(highlightPython(code))
	m.code.GotoTop()
}
