package tools

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseToolCall(t *testing.T) {
	text := `I will open the editor first.
<tool>
<server_name>local</server_name>
<tool_name>browser_navigate</tool_name>
<arguments>
  <url>https://trinket.io/features/pygame</url>
</arguments>
</tool>`

	call, rest, err := ParseToolCall(text)
	require.NoError(t, err)
	assert.Equal(t, "browser_navigate", call.ToolName)
	assert.Equal(t, "local", call.ServerName)
	assert.Equal(t, "I will open the editor first.", rest)

	var args struct {
		XMLName xml.Name `xml:"arguments"`
		URL     string   `xml:"url"`
	}
	require.NoError(t, xml.Unmarshal(call.GetArgumentsXML(), &args))
	assert.Equal(t, "https://trinket.io/features/pygame", args.URL)
}

func TestParseToolCall_Errors(t *testing.T) {
	_, _, err := ParseToolCall("just thinking out loud")
	assert.ErrorIs(t, err, ErrNoToolCall)

	_, _, err = ParseToolCall("<tool><server_name>local</server_name></tool>")
	assert.ErrorContains(t, err, "tool_name")

	_, _, err = ParseToolCall("<tool><tool_name>x</tool_name><arguments><a></b></arguments></tool>")
	assert.ErrorContains(t, err, "failed to parse")

	_, _, err = ParseToolCall(strings.Repeat("x", maxToolCallSize+1))
	assert.ErrorContains(t, err, "maximum")
}

func TestParseToolCall_DefaultServerName(t *testing.T) {
	call, _, err := ParseToolCall("<tool><tool_name>task_completion</tool_name><arguments><result>ok</result></arguments></tool>")
	require.NoError(t, err)
	assert.Equal(t, "local", call.ServerName)
}

func TestParseToolCall_UnescapedAmpersand(t *testing.T) {
	call, _, err := ParseToolCall("<tool><tool_name>browser_navigate</tool_name><arguments><url>https://x.io/?a=1&b=2 &amp; c</url></arguments></tool>")
	require.NoError(t, err)

	m, err := XMLToMap(escapeBareAmpersands(call.GetArgumentsXML()))
	require.NoError(t, err)
	assert.Equal(t, "https://x.io/?a=1&b=2 & c", m["url"])
}

func TestExtractThinkingAndToolCall(t *testing.T) {
	thinking, call, err := ExtractThinkingAndToolCall("Page loaded.\n<tool><tool_name>task_completion</tool_name><arguments><result>done</result></arguments></tool>\ntrailing")
	require.NoError(t, err)
	assert.Equal(t, "Page loaded.", thinking)
	require.NotNil(t, call)
	assert.Equal(t, "task_completion", call.ToolName)

	thinking, call, err = ExtractThinkingAndToolCall("  no tools here  ")
	require.NoError(t, err)
	assert.Nil(t, call)
	assert.Equal(t, "no tools here", thinking)

	assert.True(t, HasToolCall("<tool></tool>"))
	assert.False(t, HasToolCall("<tools>"))
}

func TestXMLToMap(t *testing.T) {
	m, err := XMLToMap([]byte(`<arguments><selector> #run </selector><nested><inner>x</inner></nested><empty></empty></arguments>`))
	require.NoError(t, err)
	assert.Equal(t, "#run", m["selector"])
	assert.NotContains(t, m, "inner")
	assert.NotContains(t, m, "empty")

	_, err = XMLToMap([]byte(`<arguments><a></arguments>`))
	assert.Error(t, err)
}
