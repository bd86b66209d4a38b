package context

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/pyforge/pkg/types"
)

func conversation(observations int, size int) []*types.Message {
	msgs := []*types.Message{types.NewUserMessage("Go to https://trinket.io/features/pygame")}
	for i := 0; i < observations; i++ {
		msgs = append(msgs,
			types.NewAssistantMessage("<tool><tool_name>browser_observe</tool_name><arguments></arguments></tool>"),
			ToolResultMessage("browser_observe", strings.Repeat("page ", size)),
		)
	}
	return msgs
}

func TestNewToolResultStrategy_Defaults(t *testing.T) {
	assert.Equal(t, DefaultKeepRecent, NewToolResultStrategy(0).keepRecent)
	assert.Equal(t, 4, NewToolResultStrategy(4).keepRecent)
	assert.Equal(t, "ToolResultElision", NewToolResultStrategy(1).Name())
}

func TestToolResultStrategy_ShouldRun(t *testing.T) {
	s := NewToolResultStrategy(2)

	tests := []struct {
		name     string
		messages []*types.Message
		current  int
		want     bool
	}{
		{"under budget", conversation(5, 10), 100, false},
		{"over budget with stale results", conversation(5, 10), 5000, true},
		{"over budget but only recent results", conversation(2, 10), 5000, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.ShouldRun(tt.messages, tt.current, 1000))
		})
	}
}

func TestToolResultStrategy_Apply(t *testing.T) {
	s := NewToolResultStrategy(2)
	in := conversation(4, 10)
	original := in[2].Content

	out, changed := s.Apply(in)
	require.Equal(t, 2, changed)
	require.Len(t, out, len(in))

	assert.Equal(t, original, in[2].Content, "input must not be modified")
	assert.Equal(t, in[0], out[0], "instruction is kept")
	assert.Contains(t, out[2].Content, "Tool 'browser_observe' result:\n[elided")
	assert.Contains(t, out[4].Content, "[elided")
	assert.Equal(t, in[6].Content, out[6].Content)
	assert.Equal(t, in[8].Content, out[8].Content)

	again, changed := s.Apply(out)
	assert.Zero(t, changed, "already elided results are skipped")
	assert.Equal(t, out, again)
}

func TestManager_Evaluate(t *testing.T) {
	m := NewManager(nil, 50, NewToolResultStrategy(1))
	in := conversation(3, 100)

	out, changed := m.Evaluate(in)
	assert.Equal(t, 2, changed)
	assert.Less(t, m.count(out), m.count(in))
}

func TestManager_UnderBudgetLeavesHistory(t *testing.T) {
	m := NewManager(nil, 0, NewToolResultStrategy(1))
	assert.Equal(t, DefaultMaxTokens, m.MaxTokens())

	in := conversation(3, 5)
	out, changed := m.Evaluate(in)
	assert.Zero(t, changed)
	assert.Equal(t, in, out)
}
