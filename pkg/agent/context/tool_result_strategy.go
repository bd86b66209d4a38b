package context

import (
	"fmt"
	"strings"

	"github.com/entrhq/pyforge/pkg/types"
)

// DefaultKeepRecent is how many tool results stay verbatim.
const DefaultKeepRecent = 2

const (
	toolResultPrefix = "Tool '"
	toolResultMarker = "' result:\n"
	elidedNote       = "[elided: an older page observation was removed to save context]"
)

// ToolResultMessage formats a tool result as the user turn fed back to the
// model.
func ToolResultMessage(toolName, result string) *types.Message {
	return types.NewUserMessage(toolResultPrefix + toolName + toolResultMarker + result)
}

// ToolResultStrategy replaces the bodies of all but the most recent tool
// results with a short note once the conversation exceeds its budget.
type ToolResultStrategy struct {
	keepRecent int
}

// NewToolResultStrategy creates the strategy. keepRecent below 1 selects
// DefaultKeepRecent.
func NewToolResultStrategy(keepRecent int) *ToolResultStrategy {
	if keepRecent <= 0 {
		keepRecent = DefaultKeepRecent
	}
	return &ToolResultStrategy{keepRecent: keepRecent}
}

// Name implements Strategy.
func (s *ToolResultStrategy) Name() string {
	return "ToolResultElision"
}

// ShouldRun implements Strategy.
func (s *ToolResultStrategy) ShouldRun(messages []*types.Message, currentTokens, maxTokens int) bool {
	if currentTokens <= maxTokens {
		return false
	}
	return len(s.candidates(messages)) > 0
}

// Apply implements Strategy.
func (s *ToolResultStrategy) Apply(messages []*types.Message) ([]*types.Message, int) {
	candidates := s.candidates(messages)
	if len(candidates) == 0 {
		return messages, 0
	}

	out := append([]*types.Message(nil), messages...)
	for _, i := range candidates {
		name, _ := parseToolResult(out[i].Content)
		out[i] = types.NewUserMessage(fmt.Sprintf("%s%s%s%s", toolResultPrefix, name, toolResultMarker, elidedNote))
	}
	return out, len(candidates)
}

// candidates returns the indexes of tool results that may be elided.
func (s *ToolResultStrategy) candidates(messages []*types.Message) []int {
	var results []int
	for i, msg := range messages {
		if i == 0 || msg.Role != types.RoleUser {
			continue
		}
		if _, _, ok := splitToolResult(msg.Content); ok {
			results = append(results, i)
		}
	}
	if len(results) <= s.keepRecent {
		return nil
	}

	var stale []int
	for _, i := range results[:len(results)-s.keepRecent] {
		if _, body := parseToolResult(messages[i].Content); body != elidedNote {
			stale = append(stale, i)
		}
	}
	return stale
}

func parseToolResult(content string) (name, body string) {
	name, body, _ = splitToolResult(content)
	return name, body
}

func splitToolResult(content string) (name, body string, ok bool) {
	if !strings.HasPrefix(content, toolResultPrefix) {
		return "", "", false
	}
	rest := strings.TrimPrefix(content, toolResultPrefix)
	name, body, ok = strings.Cut(rest, toolResultMarker)
	return name, body, ok
}
