// Package context keeps browser agent conversations inside the model's
// context budget. Page digests dominate an agent's history, so the strategies
// here elide stale tool results rather than summarize them with another model
// call.
package context

import (
	"github.com/entrhq/pyforge/pkg/llm/tokenizer"
	"github.com/entrhq/pyforge/pkg/logging"
	"github.com/entrhq/pyforge/pkg/types"
)

var debugLog *logging.Logger

func init() {
	var err error
	debugLog, err = logging.NewLogger("context")
	if err != nil {
		debugLog.Warnf("Failed to initialize context logger, using stderr fallback: %v", err)
	}
}

// DefaultMaxTokens is the history budget used when none is given.
const DefaultMaxTokens = 24000

// Manager runs strategies in order until the conversation fits.
type Manager struct {
	tokenizer  *tokenizer.Tokenizer
	strategies []Strategy
	maxTokens  int
}

// NewManager creates a manager. A nil tokenizer falls back to
// tokenizer.Estimate; maxTokens below 1 selects DefaultMaxTokens.
func NewManager(tok *tokenizer.Tokenizer, maxTokens int, strategies ...Strategy) *Manager {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &Manager{
		tokenizer:  tok,
		strategies: strategies,
		maxTokens:  maxTokens,
	}
}

// NewDefaultManager creates a manager with the tool result strategy.
func NewDefaultManager(tok *tokenizer.Tokenizer) *Manager {
	return NewManager(tok, DefaultMaxTokens, NewToolResultStrategy(DefaultKeepRecent))
}

// Evaluate applies every strategy whose trigger fires and returns the
// resulting conversation together with the number of messages changed.
func (m *Manager) Evaluate(messages []*types.Message) ([]*types.Message, int) {
	current := m.count(messages)
	total := 0

	for _, strategy := range m.strategies {
		if !strategy.ShouldRun(messages, current, m.maxTokens) {
			continue
		}

		reduced, changed := strategy.Apply(messages)
		if changed == 0 {
			continue
		}

		after := m.count(reduced)
		debugLog.Debugf("Strategy %s elided %d messages (tokens %d -> %d, budget %d)",
			strategy.Name(), changed, current, after, m.maxTokens)

		messages = reduced
		current = after
		total += changed
	}

	return messages, total
}

// MaxTokens returns the budget.
func (m *Manager) MaxTokens() int {
	return m.maxTokens
}

func (m *Manager) count(messages []*types.Message) int {
	if m.tokenizer != nil {
		return m.tokenizer.CountMessagesTokens(messages)
	}
	n := 0
	for _, msg := range messages {
		n += tokenizer.Estimate(msg.Content)
	}
	return n
}
