package context

import (
	"github.com/entrhq/pyforge/pkg/types"
)

// Strategy shrinks an agent conversation. Strategies never touch the first
// message, which carries the task instruction.
type Strategy interface {
	// Name returns the strategy's identifier for logging.
	Name() string

	// ShouldRun reports whether the strategy applies to this conversation
	// at the given token count.
	ShouldRun(messages []*types.Message, currentTokens, maxTokens int) bool

	// Apply returns the reduced conversation and the number of messages it
	// changed. The input slice is not modified.
	Apply(messages []*types.Message) ([]*types.Message, int)
}
