package tokenizer

import (
	"testing"

	"github.com/entrhq/pyforge/pkg/types"
	"github.com/stretchr/testify/assert"
)

// mustNew creates a tokenizer or skips the test if the encoding data cannot
// be loaded in this environment.
func mustNew(t *testing.T) *Tokenizer {
	t.Helper()
	tok, err := New()
	if err != nil {
		t.Skipf("tokenizer unavailable: %v", err)
	}
	return tok
}

func TestEncodingForModel(t *testing.T) {
	assert.Equal(t, "o200k_base", EncodingForModel("gpt-4o"))
	assert.Equal(t, DefaultEncoding, EncodingForModel("gemini-1.5-pro"))
	assert.Equal(t, DefaultEncoding, EncodingForModel(""))
}

func TestCountTokens(t *testing.T) {
	tok := mustNew(t)

	assert.Equal(t, 0, tok.CountTokens(""))
	assert.Greater(t, tok.CountTokens("import pygame\npygame.init()"), 3)
}

func TestCountMessagesTokens(t *testing.T) {
	tok := mustNew(t)

	assert.Equal(t, 0, tok.CountMessagesTokens(nil))

	msgs := []*types.Message{
		types.NewSystemMessage("You write pygame code."),
		types.NewUserMessage("a bouncing ball"),
	}
	content := tok.CountTokens(msgs[0].Content) + tok.CountTokens(msgs[1].Content)
	assert.Greater(t, tok.CountMessagesTokens(msgs), content)
}

func TestEstimate(t *testing.T) {
	assert.Equal(t, 0, Estimate(""))
	assert.Equal(t, 1, Estimate("abc"))
	assert.Equal(t, 2, Estimate("abcdefgh"))
}
