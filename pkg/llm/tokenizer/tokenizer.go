// Package tokenizer provides client-side token counting for prompts and
// generated code using tiktoken encodings.
package tokenizer

import (
	"fmt"

	"github.com/entrhq/pyforge/pkg/types"
	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is used for models without a known encoding.
const DefaultEncoding = "cl100k_base"

// Per-message framing overhead used by chat models.
const (
	tokensPerMessage = 4
	tokensPerReply   = 3
)

var modelEncodings = map[string]string{
	"gpt-4o":        "o200k_base",
	"gpt-4o-mini":   "o200k_base",
	"gpt-4.1":       "o200k_base",
	"gpt-4-turbo":   "cl100k_base",
	"gpt-4":         "cl100k_base",
	"gpt-3.5-turbo": "cl100k_base",
}

// Tokenizer counts tokens for a single encoding.
type Tokenizer struct {
	enc      *tiktoken.Tiktoken
	encoding string
}

// New creates a tokenizer using the default encoding.
func New() (*Tokenizer, error) {
	return NewWithEncoding(DefaultEncoding)
}

// NewForModel picks the encoding for model, falling back to the default
// encoding for unknown models (Gemini included).
func NewForModel(model string) (*Tokenizer, error) {
	return NewWithEncoding(EncodingForModel(model))
}

// NewWithEncoding creates a tokenizer for a named tiktoken encoding.
func NewWithEncoding(encoding string) (*Tokenizer, error) {
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to load encoding %s: %w", encoding, err)
	}
	return &Tokenizer{enc: enc, encoding: encoding}, nil
}

// EncodingForModel returns the tiktoken encoding name for model.
func EncodingForModel(model string) string {
	if enc, ok := modelEncodings[model]; ok {
		return enc
	}
	return DefaultEncoding
}

// Encoding returns the encoding name.
func (t *Tokenizer) Encoding() string {
	return t.encoding
}

// CountTokens returns the number of tokens in text.
func (t *Tokenizer) CountTokens(text string) int {
	if text == "" {
		return 0
	}
	return len(t.enc.Encode(text, nil, nil))
}

// CountMessagesTokens returns the token count of a conversation including
// per-message framing.
func (t *Tokenizer) CountMessagesTokens(messages []*types.Message) int {
	if len(messages) == 0 {
		return 0
	}
	total := 0
	for _, msg := range messages {
		total += tokensPerMessage
		total += t.CountTokens(string(msg.Role))
		total += t.CountTokens(msg.Content)
	}
	return total + tokensPerReply
}

// Estimate approximates a token count when no tokenizer is available.
func Estimate(text string) int {
	return (len(text) + 3) / 4
}
