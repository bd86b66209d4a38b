package codegen

import (
	"context"

	"github.com/entrhq/pyforge/pkg/llm"
	"github.com/entrhq/pyforge/pkg/llm/gemini"
	"github.com/entrhq/pyforge/pkg/llm/openai"
	"github.com/entrhq/pyforge/pkg/types"
)

// Completer produces a text completion for a system instruction and a user
// query. Implementations make exactly one upstream call per Complete.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userQuery string) (string, error)
	Model() string
}

// ChatCompleter sends the system instruction and the query as two separate
// chat messages.
type ChatCompleter struct {
	provider llm.Provider
}

// NewChatCompleter wraps a chat-style provider.
func NewChatCompleter(provider llm.Provider) *ChatCompleter {
	return &ChatCompleter{provider: provider}
}

// Complete implements Completer.
func (c *ChatCompleter) Complete(ctx context.Context, systemPrompt, userQuery string) (string, error) {
	msg, err := c.provider.Complete(ctx, []*types.Message{
		types.NewSystemMessage(systemPrompt),
		types.NewUserMessage(userQuery),
	})
	if err != nil {
		return "", err
	}
	return msg.Content, nil
}

// Model implements Completer.
func (c *ChatCompleter) Model() string {
	return c.provider.GetModel()
}

// PromptCompleter folds the system instruction into the query and sends a
// single user turn.
type PromptCompleter struct {
	provider llm.Provider
}

// NewPromptCompleter wraps a single-turn provider.
func NewPromptCompleter(provider llm.Provider) *PromptCompleter {
	return &PromptCompleter{provider: provider}
}

// Complete implements Completer.
func (c *PromptCompleter) Complete(ctx context.Context, systemPrompt, userQuery string) (string, error) {
	msg, err := c.provider.Complete(ctx, []*types.Message{
		types.NewUserMessage(geminiPrompt(systemPrompt, userQuery)),
	})
	if err != nil {
		return "", err
	}
	return msg.Content, nil
}

// Model implements Completer.
func (c *PromptCompleter) Model() string {
	return c.provider.GetModel()
}

// Factory builds a Completer for a non-empty API key.
type Factory func(apiKey string) (Completer, error)

// ProviderSettings carries optional per-provider overrides.
type ProviderSettings struct {
	Model   string
	BaseURL string
}

// OpenAIFactory returns a Factory for the chat completions API.
func OpenAIFactory(settings ProviderSettings) Factory {
	return func(apiKey string) (Completer, error) {
		p, err := openai.NewProvider(apiKey,
			openai.WithModel(settings.Model),
			openai.WithBaseURL(settings.BaseURL),
		)
		if err != nil {
			return nil, err
		}
		return NewChatCompleter(p), nil
	}
}

// GeminiFactory returns a Factory for the generateContent API.
func GeminiFactory(settings ProviderSettings) Factory {
	return func(apiKey string) (Completer, error) {
		p, err := gemini.NewProvider(apiKey,
			gemini.WithModel(settings.Model),
			gemini.WithBaseURL(settings.BaseURL),
		)
		if err != nil {
			return nil, err
		}
		return NewPromptCompleter(p), nil
	}
}
