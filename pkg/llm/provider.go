// Package llm provides abstractions for LLM provider integration.
//
// Example usage:
//
//	provider, err := openai.NewProvider(
//	    os.Getenv("OPENAI_API_KEY"),
//	    openai.WithModel("gpt-4o"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	reply, err := provider.Complete(ctx, []*types.Message{
//	    types.NewSystemMessage("You write pygame programs."),
//	    types.NewUserMessage("bouncing ball"),
//	})
package llm

import (
	"context"

	"github.com/entrhq/pyforge/pkg/types"
)

// Provider defines the interface for LLM integrations.
//
// Providers handle API communication only. Prompt construction, tool calling
// and code extraction live in the layers above so the same provider can serve
// one-shot code generation and the browser agent loop.
type Provider interface {
	// StreamCompletion sends messages to the LLM and streams back response chunks.
	//
	// The channel is closed when streaming completes or an error occurs.
	// Returns an error only if the request cannot be started or the API
	// rejects it outright (non-200 status). Stream-time errors are sent as
	// StreamChunk values with Error set.
	StreamCompletion(ctx context.Context, messages []*types.Message) (<-chan *StreamChunk, error)

	// Complete sends messages to the LLM and returns the full response.
	Complete(ctx context.Context, messages []*types.Message) (*types.Message, error)

	// GetModelInfo returns information about the LLM model being used.
	GetModelInfo() *types.ModelInfo

	// GetModel returns the model name being used.
	GetModel() string
}

// CollectStream drains a chunk stream into a single assistant message.
func CollectStream(stream <-chan *StreamChunk) (*types.Message, error) {
	var content string
	var role string

	for chunk := range stream {
		if chunk.IsError() {
			return nil, chunk.Error
		}
		if chunk.Role != "" {
			role = chunk.Role
		}
		content += chunk.Content
	}

	if role == "" {
		role = string(types.RoleAssistant)
	}

	return &types.Message{
		Role:    types.MessageRole(role),
		Content: content,
	}, nil
}
