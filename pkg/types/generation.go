package types

import (
	"fmt"
	"strings"
	"time"
)

// Provider names an LLM vendor that can produce code completions.
type Provider string

const (
	ProviderOpenAI Provider = "openai" // ProviderOpenAI uses the chat completions API.
	ProviderGemini Provider = "gemini" // ProviderGemini uses the generateContent API.
)

// Providers lists the supported providers in display order.
func Providers() []Provider {
	return []Provider{ProviderOpenAI, ProviderGemini}
}

// DisplayName returns the human-facing provider name.
func (p Provider) DisplayName() string {
	switch p {
	case ProviderOpenAI:
		return "OpenAI"
	case ProviderGemini:
		return "Google Gemini"
	default:
		return string(p)
	}
}

// ParseProvider maps user input such as "OpenAI" or "google gemini" to a Provider.
func ParseProvider(s string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "openai", "open-ai":
		return ProviderOpenAI, nil
	case "gemini", "google", "google gemini", "google-gemini":
		return ProviderGemini, nil
	default:
		return "", fmt.Errorf("unknown provider %q (must be 'openai' or 'gemini')", s)
	}
}

// GenerationRequest is one user request for generated code. It is passed by
// value and never mutated after it is issued.
type GenerationRequest struct {
	Provider     Provider
	APIKey       string
	SystemPrompt string
	UserQuery    string
}

// GeneratedArtifact holds the model output for one generation request and
// the normalized code derived from it.
type GeneratedArtifact struct {
	ID             string    `json:"id"`
	Provider       Provider  `json:"provider"`
	Model          string    `json:"model"`
	Query          string    `json:"query"`
	RawText        string    `json:"raw_text"`
	NormalizedCode string    `json:"normalized_code"`
	TokenCount     int       `json:"token_count"`
	CreatedAt      time.Time `json:"created_at"`
}

// HasCode reports whether the artifact carries runnable code.
func (a *GeneratedArtifact) HasCode() bool {
	return a != nil && strings.TrimSpace(a.NormalizedCode) != ""
}
