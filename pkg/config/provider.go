package config

import (
	"fmt"
	"os"

	"github.com/entrhq/pyforge/pkg/llm/gemini"
	"github.com/entrhq/pyforge/pkg/llm/openai"
	"github.com/entrhq/pyforge/pkg/types"
)

// Environment variables consulted when a value is not given explicitly.
const (
	EnvOpenAIKey     = "OPENAI_API_KEY"
	EnvOpenAIBaseURL = "OPENAI_BASE_URL"
	EnvGeminiKey     = "GEMINI_API_KEY"
	EnvGeminiBaseURL = "GEMINI_BASE_URL"
)

func envNames(p types.Provider) (key, baseURL string) {
	if p == types.ProviderGemini {
		return EnvGeminiKey, EnvGeminiBaseURL
	}
	return EnvOpenAIKey, EnvOpenAIBaseURL
}

func defaultModel(p types.Provider) string {
	if p == types.ProviderGemini {
		return gemini.DefaultModel
	}
	return openai.DefaultModel
}

// ResolveProvider merges settings for p with precedence
// explicit value > environment > config file > defaults. Any field of cli
// may be empty. An empty APIKey in the result means no key was found.
func ResolveProvider(p types.Provider, cli ProviderConfig) ProviderConfig {
	keyEnv, urlEnv := envNames(p)
	resolved := cli

	if resolved.APIKey == "" {
		resolved.APIKey = os.Getenv(keyEnv)
	}
	if resolved.BaseURL == "" {
		resolved.BaseURL = os.Getenv(urlEnv)
	}

	if file := GetLLM(); file != nil {
		fromFile := file.ProviderConfig(p)
		if resolved.APIKey == "" {
			resolved.APIKey = fromFile.APIKey
		}
		if resolved.BaseURL == "" {
			resolved.BaseURL = fromFile.BaseURL
		}
		if resolved.Model == "" {
			resolved.Model = fromFile.Model
		}
	}

	if resolved.Model == "" {
		resolved.Model = defaultModel(p)
	}
	return resolved
}

// ResolveAPIKey returns the key for p by the same precedence as
// ResolveProvider.
func ResolveAPIKey(p types.Provider, cliKey string) string {
	return ResolveProvider(p, ProviderConfig{APIKey: cliKey}).APIKey
}

// BuildBrowserProvider creates the OpenAI provider that drives the browser
// agents. The agents always use OpenAI; the model comes from the llm
// section's browser_model unless overridden.
func BuildBrowserProvider(cliAPIKey, cliModel string) (*openai.Provider, error) {
	resolved := ResolveProvider(types.ProviderOpenAI, ProviderConfig{APIKey: cliAPIKey})

	model := cliModel
	if model == "" {
		if file := GetLLM(); file != nil {
			model = file.GetBrowserModel()
		}
	}
	if model == "" {
		model = openai.DefaultModel
	}

	if resolved.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required for browser automation: set %s, pass it explicitly, or add openai_api_key to the config file", EnvOpenAIKey)
	}

	provider, err := openai.NewProvider(resolved.APIKey,
		openai.WithModel(model),
		openai.WithBaseURL(resolved.BaseURL),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create browser LLM provider: %w", err)
	}
	return provider, nil
}
