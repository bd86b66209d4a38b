package config

import (
	"testing"

	"github.com/entrhq/pyforge/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLLMSection_Defaults(t *testing.T) {
	s := NewLLMSection()

	assert.Equal(t, SectionIDLLM, s.ID())
	assert.NotEmpty(t, s.Title())
	assert.Equal(t, types.ProviderOpenAI, s.GetProvider())
	assert.Equal(t, "gpt-4o", s.ProviderConfig(types.ProviderOpenAI).Model)
	assert.Equal(t, "gemini-1.5-pro", s.ProviderConfig(types.ProviderGemini).Model)
	assert.Equal(t, "gpt-4o", s.GetBrowserModel())
	assert.NoError(t, s.Validate())
}

func TestLLMSection_SetData(t *testing.T) {
	s := NewLLMSection()
	require.NoError(t, s.SetData(map[string]interface{}{
		"provider":        "gemini",
		"gemini_api_key":  "g-key",
		"gemini_base_url": "http://localhost:9000",
		"openai_model":    "",
		"browser_model":   "gpt-4o-mini",
		"unknown":         42,
	}))

	assert.Equal(t, types.ProviderGemini, s.GetProvider())
	gem := s.ProviderConfig(types.ProviderGemini)
	assert.Equal(t, "g-key", gem.APIKey)
	assert.Equal(t, "http://localhost:9000", gem.BaseURL)
	assert.Equal(t, "gpt-4o", s.ProviderConfig(types.ProviderOpenAI).Model, "empty model keeps default")
	assert.Equal(t, "gpt-4o-mini", s.GetBrowserModel())

	assert.Error(t, s.SetData(map[string]interface{}{"provider": "anthropic"}))
	assert.NoError(t, s.SetData(nil))
}

func TestLLMSection_DataRoundTrip(t *testing.T) {
	s := NewLLMSection()
	s.SetProvider(types.ProviderGemini)
	s.SetAPIKey(types.ProviderOpenAI, "sk-1")
	s.SetAPIKey(types.ProviderGemini, "g-1")

	other := NewLLMSection()
	require.NoError(t, other.SetData(s.Data()))
	assert.Equal(t, s.Data(), other.Data())
}

func TestLLMSection_Reset(t *testing.T) {
	s := NewLLMSection()
	s.SetProvider(types.ProviderGemini)
	s.SetAPIKey(types.ProviderOpenAI, "sk")

	s.Reset()
	assert.Equal(t, NewLLMSection().Data(), s.Data())
}
