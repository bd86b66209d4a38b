package config

import (
	"sync"

	"github.com/entrhq/pyforge/pkg/llm/gemini"
	"github.com/entrhq/pyforge/pkg/llm/openai"
	"github.com/entrhq/pyforge/pkg/types"
)

const (
	// SectionIDLLM is the identifier for the LLM settings section
	SectionIDLLM = "llm"
)

// ProviderConfig holds the per-vendor connection settings.
type ProviderConfig struct {
	Model   string
	BaseURL string
	APIKey  string
}

// LLMSection manages code generation and browser agent model settings.
type LLMSection struct {
	Provider types.Provider
	OpenAI   ProviderConfig
	Gemini   ProviderConfig
	// BrowserModel is the OpenAI model that drives the browser agents.
	BrowserModel string
	mu           sync.RWMutex
}

// NewLLMSection creates an LLM section with default settings.
func NewLLMSection() *LLMSection {
	s := &LLMSection{}
	s.reset()
	return s
}

func (s *LLMSection) reset() {
	s.Provider = types.ProviderOpenAI
	s.OpenAI = ProviderConfig{Model: openai.DefaultModel}
	s.Gemini = ProviderConfig{Model: gemini.DefaultModel}
	s.BrowserModel = openai.DefaultModel
}

// ID returns the section identifier.
func (s *LLMSection) ID() string {
	return SectionIDLLM
}

// Title returns the section title.
func (s *LLMSection) Title() string {
	return "LLM Settings"
}

// Description returns the section description.
func (s *LLMSection) Description() string {
	return "Code generation provider, per-provider model, base URL and API key, and the model used by the browser agents."
}

// Data returns the current configuration data.
func (s *LLMSection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]interface{}{
		"provider":        string(s.Provider),
		"openai_model":    s.OpenAI.Model,
		"openai_base_url": s.OpenAI.BaseURL,
		"openai_api_key":  s.OpenAI.APIKey,
		"gemini_model":    s.Gemini.Model,
		"gemini_base_url": s.Gemini.BaseURL,
		"gemini_api_key":  s.Gemini.APIKey,
		"browser_model":   s.BrowserModel,
	}
}

// SetData updates the configuration from the provided data. Empty model
// names keep the defaults.
func (s *LLMSection) SetData(data map[string]interface{}) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := data["provider"].(string); ok && v != "" {
		p, err := types.ParseProvider(v)
		if err != nil {
			return err
		}
		s.Provider = p
	}

	setString(data, "openai_model", &s.OpenAI.Model, false)
	setString(data, "openai_base_url", &s.OpenAI.BaseURL, true)
	setString(data, "openai_api_key", &s.OpenAI.APIKey, true)
	setString(data, "gemini_model", &s.Gemini.Model, false)
	setString(data, "gemini_base_url", &s.Gemini.BaseURL, true)
	setString(data, "gemini_api_key", &s.Gemini.APIKey, true)
	setString(data, "browser_model", &s.BrowserModel, false)
	return nil
}

// setString copies data[key] into dst when it is a string. Empty values are
// only applied when allowEmpty is set.
func setString(data map[string]interface{}, key string, dst *string, allowEmpty bool) {
	v, ok := data[key].(string)
	if !ok || (v == "" && !allowEmpty) {
		return
	}
	*dst = v
}

// Validate checks the provider selection.
func (s *LLMSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, err := types.ParseProvider(string(s.Provider))
	return err
}

// Reset restores defaults.
func (s *LLMSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

// GetProvider returns the configured code generation provider.
func (s *LLMSection) GetProvider() types.Provider {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Provider
}

// SetProvider sets the code generation provider.
func (s *LLMSection) SetProvider(p types.Provider) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Provider = p
}

// ProviderConfig returns the settings stored for p.
func (s *LLMSection) ProviderConfig(p types.Provider) ProviderConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p == types.ProviderGemini {
		return s.Gemini
	}
	return s.OpenAI
}

// SetAPIKey stores the API key for p.
func (s *LLMSection) SetAPIKey(p types.Provider, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p == types.ProviderGemini {
		s.Gemini.APIKey = key
		return
	}
	s.OpenAI.APIKey = key
}

// GetBrowserModel returns the model used by the browser agents.
func (s *LLMSection) GetBrowserModel() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.BrowserModel
}
