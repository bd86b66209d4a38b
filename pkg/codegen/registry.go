package codegen

import (
	"fmt"
	"sync"

	"github.com/entrhq/pyforge/pkg/types"
)

// Registry maps providers to completer factories.
type Registry struct {
	factories map[types.Provider]Factory
	mu        sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[types.Provider]Factory)}
}

// DefaultRegistry registers the OpenAI and Gemini factories with the given
// settings.
func DefaultRegistry(openaiSettings, geminiSettings ProviderSettings) *Registry {
	r := NewRegistry()
	r.Register(types.ProviderOpenAI, OpenAIFactory(openaiSettings))
	r.Register(types.ProviderGemini, GeminiFactory(geminiSettings))
	return r
}

// Register adds or replaces the factory for provider.
func (r *Registry) Register(provider types.Provider, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[provider] = factory
}

// Lookup returns the factory registered for provider.
func (r *Registry) Lookup(provider types.Provider) (Factory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[provider]
	if !ok {
		return nil, fmt.Errorf("no completer registered for provider %q", provider)
	}
	return f, nil
}

// Providers returns the registered providers in display order.
func (r *Registry) Providers() []types.Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []types.Provider
	for _, p := range types.Providers() {
		if _, ok := r.factories[p]; ok {
			out = append(out, p)
		}
	}
	return out
}
