package config

import (
	"errors"
	"sync"

	"github.com/entrhq/pyforge/pkg/types"
)

var (
	globalManager *Manager
	globalMu      sync.Mutex
)

// Initialize creates the global configuration manager, registers the
// default sections and loads them from configPath (DefaultPath when empty).
func Initialize(configPath string) error {
	globalMu.Lock()
	defer globalMu.Unlock()

	manager, err := newDefaultManager(configPath)
	if err != nil {
		return err
	}
	globalManager = manager
	return nil
}

func newDefaultManager(configPath string) (*Manager, error) {
	store, err := NewFileStore(configPath)
	if err != nil {
		return nil, err
	}

	manager := NewManager(store)
	for _, section := range []Section{NewLLMSection(), NewBrowserSection()} {
		if err := manager.RegisterSection(section); err != nil {
			return nil, err
		}
	}

	if err := manager.LoadAll(); err != nil {
		return nil, err
	}
	return manager, nil
}

// Global returns the global configuration manager.
// Panics if Initialize has not been called.
func Global() *Manager {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalManager == nil {
		panic("config not initialized: call config.Initialize first")
	}
	return globalManager
}

// IsInitialized returns true if the global configuration has been initialized.
func IsInitialized() bool {
	globalMu.Lock()
	defer globalMu.Unlock()
	return globalManager != nil
}

// GetLLM returns the LLM section from global config, or nil if config is
// not initialized.
func GetLLM() *LLMSection {
	if !IsInitialized() {
		return nil
	}
	section, ok := Global().GetSection(SectionIDLLM)
	if !ok {
		return nil
	}
	llm, _ := section.(*LLMSection)
	return llm
}

// GetBrowser returns the browser section from global config, or nil if
// config is not initialized.
func GetBrowser() *BrowserSection {
	if !IsInitialized() {
		return nil
	}
	section, ok := Global().GetSection(SectionIDBrowser)
	if !ok {
		return nil
	}
	browser, _ := section.(*BrowserSection)
	return browser
}

// CurrentBrowserSettings returns the global browser settings, or the defaults when
// config is not initialized.
func CurrentBrowserSettings() BrowserSettings {
	if b := GetBrowser(); b != nil {
		return b.Snapshot()
	}
	return DefaultBrowserSettings()
}

// DefaultProvider returns the configured code generation provider, or
// OpenAI when config is not initialized.
func DefaultProvider() types.Provider {
	if llm := GetLLM(); llm != nil {
		return llm.GetProvider()
	}
	return types.ProviderOpenAI
}

// SaveLLMSettings records p as the default provider, stores every non-empty
// key in keys and writes the settings file.
func SaveLLMSettings(p types.Provider, keys map[types.Provider]string) error {
	llm := GetLLM()
	if llm == nil {
		return errors.New("config not initialized")
	}
	llm.SetProvider(p)
	for provider, key := range keys {
		if key != "" {
			llm.SetAPIKey(provider, key)
		}
	}
	return Global().SaveAll()
}
