package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

const (
	// SectionIDBrowser is the identifier for the browser automation section
	SectionIDBrowser = "browser"

	// DefaultEditorURL is the online pygame editor the agents drive.
	DefaultEditorURL = "https://trinket.io/features/pygame"

	// CoderModeType has the Coder agent type the generated code into the editor.
	CoderModeType = "type"
	// CoderModeWait has the Coder agent wait for the user to paste the code.
	CoderModeWait = "wait"

	// DefaultStepTimeout bounds each agent step.
	DefaultStepTimeout = 3 * time.Minute

	defaultMaxAgentSteps  = 15
	defaultObserveSeconds = 10
	// maxObserveSeconds is the longest single browser_wait.
	maxObserveSeconds     = 120
	defaultViewportWidth  = 1280
	defaultViewportHeight = 800
)

// DefaultAllowedURLs restricts navigation to the editor site.
func DefaultAllowedURLs() []string {
	return []string{"https://trinket.io/**", "https://*.trinket.io/**"}
}

// BrowserSection manages browser automation settings.
type BrowserSection struct {
	EditorURL      string
	AllowedURLs    []string
	CoderMode      string
	StepTimeout    time.Duration
	MaxAgentSteps  int
	ObserveSeconds int
	ViewportWidth  int
	ViewportHeight int
	Headless       bool
	mu             sync.RWMutex
}

// NewBrowserSection creates a browser section with default settings.
func NewBrowserSection() *BrowserSection {
	s := &BrowserSection{}
	s.reset()
	return s
}

func (s *BrowserSection) reset() {
	s.EditorURL = DefaultEditorURL
	s.AllowedURLs = DefaultAllowedURLs()
	s.CoderMode = CoderModeType
	s.StepTimeout = DefaultStepTimeout
	s.MaxAgentSteps = defaultMaxAgentSteps
	s.ObserveSeconds = defaultObserveSeconds
	s.ViewportWidth = defaultViewportWidth
	s.ViewportHeight = defaultViewportHeight
	s.Headless = false
}

// ID returns the section identifier.
func (s *BrowserSection) ID() string {
	return SectionIDBrowser
}

// Title returns the section title.
func (s *BrowserSection) Title() string {
	return "Browser Automation"
}

// Description returns the section description.
func (s *BrowserSection) Description() string {
	return "Editor URL, navigation allowlist, coder mode, per-step timeout and browser window settings for visualization runs."
}

// Data returns the current configuration data.
func (s *BrowserSection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	allowed := make([]interface{}, len(s.AllowedURLs))
	for i, u := range s.AllowedURLs {
		allowed[i] = u
	}

	return map[string]interface{}{
		"editor_url":      s.EditorURL,
		"allowed_urls":    allowed,
		"coder_mode":      s.CoderMode,
		"step_timeout":    s.StepTimeout.String(),
		"max_agent_steps": s.MaxAgentSteps,
		"observe_seconds": s.ObserveSeconds,
		"viewport_width":  s.ViewportWidth,
		"viewport_height": s.ViewportHeight,
		"headless":        s.Headless,
	}
}

// SetData updates the configuration from the provided data. Numbers decoded
// from JSON arrive as float64.
func (s *BrowserSection) SetData(data map[string]interface{}) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	setString(data, "editor_url", &s.EditorURL, false)
	setString(data, "coder_mode", &s.CoderMode, false)

	if raw, ok := data["allowed_urls"].([]interface{}); ok {
		urls := make([]string, 0, len(raw))
		for _, v := range raw {
			if u, ok := v.(string); ok && u != "" {
				urls = append(urls, u)
			}
		}
		s.AllowedURLs = urls
	}

	if v, ok := data["step_timeout"].(string); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid step_timeout: %w", err)
		}
		s.StepTimeout = d
	}

	setInt(data, "max_agent_steps", &s.MaxAgentSteps)
	setInt(data, "observe_seconds", &s.ObserveSeconds)
	setInt(data, "viewport_width", &s.ViewportWidth)
	setInt(data, "viewport_height", &s.ViewportHeight)

	if v, ok := data["headless"].(bool); ok {
		s.Headless = v
	}
	return nil
}

func setInt(data map[string]interface{}, key string, dst *int) {
	switch v := data[key].(type) {
	case float64:
		*dst = int(v)
	case int:
		*dst = v
	}
}

// Validate checks the current values.
func (s *BrowserSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var errs []error
	if !strings.HasPrefix(s.EditorURL, "http://") && !strings.HasPrefix(s.EditorURL, "https://") {
		errs = append(errs, fmt.Errorf("editor_url must be an http(s) URL, got %q", s.EditorURL))
	}
	if s.CoderMode != CoderModeType && s.CoderMode != CoderModeWait {
		errs = append(errs, fmt.Errorf("coder_mode must be %q or %q, got %q", CoderModeType, CoderModeWait, s.CoderMode))
	}
	if s.StepTimeout <= 0 {
		errs = append(errs, errors.New("step_timeout must be positive"))
	}
	if s.MaxAgentSteps <= 0 {
		errs = append(errs, errors.New("max_agent_steps must be positive"))
	}
	if s.ObserveSeconds < 1 || s.ObserveSeconds > maxObserveSeconds {
		errs = append(errs, fmt.Errorf("observe_seconds must be between 1 and %d, got %d", maxObserveSeconds, s.ObserveSeconds))
	}
	if s.ViewportWidth <= 0 || s.ViewportHeight <= 0 {
		errs = append(errs, errors.New("viewport dimensions must be positive"))
	}
	return errors.Join(errs...)
}

// Reset restores defaults.
func (s *BrowserSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

// Snapshot returns a copy of the settings safe to use without locking.
func (s *BrowserSection) Snapshot() BrowserSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return BrowserSettings{
		EditorURL:      s.EditorURL,
		AllowedURLs:    append([]string(nil), s.AllowedURLs...),
		CoderMode:      s.CoderMode,
		StepTimeout:    s.StepTimeout,
		MaxAgentSteps:  s.MaxAgentSteps,
		ObserveSeconds: s.ObserveSeconds,
		ViewportWidth:  s.ViewportWidth,
		ViewportHeight: s.ViewportHeight,
		Headless:       s.Headless,
	}
}

// BrowserSettings is an immutable copy of BrowserSection values.
type BrowserSettings struct {
	EditorURL      string
	AllowedURLs    []string
	CoderMode      string
	StepTimeout    time.Duration
	MaxAgentSteps  int
	ObserveSeconds int
	ViewportWidth  int
	ViewportHeight int
	Headless       bool
}

// DefaultBrowserSettings returns the defaults without a config file.
func DefaultBrowserSettings() BrowserSettings {
	return NewBrowserSection().Snapshot()
}
