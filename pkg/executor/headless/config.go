package headless

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/entrhq/pyforge/pkg/types"
)

// Config describes one headless run. It is usually loaded from a YAML run
// file and then overridden by command-line flags.
type Config struct {
	// Natural-language description of the visualization
	Query string `yaml:"query" json:"query"`

	// Provider is "openai" or "gemini"
	Provider string `yaml:"provider" json:"provider"`

	// Visualize runs the browser agents after generation
	Visualize bool `yaml:"visualize" json:"visualize"`

	// Headless hides the browser window during visualization
	Headless bool `yaml:"headless" json:"headless"`

	// OutputDir receives visualization.py, artifact.json and summary.md
	OutputDir string `yaml:"output_dir" json:"output_dir"`

	// Timeout bounds the whole run; zero means no limit
	Timeout time.Duration `yaml:"timeout" json:"timeout"`

	// Checks run against the generated file before visualization
	Checks          []CheckConfig `yaml:"checks" json:"checks"`
	CheckMaxRetries int           `yaml:"check_max_retries" json:"check_max_retries"` // Regenerations allowed after a required check fails

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`

	// Keys never come from the run file.
	APIKey        string `yaml:"-" json:"-"`
	BrowserAPIKey string `yaml:"-" json:"-"`
}

// CheckConfig defines a command run against the generated code. The token
// {file} in Command is replaced with the generated file's path.
type CheckConfig struct {
	Name     string `yaml:"name" json:"name"`
	Command  string `yaml:"command" json:"command"`
	Required bool   `yaml:"required" json:"required"`
}

// LoggingConfig defines logging configuration
type LoggingConfig struct {
	// Verbosity controls logging level: quiet, normal, verbose, debug
	Verbosity string `yaml:"verbosity" json:"verbosity"`
}

// DefaultConfig returns the configuration used when no run file is given.
func DefaultConfig() *Config {
	return &Config{
		Provider:  string(types.ProviderOpenAI),
		OutputDir: "pyforge-output",
		Timeout:   10 * time.Minute,
		Logging:   LoggingConfig{Verbosity: "normal"},
	}
}

// LoadConfig reads a YAML run file on top of DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read run file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse run file: %w", err)
	}
	return cfg, nil
}

// ProviderID returns the parsed provider.
func (c *Config) ProviderID() (types.Provider, error) {
	return types.ParseProvider(c.Provider)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Query) == "" {
		return fmt.Errorf("query is required")
	}

	if _, err := c.ProviderID(); err != nil {
		return err
	}

	if c.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}

	if c.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative")
	}

	if c.CheckMaxRetries < 0 {
		return fmt.Errorf("check_max_retries cannot be negative")
	}

	for i, check := range c.Checks {
		if strings.TrimSpace(check.Command) == "" {
			return fmt.Errorf("check %d (%s) has no command", i+1, check.Name)
		}
	}

	if c.Logging.Verbosity == "" {
		c.Logging.Verbosity = "normal"
	}

	validLevels := map[string]bool{
		"quiet":   true,
		"normal":  true,
		"verbose": true,
		"debug":   true,
	}
	if !validLevels[c.Logging.Verbosity] {
		return fmt.Errorf("invalid logging verbosity: %s (must be 'quiet', 'normal', 'verbose', or 'debug')", c.Logging.Verbosity)
	}

	return nil
}
