package headless

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name:   "valid config",
			config: &Config{Query: "bouncing ball", Provider: "openai", OutputDir: "out"},
		},
		{
			name:    "missing query",
			config:  &Config{Provider: "openai", OutputDir: "out"},
			wantErr: true,
		},
		{
			name:    "unknown provider",
			config:  &Config{Query: "q", Provider: "claude", OutputDir: "out"},
			wantErr: true,
		},
		{
			name:    "missing output dir",
			config:  &Config{Query: "q", Provider: "gemini"},
			wantErr: true,
		},
		{
			name:    "negative timeout",
			config:  &Config{Query: "q", Provider: "openai", OutputDir: "out", Timeout: -time.Second},
			wantErr: true,
		},
		{
			name:    "negative retries",
			config:  &Config{Query: "q", Provider: "openai", OutputDir: "out", CheckMaxRetries: -1},
			wantErr: true,
		},
		{
			name: "check without command",
			config: &Config{Query: "q", Provider: "openai", OutputDir: "out",
				Checks: []CheckConfig{{Name: "compile"}}},
			wantErr: true,
		},
		{
			name: "invalid verbosity",
			config: &Config{Query: "q", Provider: "openai", OutputDir: "out",
				Logging: LoggingConfig{Verbosity: "chatty"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ValidateDefaultsVerbosity(t *testing.T) {
	cfg := &Config{Query: "q", Provider: "openai", OutputDir: "out"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.Logging.Verbosity != "normal" {
		t.Errorf("Verbosity = %q, want normal", cfg.Logging.Verbosity)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	content := `query: a bouncing ball with gravity
provider: gemini
visualize: true
output_dir: build/viz
timeout: 90s
check_max_retries: 2
checks:
  - name: compile
    command: python3 -m py_compile {file}
    required: true
logging:
  verbosity: debug
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Query != "a bouncing ball with gravity" {
		t.Errorf("Query = %q", cfg.Query)
	}
	if cfg.Provider != "gemini" || !cfg.Visualize || cfg.OutputDir != "build/viz" {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.Timeout != 90*time.Second {
		t.Errorf("Timeout = %v, want 90s", cfg.Timeout)
	}
	if len(cfg.Checks) != 1 || !cfg.Checks[0].Required || cfg.CheckMaxRetries != 2 {
		t.Errorf("Checks = %+v, retries = %d", cfg.Checks, cfg.CheckMaxRetries)
	}
	if cfg.Logging.Verbosity != "debug" {
		t.Errorf("Verbosity = %q", cfg.Logging.Verbosity)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoadConfig_KeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := os.WriteFile(path, []byte("query: particles\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	def := DefaultConfig()
	if cfg.Provider != def.Provider || cfg.OutputDir != def.OutputDir || cfg.Timeout != def.Timeout {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("query: [unclosed"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}
