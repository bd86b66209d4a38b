// Package main provides pyforge-headless: generate pygame code for one query
// and optionally run it on trinket.io, without a terminal UI.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/entrhq/pyforge/pkg/codegen"
	appconfig "github.com/entrhq/pyforge/pkg/config"
	"github.com/entrhq/pyforge/pkg/executor/headless"
	"github.com/entrhq/pyforge/pkg/llm/tokenizer"
	"github.com/entrhq/pyforge/pkg/logging"
	"github.com/entrhq/pyforge/pkg/tools/browser"
	"github.com/entrhq/pyforge/pkg/types"
	"github.com/entrhq/pyforge/pkg/visualize"
)

const version = "0.1.0"

// CLIConfig holds command-line configuration
type CLIConfig struct {
	Query       string
	Provider    string
	OpenAIKey   string
	GeminiKey   string
	ConfigFile  string
	RunFile     string
	Output      string
	Timeout     time.Duration
	Visualize   bool
	Headed      bool
	EnvFile     string
	LogLevel    string
	ShowVersion bool
}

func main() {
	cli := parseFlags()

	if cli.ShowVersion {
		fmt.Printf("pyforge-headless v%s\n", version)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n\nShutting down gracefully...")
		cancel()
	}()

	if err := run(ctx, cli); err != nil {
		cancel()
		log.Printf("Execution failed: %v", err)
		os.Exit(1)
	}
	cancel()
}

// parseFlags parses command line flags
func parseFlags() *CLIConfig {
	cli := &CLIConfig{}

	flag.StringVar(&cli.Query, "query", "", "Description of the visualization (required if the run file has none)")
	flag.StringVar(&cli.Provider, "provider", "", "Code generation provider: openai or gemini (default openai)")
	flag.StringVar(&cli.OpenAIKey, "openai-key", "", "OpenAI API key (or set OPENAI_API_KEY)")
	flag.StringVar(&cli.GeminiKey, "gemini-key", "", "Gemini API key (or set GEMINI_API_KEY)")
	flag.StringVar(&cli.ConfigFile, "config", "", "Path to the settings file (default ~/.pyforge/config.json)")
	flag.StringVar(&cli.RunFile, "run-file", "", "Path to a YAML run file")
	flag.BoolVar(&cli.Visualize, "visualize", false, "Run the code on trinket.io after generating it")
	flag.BoolVar(&cli.Headed, "headed", false, "Show the browser window while visualizing")
	flag.StringVar(&cli.Output, "output", "", "Output directory (default pyforge-output)")
	flag.DurationVar(&cli.Timeout, "timeout", 0, "Overall run timeout (default 10m)")
	flag.StringVar(&cli.EnvFile, "env-file", appconfig.DefaultEnvFile, "Read API keys and base URLs from this dotenv file when present")
	flag.StringVar(&cli.LogLevel, "log-level", "info", "Session log level: debug, info, warn or error")
	flag.BoolVar(&cli.ShowVersion, "version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "pyforge-headless - generate and run pygame visualizations from scripts\n\n")
		fmt.Fprintf(os.Stderr, "Usage: pyforge-headless [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Generate code only\n")
		fmt.Fprintf(os.Stderr, "  pyforge-headless -query \"a bouncing ball\"\n\n")
		fmt.Fprintf(os.Stderr, "  # Generate with Gemini and run it on Trinket\n")
		fmt.Fprintf(os.Stderr, "  pyforge-headless -query \"fireworks\" -provider gemini -visualize\n\n")
		fmt.Fprintf(os.Stderr, "  # Use a run file\n")
		fmt.Fprintf(os.Stderr, "  pyforge-headless -run-file pyforge-run.yaml\n\n")
	}

	flag.Parse()
	return cli
}

func run(ctx context.Context, cli *CLIConfig) error {
	logging.SetLevel(logging.ParseLevel(cli.LogLevel))

	if err := appconfig.LoadEnvFile(cli.EnvFile); err != nil {
		return err
	}

	cfg, err := loadConfig(cli)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if initErr := appconfig.Initialize(cli.ConfigFile); initErr != nil {
		return fmt.Errorf("failed to initialize configuration: %w", initErr)
	}

	provider, err := cfg.ProviderID()
	if err != nil {
		return err
	}
	cliKey := cli.OpenAIKey
	if provider == types.ProviderGemini {
		cliKey = cli.GeminiKey
	}
	cfg.APIKey = appconfig.ResolveAPIKey(provider, cliKey)
	cfg.BrowserAPIKey = appconfig.ResolveAPIKey(types.ProviderOpenAI, cli.OpenAIKey)

	launcher := browser.NewPlaywrightLauncher()
	defer func() {
		if err := launcher.Shutdown(); err != nil {
			log.Printf("Warning: %v", err)
		}
	}()

	settings := appconfig.CurrentBrowserSettings()
	settings.Headless = cfg.Headless

	executor, err := headless.NewExecutor(buildRegistry(), cfg,
		headless.WithVisualizer(func(emit types.EventEmitter) (headless.Visualizer, error) {
			opts := []visualize.Option{
				visualize.WithSettings(settings),
				visualize.WithEventEmitter(emit),
				visualize.WithScreenshotDir(cfg.OutputDir),
			}
			if tok, tokErr := tokenizer.New(); tokErr == nil {
				opts = append(opts, visualize.WithTokenizer(tok))
			}
			return visualize.New(launcher, cfg.BrowserAPIKey, opts...), nil
		}),
	)
	if err != nil {
		return err
	}

	return executor.Run(ctx)
}

// loadConfig builds the run configuration: run file, then flags.
func loadConfig(cli *CLIConfig) (*headless.Config, error) {
	cfg := headless.DefaultConfig()
	if cli.RunFile != "" {
		loaded, err := headless.LoadConfig(cli.RunFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if cli.Query != "" {
		cfg.Query = cli.Query
	}
	if cli.Provider != "" {
		cfg.Provider = cli.Provider
	}
	if cli.Output != "" {
		cfg.OutputDir = cli.Output
	}
	if cli.Timeout > 0 {
		cfg.Timeout = cli.Timeout
	}
	if cli.Visualize {
		cfg.Visualize = true
	}
	if cli.Headed {
		cfg.Headless = false
	} else if cli.RunFile == "" {
		cfg.Headless = true
	}

	if cfg.Query == "" {
		return nil, fmt.Errorf("query is required: use -query or set query in the run file")
	}
	return cfg, nil
}

// buildRegistry resolves model and base URL overrides for both providers.
func buildRegistry() *codegen.Registry {
	openaiCfg := appconfig.ResolveProvider(types.ProviderOpenAI, appconfig.ProviderConfig{})
	geminiCfg := appconfig.ResolveProvider(types.ProviderGemini, appconfig.ProviderConfig{})
	return codegen.DefaultRegistry(
		codegen.ProviderSettings{Model: openaiCfg.Model, BaseURL: openaiCfg.BaseURL},
		codegen.ProviderSettings{Model: geminiCfg.Model, BaseURL: geminiCfg.BaseURL},
	)
}
