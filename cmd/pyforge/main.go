// Package main provides the pyforge terminal application: describe a pygame
// visualization, generate its code with OpenAI or Gemini, and run it on
// trinket.io through browser agents.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/entrhq/pyforge/pkg/codegen"
	appconfig "github.com/entrhq/pyforge/pkg/config"
	"github.com/entrhq/pyforge/pkg/executor/tui"
	"github.com/entrhq/pyforge/pkg/llm/tokenizer"
	"github.com/entrhq/pyforge/pkg/logging"
	"github.com/entrhq/pyforge/pkg/tools/browser"
	"github.com/entrhq/pyforge/pkg/types"
	"github.com/entrhq/pyforge/pkg/visualize"
)

const version = "0.1.0"

// Config holds the application configuration
type Config struct {
	ConfigFile   string
	BrowserModel string
	Headed       bool
	EnvFile      string
	LogLevel     string
	ShowVersion  bool
}

func main() {
	config := parseFlags()

	if config.ShowVersion {
		fmt.Printf("pyforge v%s\n", version)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	if err := run(ctx, config); err != nil {
		cancel()
		log.Fatalf("Application error: %v", err)
	}
	cancel()
}

// parseFlags parses command line flags
func parseFlags() *Config {
	config := &Config{}

	flag.StringVar(&config.ConfigFile, "config", "", "Path to the settings file (default ~/.pyforge/config.json)")
	flag.StringVar(&config.BrowserModel, "browser-model", "", "OpenAI model for the browser agents (overrides the settings file)")
	flag.BoolVar(&config.Headed, "headed", false, "Always show the browser window")
	flag.StringVar(&config.EnvFile, "env-file", appconfig.DefaultEnvFile, "Read API keys and base URLs from this dotenv file when present")
	flag.StringVar(&config.LogLevel, "log-level", "info", "Session log level: debug, info, warn or error")
	flag.BoolVar(&config.ShowVersion, "version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "pyforge - pygame visualizations from a description\n\n")
		fmt.Fprintf(os.Stderr, "Usage: pyforge [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  OPENAI_API_KEY     OpenAI API key (code generation and browser agents)\n")
		fmt.Fprintf(os.Stderr, "  GEMINI_API_KEY     Google Gemini API key (code generation)\n")
		fmt.Fprintf(os.Stderr, "  OPENAI_BASE_URL    OpenAI-compatible API base URL\n")
		fmt.Fprintf(os.Stderr, "  GEMINI_BASE_URL    Gemini API base URL\n")
		fmt.Fprintf(os.Stderr, "\nFor scripted runs use pyforge-headless.\n")
	}

	flag.Parse()
	return config
}

func run(ctx context.Context, config *Config) error {
	logging.SetLevel(logging.ParseLevel(config.LogLevel))

	if err := appconfig.LoadEnvFile(config.EnvFile); err != nil {
		return err
	}

	if err := appconfig.Initialize(config.ConfigFile); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}

	launcher := browser.NewPlaywrightLauncher()
	defer func() {
		if err := launcher.Shutdown(); err != nil {
			log.Printf("Warning: %v", err)
		}
	}()

	settings := appconfig.CurrentBrowserSettings()
	if config.Headed {
		settings.Headless = false
	}

	browserModel := config.BrowserModel
	if browserModel == "" {
		if llm := appconfig.GetLLM(); llm != nil {
			browserModel = llm.GetBrowserModel()
		}
	}
	tok, err := tokenizer.NewForModel(browserModel)
	if err != nil {
		log.Printf("Warning: agent token counting disabled: %v", err)
	}

	newVisualizer := func(apiKey string, emit types.EventEmitter) tui.Visualizer {
		opts := []visualize.Option{
			visualize.WithSettings(settings),
			visualize.WithModel(browserModel),
			visualize.WithEventEmitter(emit),
		}
		if tok != nil {
			opts = append(opts, visualize.WithTokenizer(tok))
		}
		return visualize.New(launcher, apiKey, opts...)
	}

	executor := tui.NewExecutor(buildRegistry(), newVisualizer)
	return executor.Run(ctx)
}

// buildRegistry resolves model and base URL overrides for both providers.
// Keys are supplied per request.
func buildRegistry() *codegen.Registry {
	openaiCfg := appconfig.ResolveProvider(types.ProviderOpenAI, appconfig.ProviderConfig{})
	geminiCfg := appconfig.ResolveProvider(types.ProviderGemini, appconfig.ProviderConfig{})
	return codegen.DefaultRegistry(
		codegen.ProviderSettings{Model: openaiCfg.Model, BaseURL: openaiCfg.BaseURL},
		codegen.ProviderSettings{Model: geminiCfg.Model, BaseURL: geminiCfg.BaseURL},
	)
}
