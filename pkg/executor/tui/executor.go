// Package tui provides the interactive terminal interface for pyforge.
//
// The TUI codebase is split into multiple files:
// - executor.go: program lifecycle
// - model.go: model state and messages
// - actions.go: generate, visualize, copy and save actions
// - update.go: Bubble Tea Update function and key handling
// - view.go: rendering
// - progress.go: progress event formatting
// - highlight.go: syntax highlighting for the code panel
// - styles.go: colors and styles
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/entrhq/pyforge/pkg/codegen"
	"github.com/entrhq/pyforge/pkg/logging"
	"github.com/entrhq/pyforge/pkg/types"
	"github.com/entrhq/pyforge/pkg/visualize"
)

var tuiLog = logging.MustLogger("tui")

// Visualizer runs generated code in the browser.
type Visualizer interface {
	Run(ctx context.Context, code string) (*visualize.Outcome, error)
}

// VisualizerFactory creates a visualizer for one run. apiKey is the OpenAI
// key entered in the UI (possibly empty); emit receives progress events.
type VisualizerFactory func(apiKey string, emit types.EventEmitter) Visualizer

// Executor runs the interactive program.
type Executor struct {
	registry      *codegen.Registry
	newVisualizer VisualizerFactory
	program       *tea.Program
}

// NewExecutor creates a TUI executor generating through registry.
func NewExecutor(registry *codegen.Registry, newVisualizer VisualizerFactory) *Executor {
	return &Executor{
		registry:      registry,
		newVisualizer: newVisualizer,
	}
}

// Run starts the TUI and blocks until the user exits. Cancelling ctx stops
// any generation or visualization in flight.
func (e *Executor) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := newModel(ctx, e.registry, e.newVisualizer)
	e.program = tea.NewProgram(m, tea.WithAltScreen())
	m.send = e.program.Send

	tuiLog.Infof("TUI starting")
	if _, err := e.program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI program: %w", err)
	}
	return nil
}
