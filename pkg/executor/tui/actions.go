package tui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/entrhq/pyforge/pkg/codegen"
	"github.com/entrhq/pyforge/pkg/config"
	"github.com/entrhq/pyforge/pkg/types"
	"github.com/entrhq/pyforge/pkg/visualize"
)

// apiKey returns the key typed for p, falling back to the environment and
// the config file.
func (m *model) apiKey(p types.Provider) string {
	typed := m.openaiKey.Value()
	if p == types.ProviderGemini {
		typed = m.geminiKey.Value()
	}
	return config.ResolveAPIKey(p, strings.TrimSpace(typed))
}

// startGeneration validates the form and returns the command that runs the
// completion, or nil when nothing should run.
func (m *model) startGeneration() tea.Cmd {
	if m.busy {
		return nil
	}

	query := strings.TrimSpace(m.query.Value())
	if query == "" {
		m.setBanner(bannerError, "Please enter a query", "")
		return nil
	}
	provider := m.provider()
	key := m.apiKey(provider)
	if key == "" {
		m.setBanner(bannerError, codegen.MissingKeyMessage(provider), "")
		return nil
	}

	m.busy = true
	m.busyMessage = fmt.Sprintf("Generating code with %s...", provider.DisplayName())
	m.banner = nil
	m.progress = nil

	req := types.GenerationRequest{
		Provider:     provider,
		APIKey:       key,
		SystemPrompt: codegen.DefaultSystemPrompt,
		UserQuery:    query,
	}
	ctx, gen := m.ctx, m.generator
	return func() tea.Msg {
		artifact, err := gen.Generate(ctx, req)
		return generationDoneMsg{artifact: artifact, err: err}
	}
}

// startVisualization returns the command that runs the browser agents on
// the stored code, or nil when nothing should run.
func (m *model) startVisualization() tea.Cmd {
	if m.busy {
		return nil
	}

	code := m.store.Code()
	if code == "" {
		m.setBanner(bannerInfo, "Generate code first", "Press ctrl+g to generate code, then ctrl+r to visualize it.")
		return nil
	}
	key := m.apiKey(types.ProviderOpenAI)
	if key == "" {
		m.setBanner(bannerError, codegen.MissingKeyMessage(types.ProviderOpenAI), "The browser agents always run on OpenAI.")
		return nil
	}

	m.busy = true
	m.busyMessage = "Starting browser..."
	m.banner = nil
	m.progress = nil
	m.agentTokens = 0

	viz := m.newVisualizer(key, m.emit)
	ctx := m.ctx
	return func() tea.Msg {
		outcome, err := viz.Run(ctx, code)
		return visualizationDoneMsg{outcome: outcome, err: err}
	}
}

// copyCode returns the command that copies the stored code.
func (m *model) copyCode() tea.Cmd {
	code := m.store.Code()
	if code == "" {
		m.setBanner(bannerInfo, "Generate code first", "There is nothing to copy yet.")
		return nil
	}
	write := m.copy
	return func() tea.Msg {
		return copyDoneMsg{err: write(code)}
	}
}

// saveSettings stores the selected provider and any typed keys in the
// settings file.
func (m *model) saveSettings() {
	keys := map[types.Provider]string{
		types.ProviderOpenAI: strings.TrimSpace(m.openaiKey.Value()),
		types.ProviderGemini: strings.TrimSpace(m.geminiKey.Value()),
	}
	if err := m.save(m.provider(), keys); err != nil {
		tuiLog.Warnf("failed to save settings: %v", err)
		m.setBanner(bannerError, "Could not save settings", err.Error())
		return
	}
	m.setBanner(bannerSuccess, "Settings saved", fmt.Sprintf("%s is now the default provider.", m.provider().DisplayName()))
}

func (m *model) handleGenerationDone(msg generationDoneMsg) {
	m.busy = false
	if msg.err != nil {
		tuiLog.Warnf("generation failed: %v", msg.err)
		m.setBanner(bannerError, errorTitle(msg.err), errorDetail(msg.err))
		return
	}

	a := msg.artifact
	m.setCode(a.NormalizedCode)
	lines := strings.Count(a.NormalizedCode, "\n") + 1
	m.setBanner(bannerSuccess, "Code generated successfully",
		fmt.Sprintf("%d lines from %s (%s). Press ctrl+r to run it on Trinket or ctrl+y to copy.", lines, a.Provider.DisplayName(), a.Model))
}

func (m *model) handleVisualizationDone(msg visualizationDoneMsg) {
	m.busy = false
	if msg.err != nil {
		tuiLog.Warnf("visualization not started: %v", msg.err)
		m.setBanner(bannerError, errorTitle(msg.err), errorDetail(msg.err))
		return
	}

	outcome := msg.outcome
	if outcome.Success {
		detail := ""
		if n := len(outcome.Steps); n > 0 {
			detail = outcome.Steps[n-1].Summary
		}
		m.setBanner(bannerSuccess, "Visualization completed", detail)
		return
	}
	m.setBanner(bannerError, outcome.Reason, outcome.Advice)
}

func (m *model) handleCopyDone(msg copyDoneMsg) {
	if msg.err != nil {
		m.setBanner(bannerError, "Could not copy to clipboard", msg.err.Error())
		return
	}
	m.setBanner(bannerSuccess, "Code copied to clipboard", "Paste it into the Trinket editor to run it manually.")
}

// errorTitle maps pipeline errors to the banner headline.
func errorTitle(err error) string {
	var authErr *codegen.AuthError
	switch {
	case errors.Is(err, codegen.ErrEmptyQuery):
		return "Please enter a query"
	case errors.Is(err, visualize.ErrNoArtifact):
		return "Generate code first"
	case errors.As(err, &authErr):
		if authErr.Missing {
			return codegen.MissingKeyMessage(authErr.Provider)
		}
		return "Invalid API key"
	default:
		return "Error"
	}
}

func errorDetail(err error) string {
	var authErr *codegen.AuthError
	if errors.As(err, &authErr) && authErr.Missing {
		return ""
	}
	if errors.Is(err, codegen.ErrEmptyQuery) || errors.Is(err, visualize.ErrNoArtifact) {
		return ""
	}
	return err.Error()
}
