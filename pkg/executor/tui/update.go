package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles all state updates for the TUI model.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.recalculateLayout()
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case generationDoneMsg:
		m.handleGenerationDone(msg)
		return m, nil

	case visualizationDoneMsg:
		m.handleVisualizationDone(msg)
		return m, nil

	case progressMsg:
		m.handleProgress(msg.event)
		return m, nil

	case copyDoneMsg:
		m.handleCopyDone(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, m.updateFocused(msg)
}

// handleKey processes global shortcuts, then forwards the key to the focused
// component.
func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "ctrl+g":
		return m, m.withSpinner(m.startGeneration())
	case "ctrl+r":
		return m, m.withSpinner(m.startVisualization())
	case "ctrl+y":
		return m, m.copyCode()
	case "ctrl+s":
		m.saveSettings()
		return m, nil
	case "f1":
		m.showHelp = !m.showHelp
		return m, nil
	case "esc":
		m.banner = nil
		m.showHelp = false
		return m, nil
	case "tab":
		return m, m.setFocus((m.focus + 1) % focusCount)
	case "shift+tab":
		return m, m.setFocus((m.focus + focusCount - 1) % focusCount)
	}

	if m.focus == focusProvider {
		switch msg.String() {
		case "left", "h", "up", "k":
			m.providerIdx = (m.providerIdx + len(m.providers) - 1) % len(m.providers)
		case "right", "l", "down", "j", " ", "enter":
			m.providerIdx = (m.providerIdx + 1) % len(m.providers)
		}
		return m, nil
	}

	return m, m.updateFocused(msg)
}

// withSpinner restarts the spinner alongside cmd.
func (m *model) withSpinner(cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	return tea.Batch(cmd, m.spinner.Tick)
}

func (m *model) setFocus(f focusArea) tea.Cmd {
	m.focus = f
	m.openaiKey.Blur()
	m.geminiKey.Blur()
	m.query.Blur()

	switch f {
	case focusOpenAIKey:
		return m.openaiKey.Focus()
	case focusGeminiKey:
		return m.geminiKey.Focus()
	case focusQuery:
		return m.query.Focus()
	}
	return nil
}

func (m *model) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.focus {
	case focusOpenAIKey:
		m.openaiKey, cmd = m.openaiKey.Update(msg)
	case focusGeminiKey:
		m.geminiKey, cmd = m.geminiKey.Update(msg)
	case focusQuery:
		m.query, cmd = m.query.Update(msg)
	case focusCode:
		m.code, cmd = m.code.Update(msg)
	}
	return cmd
}

// recalculateLayout sizes components to the window.
func (m *model) recalculateLayout() {
	inner := m.width - 6
	if inner < 20 {
		inner = 20
	}
	m.openaiKey.Width = inner - 20
	m.geminiKey.Width = inner - 20
	m.query.SetWidth(inner)

	// header, form, banner and status take a fixed share of the screen
	codeHeight := m.height - 26
	if codeHeight < 5 {
		codeHeight = 5
	}
	m.code.Width = inner
	m.code.Height = codeHeight
}
