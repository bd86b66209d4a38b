package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// usageHelp lists the steps shown with F1.
const usageHelp = `How to use pyforge

  1. Pick a provider with tab and the arrow keys (OpenAI or Google Gemini).
  2. Enter the API key for that provider. Keys are read from
     OPENAI_API_KEY / GEMINI_API_KEY or the config file when left blank.
  3. Describe the visualization you want in the query box.
  4. Press ctrl+g to generate pygame code.
  5. Press ctrl+r to open trinket.io in a browser and run the code there.
     The browser agents always use OpenAI, so an OpenAI key is required.
  6. Press ctrl+y to copy the code and run it yourself.
  7. Press ctrl+s to keep the provider and typed keys in the settings file.

  tab / shift+tab  move between fields     esc  dismiss message
  F1               toggle this help        ctrl+c  quit`

// View renders the entire TUI interface.
func (m *model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	sections := []string{
		m.buildHeader(),
		m.buildTips(),
		m.buildProviderRow(),
		m.buildKeyRow("OpenAI API key", focusOpenAIKey, m.openaiKey.View()),
		m.buildKeyRow("Gemini API key", focusGeminiKey, m.geminiKey.View()),
		m.buildQueryBox(),
	}
	if b := m.buildBanner(); b != "" {
		sections = append(sections, b)
	}
	if p := m.buildProgress(); p != "" {
		sections = append(sections, p)
	}
	sections = append(sections, m.buildCodePanel(), m.buildBottomBar())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *model) buildHeader() string {
	return headerStyle.Render(`
  ┌─┐┬ ┬┌─┐┌─┐┬─┐┌─┐┌─┐
  ├─┘└┬┘├┤ │ │├┬┘│ ┬├┤
  ┴   ┴ └  └─┘┴└─└─┘└─┘`)
}

func (m *model) buildTips() string {
	return tipsStyle.Render("  ctrl+g Generate Code • ctrl+r Generate Visualization • ctrl+y Copy • ctrl+s Save • tab Next field • F1 Help • ctrl+c Quit")
}

func (m *model) label(text string, f focusArea) string {
	style := labelStyle
	if m.focus == f {
		style = focusedLabelStyle
	}
	return style.Width(18).Render(text)
}

func (m *model) buildProviderRow() string {
	options := make([]string, 0, len(m.providers))
	for i, p := range m.providers {
		if i == m.providerIdx {
			options = append(options, selectedOptionStyle.Render("● "+p.DisplayName()))
		} else {
			options = append(options, optionStyle.Render("○ "+p.DisplayName()))
		}
	}
	return "  " + m.label("Provider", focusProvider) + strings.Join(options, "   ")
}

func (m *model) buildKeyRow(title string, f focusArea, input string) string {
	return "  " + m.label(title, f) + input
}

func (m *model) buildQueryBox() string {
	style := inputBoxStyle
	if m.focus == focusQuery {
		style = focusedBoxStyle
	}
	return style.Width(m.width - 4).Render(m.query.View())
}

func (m *model) buildBanner() string {
	if m.banner == nil {
		return ""
	}

	var style lipgloss.Style
	icon := ""
	switch m.banner.kind {
	case bannerSuccess:
		style, icon = successBannerStyle, "✓"
	case bannerError:
		style, icon = errorBannerStyle, "✗"
	default:
		style, icon = infoBannerStyle, "ℹ"
	}

	out := style.Render(fmt.Sprintf("  %s %s", icon, m.banner.title))
	if m.banner.detail != "" {
		out += "\n" + tipsStyle.Width(m.width-4).Render("    "+m.banner.detail)
	}
	return out
}

func (m *model) buildProgress() string {
	if !m.busy && len(m.progress) == 0 {
		return ""
	}

	lines := make([]string, 0, len(m.progress)+1)
	if m.busy {
		lines = append(lines, headerStyle.Render(fmt.Sprintf("  %s %s", m.spinner.View(), m.busyMessage)))
	}
	for _, l := range m.progress {
		lines = append(lines, progressStyle.Render("    "+l))
	}
	return strings.Join(lines, "\n")
}

func (m *model) buildCodePanel() string {
	if m.showHelp {
		return codePanelStyle.Width(m.width - 4).Render(usageHelp)
	}
	return codePanelStyle.Width(m.width - 4).Render(m.code.View())
}

func (m *model) buildBottomBar() string {
	left := "pyforge"
	if a := m.store.Latest(); a != nil {
		left = fmt.Sprintf("pyforge • %s • %s tokens", a.Model, formatTokenCount(a.TokenCount))
	}
	right := ""
	if m.agentTokens > 0 {
		right = fmt.Sprintf("agents: %s tokens", formatTokenCount(m.agentTokens))
	}
	if m.focus == focusCode {
		right = strings.TrimSpace(right + "  ↑/↓ scroll")
	}

	pad := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if pad < 1 {
		pad = 1
	}
	return statusBarStyle.Render(left + strings.Repeat(" ", pad) + right)
}
