package tui

import "github.com/charmbracelet/lipgloss"

// Color Palette
// This is the single source of truth for all TUI colors.
var (
	salmonPink  = lipgloss.Color("#FFB3BA") // primary accent
	coralPink   = lipgloss.Color("#FFCCCB") // secondary accent
	mintGreen   = lipgloss.Color("#A8E6CF") // success
	butterCream = lipgloss.Color("#FFE5A8") // info
	mutedGray   = lipgloss.Color("#6B7280") // secondary text
	brightWhite = lipgloss.Color("#F9FAFB") // primary text
)

// Common Styles
var (
	headerStyle = lipgloss.NewStyle().
			Foreground(salmonPink).
			Bold(true)

	tipsStyle = lipgloss.NewStyle().
			Foreground(mutedGray)

	labelStyle = lipgloss.NewStyle().
			Foreground(brightWhite).
			Bold(true)

	focusedLabelStyle = lipgloss.NewStyle().
				Foreground(coralPink).
				Bold(true)

	selectedOptionStyle = lipgloss.NewStyle().
				Foreground(salmonPink).
				Bold(true)

	optionStyle = lipgloss.NewStyle().
			Foreground(mutedGray)

	progressStyle = lipgloss.NewStyle().
			Foreground(mutedGray).
			Italic(true)

	successBannerStyle = lipgloss.NewStyle().
				Foreground(mintGreen).
				Bold(true)

	errorBannerStyle = lipgloss.NewStyle().
				Foreground(salmonPink).
				Bold(true)

	infoBannerStyle = lipgloss.NewStyle().
			Foreground(butterCream)

	// Container Styles
	statusBarStyle = lipgloss.NewStyle().
			Foreground(mutedGray).
			Padding(0, 1)

	inputBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedGray).
			Padding(0, 1)

	focusedBoxStyle = inputBoxStyle.
			BorderForeground(salmonPink)

	codePanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(coralPink).
			Padding(0, 1)
)
