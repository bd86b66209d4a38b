package tui

import (
	"context"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/entrhq/pyforge/pkg/codegen"
	"github.com/entrhq/pyforge/pkg/config"
	"github.com/entrhq/pyforge/pkg/types"
	"github.com/entrhq/pyforge/pkg/visualize"
)

// focusArea identifies the component receiving key input.
type focusArea int

const (
	focusProvider focusArea = iota
	focusOpenAIKey
	focusGeminiKey
	focusQuery
	focusCode
	focusCount
)

const maxProgressLines = 6

// model represents the state of the TUI application.
type model struct {
	ctx context.Context

	// Bubble Tea components
	openaiKey textinput.Model
	geminiKey textinput.Model
	query     textarea.Model
	code      viewport.Model
	spinner   spinner.Model

	providers   []types.Provider
	providerIdx int
	focus       focusArea

	// Pipeline
	generator     *codegen.Generator
	store         *codegen.Store
	newVisualizer VisualizerFactory

	// send delivers messages from background work to the program.
	send func(tea.Msg)
	// copy writes to the system clipboard.
	copy func(string) error
	// save persists the provider choice and typed keys.
	save func(types.Provider, map[types.Provider]string) error

	// UI state
	busy        bool
	busyMessage string
	banner      *banner
	progress    []string
	showHelp    bool
	agentTokens int

	// Window dimensions
	width  int
	height int
	ready  bool
}

// bannerKind selects the banner style.
type bannerKind int

const (
	bannerSuccess bannerKind = iota
	bannerError
	bannerInfo
)

// banner is the result line shown after an action.
type banner struct {
	kind   bannerKind
	title  string
	detail string
}

// generationDoneMsg carries the result of a generation.
type generationDoneMsg struct {
	artifact *types.GeneratedArtifact
	err      error
}

// visualizationDoneMsg carries the result of a visualization run.
type visualizationDoneMsg struct {
	outcome *visualize.Outcome
	err     error
}

// progressMsg forwards a pipeline event to the UI.
type progressMsg struct {
	event *types.Event
}

// copyDoneMsg reports a clipboard write.
type copyDoneMsg struct {
	err error
}

func newModel(ctx context.Context, registry *codegen.Registry, newVisualizer VisualizerFactory) *model {
	openaiKey := textinput.New()
	openaiKey.Placeholder = "sk-... (or set OPENAI_API_KEY)"
	openaiKey.EchoMode = textinput.EchoPassword
	openaiKey.EchoCharacter = '•'
	openaiKey.Prompt = ""

	geminiKey := textinput.New()
	geminiKey.Placeholder = "AIza... (or set GEMINI_API_KEY)"
	geminiKey.EchoMode = textinput.EchoPassword
	geminiKey.EchoCharacter = '•'
	geminiKey.Prompt = ""

	query := textarea.New()
	query.Placeholder = codegen.ExampleQuery
	query.ShowLineNumbers = false
	query.CharLimit = 4000
	query.SetHeight(4)
	query.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = headerStyle

	m := &model{
		ctx:           ctx,
		openaiKey:     openaiKey,
		geminiKey:     geminiKey,
		query:         query,
		code:          viewport.New(80, 10),
		spinner:       s,
		providers:     []types.Provider{types.ProviderOpenAI, types.ProviderGemini},
		focus:         focusQuery,
		store:         codegen.NewStore(),
		newVisualizer: newVisualizer,
		copy:          clipboard.WriteAll,
		save:          config.SaveLLMSettings,
	}
	for i, p := range m.providers {
		if p == config.DefaultProvider() {
			m.providerIdx = i
		}
	}
	m.generator = codegen.NewGenerator(registry,
		codegen.WithStore(m.store),
		codegen.WithEventEmitter(m.emit),
	)
	m.code.SetContent(tipsStyle.Render("Generated code will appear here."))
	return m
}

// Init implements tea.Model.
func (m *model) Init() tea.Cmd {
	return textarea.Blink
}

// emit forwards pipeline events to the program. Events emitted before the
// program starts are dropped.
func (m *model) emit(ev *types.Event) {
	if m.send != nil {
		m.send(progressMsg{event: ev})
	}
}

func (m *model) provider() types.Provider {
	return m.providers[m.providerIdx]
}

func (m *model) setBanner(kind bannerKind, title, detail string) {
	m.banner = &banner{kind: kind, title: title, detail: detail}
}
