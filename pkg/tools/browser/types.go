package browser

import "context"

// Launcher starts browser processes.
type Launcher interface {
	Launch(ctx context.Context, opts LaunchOptions) (Browser, error)
}

// Browser is one running browser process.
type Browser interface {
	// NewContext opens an isolated context with a single page.
	NewContext() (Context, error)
	Close() error
}

// Context is an isolated browsing session (cookies, storage) with one page.
type Context interface {
	Page() Page
	Close() error
}

// Page is the set of page operations the agent tools use.
type Page interface {
	Goto(url string, opts NavigateOptions) error
	Click(opts ClickOptions) error
	Fill(opts FillOptions) error
	Press(selector, key string) error
	// InsertText focuses selector, clears it and inserts text verbatim
	// without simulating per-key input, so editors do not re-indent it.
	InsertText(selector, text string) error
	WaitForSelector(opts WaitOptions) error
	Evaluate(expression string) (interface{}, error)
	Content() (string, error)
	InnerText(selector string) (string, error)
	Screenshot(path string) error
	Title() (string, error)
	URL() string
}

// LaunchOptions configures a browser launch.
type LaunchOptions struct {
	// Headless hides the browser window.
	Headless bool

	// Viewport sets the page size of new contexts.
	Viewport *Viewport

	// Timeout is the default operation timeout in milliseconds.
	Timeout float64
}

// Viewport represents the browser viewport dimensions.
type Viewport struct {
	Width  int
	Height int
}

// NavigateOptions configures page navigation behavior.
type NavigateOptions struct {
	// WaitUntil is "load", "domcontentloaded" or "networkidle".
	WaitUntil string

	// Timeout in milliseconds (0 means default)
	Timeout float64
}

// ClickOptions configures element clicking behavior.
type ClickOptions struct {
	Selector string

	// Button is "left", "right" or "middle".
	Button string

	ClickCount int

	// Timeout in milliseconds
	Timeout float64
}

// FillOptions configures form input filling.
type FillOptions struct {
	Selector string
	Value    string

	// Timeout in milliseconds
	Timeout float64
}

// WaitOptions configures waiting for an element.
type WaitOptions struct {
	Selector string

	// State is "attached", "detached", "visible" or "hidden".
	State string

	// Timeout in milliseconds
	Timeout float64
}

// ExtractFormat specifies the format for content extraction.
type ExtractFormat string

const (
	// FormatHTML returns the cleaned element tree, keeping selectors.
	FormatHTML ExtractFormat = "html"

	// FormatText returns visible text only.
	FormatText ExtractFormat = "text"
)

// Default values for various operations
const (
	DefaultTimeout        = 30000.0
	DefaultMaxLength      = 12000
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 800
	MaxWaitSeconds        = 120
)
