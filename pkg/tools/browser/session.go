package browser

import (
	"fmt"
	"sync"

	"github.com/playwright-community/playwright-go"
)

// Session is a Playwright browser context with its single page. It
// implements both Context and Page.
type Session struct {
	context   playwright.BrowserContext
	page      playwright.Page
	closeOnce sync.Once
	closeErr  error
}

func newSession(bc playwright.BrowserContext, page playwright.Page) *Session {
	return &Session{context: bc, page: page}
}

// Page returns the session itself.
func (s *Session) Page() Page {
	return s
}

// Close closes the page and its context. Later calls return the first result.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		_ = s.page.Close()
		if err := s.context.Close(); err != nil {
			s.closeErr = fmt.Errorf("failed to close context: %w", err)
		}
	})
	return s.closeErr
}

// Goto navigates the page to url.
func (s *Session) Goto(url string, opts NavigateOptions) error {
	gotoOpts := playwright.PageGotoOptions{}
	if opts.WaitUntil != "" {
		waitUntil := playwright.WaitUntilState(opts.WaitUntil)
		gotoOpts.WaitUntil = &waitUntil
	}
	if opts.Timeout > 0 {
		gotoOpts.Timeout = playwright.Float(opts.Timeout)
	}

	if _, err := s.page.Goto(url, gotoOpts); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

// Click clicks the element matching opts.Selector.
func (s *Session) Click(opts ClickOptions) error {
	clickOpts := playwright.PageClickOptions{}
	if opts.Button != "" {
		button := playwright.MouseButton(opts.Button)
		clickOpts.Button = &button
	}
	if opts.ClickCount > 0 {
		clickOpts.ClickCount = playwright.Int(opts.ClickCount)
	}
	if opts.Timeout > 0 {
		clickOpts.Timeout = playwright.Float(opts.Timeout)
	}

	if err := s.page.Click(opts.Selector, clickOpts); err != nil {
		return fmt.Errorf("click failed: %w", err)
	}
	return nil
}

// Fill sets the value of an input element.
func (s *Session) Fill(opts FillOptions) error {
	fillOpts := playwright.PageFillOptions{}
	if opts.Timeout > 0 {
		fillOpts.Timeout = playwright.Float(opts.Timeout)
	}
	if err := s.page.Fill(opts.Selector, opts.Value, fillOpts); err != nil {
		return fmt.Errorf("fill failed: %w", err)
	}
	return nil
}

// Press focuses selector (when given) and presses a key combination such as
// "Enter" or "Control+Enter".
func (s *Session) Press(selector, key string) error {
	if selector != "" {
		if err := s.page.Press(selector, key); err != nil {
			return fmt.Errorf("key press failed: %w", err)
		}
		return nil
	}
	if err := s.page.Keyboard().Press(key); err != nil {
		return fmt.Errorf("key press failed: %w", err)
	}
	return nil
}

// InsertText clicks selector, selects and deletes its contents and inserts
// text in one input event.
func (s *Session) InsertText(selector, text string) error {
	if err := s.page.Click(selector); err != nil {
		return fmt.Errorf("failed to focus editor: %w", err)
	}
	kb := s.page.Keyboard()
	if err := kb.Press("ControlOrMeta+A"); err != nil {
		return fmt.Errorf("failed to select editor contents: %w", err)
	}
	if err := kb.Press("Delete"); err != nil {
		return fmt.Errorf("failed to clear editor: %w", err)
	}
	if err := kb.InsertText(text); err != nil {
		return fmt.Errorf("failed to insert text: %w", err)
	}
	return nil
}

// WaitForSelector waits for an element to reach opts.State.
func (s *Session) WaitForSelector(opts WaitOptions) error {
	if opts.Selector == "" {
		return fmt.Errorf("selector is required for wait")
	}

	waitOpts := playwright.PageWaitForSelectorOptions{}
	if opts.State != "" {
		state := playwright.WaitForSelectorState(opts.State)
		waitOpts.State = &state
	}
	if opts.Timeout > 0 {
		waitOpts.Timeout = playwright.Float(opts.Timeout)
	}

	if _, err := s.page.WaitForSelector(opts.Selector, waitOpts); err != nil {
		return fmt.Errorf("wait failed: %w", err)
	}
	return nil
}

// Evaluate runs a JavaScript expression in the page.
func (s *Session) Evaluate(expression string) (interface{}, error) {
	result, err := s.page.Evaluate(expression)
	if err != nil {
		return nil, fmt.Errorf("JavaScript execution failed: %w", err)
	}
	return result, nil
}

// Content returns the page HTML.
func (s *Session) Content() (string, error) {
	return s.page.Content()
}

// InnerText returns the rendered text of the element matching selector.
func (s *Session) InnerText(selector string) (string, error) {
	return s.page.InnerText(selector)
}

// Screenshot saves the viewport as a PNG at path.
func (s *Session) Screenshot(path string) error {
	if _, err := s.page.Screenshot(playwright.PageScreenshotOptions{Path: playwright.String(path)}); err != nil {
		return fmt.Errorf("screenshot failed: %w", err)
	}
	return nil
}

// Title returns the page title.
func (s *Session) Title() (string, error) {
	return s.page.Title()
}

// URL returns the current page URL.
func (s *Session) URL() string {
	return s.page.URL()
}
