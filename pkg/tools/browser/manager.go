package browser

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/playwright-community/playwright-go"
)

// PlaywrightLauncher starts Chromium through Playwright. The driver is
// installed and started lazily on the first Launch and shared by every
// browser it launches until Shutdown.
type PlaywrightLauncher struct {
	mu          sync.Mutex
	playwright  *playwright.Playwright
	initialized bool
}

// NewPlaywrightLauncher creates a launcher. No process is started until
// Launch is called.
func NewPlaywrightLauncher() *PlaywrightLauncher {
	return &PlaywrightLauncher{}
}

// Initialize installs the Playwright driver and browsers if needed and
// starts the driver. It is safe to call more than once.
func (l *PlaywrightLauncher) Initialize() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.initLocked()
}

func (l *PlaywrightLauncher) initLocked() error {
	if l.initialized {
		return nil
	}

	// Driver output would corrupt the TUI.
	opts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}

	if err := playwright.Install(opts); err != nil {
		return fmt.Errorf("failed to install playwright: %w", err)
	}

	pw, err := playwright.Run(opts)
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	l.playwright = pw
	l.initialized = true
	return nil
}

// Launch starts a Chromium process.
func (l *PlaywrightLauncher) Launch(ctx context.Context, opts LaunchOptions) (Browser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.initLocked(); err != nil {
		return nil, err
	}

	if opts.Viewport == nil {
		opts.Viewport = &Viewport{Width: DefaultViewportWidth, Height: DefaultViewportHeight}
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}

	b, err := l.playwright.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	return &playwrightBrowser{browser: b, opts: opts}, nil
}

// Shutdown stops the Playwright driver. Browsers must be closed first.
func (l *PlaywrightLauncher) Shutdown() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.initialized || l.playwright == nil {
		return nil
	}
	if err := l.playwright.Stop(); err != nil {
		return fmt.Errorf("failed to stop playwright: %w", err)
	}
	l.initialized = false
	l.playwright = nil
	return nil
}

type playwrightBrowser struct {
	browser playwright.Browser
	opts    LaunchOptions
}

func (b *playwrightBrowser) NewContext() (Context, error) {
	bc, err := b.browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  b.opts.Viewport.Width,
			Height: b.opts.Viewport.Height,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := bc.NewPage()
	if err != nil {
		_ = bc.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	page.SetDefaultTimeout(b.opts.Timeout)

	return newSession(bc, page), nil
}

func (b *playwrightBrowser) Close() error {
	if err := b.browser.Close(); err != nil {
		return fmt.Errorf("failed to close browser: %w", err)
	}
	return nil
}
