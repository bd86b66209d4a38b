package visualize

import (
	"context"
	"errors"
	"sync"

	"github.com/entrhq/pyforge/pkg/tools/browser"
)

// stubPage satisfies browser.Page; scripted runners never touch it.
type stubPage struct{}

func (stubPage) Goto(string, browser.NavigateOptions) error { return nil }
func (stubPage) Click(browser.ClickOptions) error           { return nil }
func (stubPage) Fill(browser.FillOptions) error             { return nil }
func (stubPage) Press(string, string) error                 { return nil }
func (stubPage) InsertText(string, string) error            { return nil }
func (stubPage) WaitForSelector(browser.WaitOptions) error  { return nil }
func (stubPage) Evaluate(string) (interface{}, error)       { return nil, nil }
func (stubPage) Content() (string, error)                   { return "<html></html>", nil }
func (stubPage) InnerText(string) (string, error)           { return "", nil }
func (stubPage) Screenshot(string) error                    { return nil }
func (stubPage) Title() (string, error)                     { return "Trinket", nil }
func (stubPage) URL() string                                { return "https://trinket.io/features/pygame" }

// fakeLauncher counts launches and closes of everything it hands out.
type fakeLauncher struct {
	mu sync.Mutex

	launchErr  error
	contextErr error

	launches      int
	launchOpts    []browser.LaunchOptions
	browserCloses int
	contextCloses int
}

func (l *fakeLauncher) Launch(ctx context.Context, opts browser.LaunchOptions) (browser.Browser, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.launches++
	l.launchOpts = append(l.launchOpts, opts)
	if l.launchErr != nil {
		return nil, l.launchErr
	}
	return &fakeBrowser{l: l}, nil
}

type fakeBrowser struct{ l *fakeLauncher }

func (b *fakeBrowser) NewContext() (browser.Context, error) {
	if b.l.contextErr != nil {
		return nil, b.l.contextErr
	}
	return &fakeContext{l: b.l}, nil
}

func (b *fakeBrowser) Close() error {
	b.l.mu.Lock()
	defer b.l.mu.Unlock()
	b.l.browserCloses++
	return nil
}

type fakeContext struct{ l *fakeLauncher }

func (c *fakeContext) Page() browser.Page { return stubPage{} }

func (c *fakeContext) Close() error {
	c.l.mu.Lock()
	defer c.l.mu.Unlock()
	c.l.contextCloses++
	return errors.New("context already gone")
}

// scriptedRunners builds runners that record their order and fail for the
// roles in failures.
type scriptedRunners struct {
	mu       sync.Mutex
	order    []string
	tasks    []Task
	failures map[string]error
	block    bool
}

func (s *scriptedRunners) factory(task Task) (Runner, error) {
	s.mu.Lock()
	s.tasks = append(s.tasks, task)
	s.mu.Unlock()
	return runnerFunc(func(ctx context.Context) (string, error) {
		s.mu.Lock()
		s.order = append(s.order, string(task.Role))
		err := s.failures[string(task.Role)]
		s.mu.Unlock()

		if s.block {
			<-ctx.Done()
			return "", ctx.Err()
		}
		if err != nil {
			return "", err
		}
		return string(task.Role) + " done", nil
	}), nil
}

type runnerFunc func(ctx context.Context) (string, error)

func (f runnerFunc) Run(ctx context.Context) (string, error) { return f(ctx) }
