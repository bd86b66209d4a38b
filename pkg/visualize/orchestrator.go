// Package visualize runs generated pygame code on trinket.io by driving one
// browser through four agents in a fixed order: Navigator, Coder, Executor
// and Viewer. The first failure stops the run; the browser is always closed.
package visualize

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/entrhq/pyforge/pkg/agent"
	agentcontext "github.com/entrhq/pyforge/pkg/agent/context"
	"github.com/entrhq/pyforge/pkg/codegen"
	"github.com/entrhq/pyforge/pkg/config"
	"github.com/entrhq/pyforge/pkg/llm"
	"github.com/entrhq/pyforge/pkg/llm/tokenizer"
	"github.com/entrhq/pyforge/pkg/logging"
	"github.com/entrhq/pyforge/pkg/tools/browser"
	"github.com/entrhq/pyforge/pkg/types"
)

var visualizeLog = logging.MustLogger("visualize")

// Runner executes one automation step and returns its summary.
type Runner interface {
	Run(ctx context.Context) (string, error)
}

// AgentFactory creates the runner for a task.
type AgentFactory func(task Task) (Runner, error)

// LLMAgents returns a factory that runs every task as an agent.Agent on provider.
func LLMAgents(provider llm.Provider, opts ...agent.Option) AgentFactory {
	return func(task Task) (Runner, error) {
		return agent.New(task.Role, task.Instruction, provider, task.Tools, opts...)
	}
}

// Orchestrator runs visualization sequences. One Orchestrator may serve many
// runs, one at a time.
type Orchestrator struct {
	launcher      browser.Launcher
	newAgent      AgentFactory
	tokenizer     *tokenizer.Tokenizer
	emit          types.EventEmitter
	now           func() time.Time
	apiKey        string
	model         string
	screenshotDir string
	settings      config.BrowserSettings
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithSettings replaces the browser settings.
func WithSettings(s config.BrowserSettings) Option {
	return func(o *Orchestrator) {
		o.settings = s
	}
}

// WithModel selects the browser agent model.
func WithModel(model string) Option {
	return func(o *Orchestrator) {
		o.model = model
	}
}

// WithAgentFactory overrides how runners are created. By default agents run
// on an OpenAI provider built from the API key.
func WithAgentFactory(f AgentFactory) Option {
	return func(o *Orchestrator) {
		o.newAgent = f
	}
}

// WithEventEmitter sets the progress event sink.
func WithEventEmitter(emit types.EventEmitter) Option {
	return func(o *Orchestrator) {
		o.emit = emit
	}
}

// WithTokenizer enables token usage events from agents.
func WithTokenizer(t *tokenizer.Tokenizer) Option {
	return func(o *Orchestrator) {
		o.tokenizer = t
	}
}

// WithScreenshotDir lets agents save screenshots under dir.
func WithScreenshotDir(dir string) Option {
	return func(o *Orchestrator) {
		o.screenshotDir = dir
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
	}
}

// New creates an orchestrator. apiKey is the OpenAI key for the browser
// agents; it is checked on every Run before a browser is launched.
func New(launcher browser.Launcher, apiKey string, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		launcher: launcher,
		apiKey:   apiKey,
		settings: config.DefaultBrowserSettings(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Settings returns the browser settings in use.
func (o *Orchestrator) Settings() config.BrowserSettings {
	return o.settings
}

// Run executes the four steps against code.
//
// The returned error is non-nil only when a precondition fails: ErrNoArtifact
// for blank code, *codegen.AuthError for a missing key, or an invalid
// allowlist or provider configuration. Everything that happens in the
// browser is reported through the Outcome.
func (o *Orchestrator) Run(ctx context.Context, code string) (*Outcome, error) {
	if strings.TrimSpace(code) == "" {
		return nil, ErrNoArtifact
	}
	if strings.TrimSpace(o.apiKey) == "" {
		return nil, &codegen.AuthError{Provider: types.ProviderOpenAI, Missing: true}
	}

	allowlist, err := browser.NewURLAllowlist(o.settings.AllowedURLs)
	if err != nil {
		return nil, err
	}
	if err := allowlist.Check(o.settings.EditorURL); err != nil {
		return nil, fmt.Errorf("editor URL is not in the allowed URLs: %w", err)
	}

	newAgent, err := o.agentFactory()
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{RunID: uuid.NewString(), StartedAt: o.now()}
	visualizeLog.Infof("run %s: starting (%d lines of code)", outcome.RunID, strings.Count(code, "\n")+1)

	o.execute(ctx, outcome, newAgent, allowlist, code)

	outcome.Duration = o.now().Sub(outcome.StartedAt)
	if outcome.Success {
		visualizeLog.Infof("run %s: succeeded in %s", outcome.RunID, outcome.Duration)
		o.emit.Emit(types.NewRunCompleteEvent(nil))
	} else {
		visualizeLog.Warnf("run %s: %s", outcome.RunID, outcome.Reason)
		o.emit.Emit(types.NewRunCompleteEvent(outcome.Err))
	}
	return outcome, nil
}

func (o *Orchestrator) agentFactory() (AgentFactory, error) {
	if o.newAgent != nil {
		return o.newAgent, nil
	}

	provider, err := config.BuildBrowserProvider(o.apiKey, o.model)
	if err != nil {
		return nil, err
	}

	opts := []agent.Option{
		agent.WithMaxSteps(o.settings.MaxAgentSteps),
		agent.WithEventEmitter(o.emit),
		agent.WithContextManager(agentcontext.NewDefaultManager(o.tokenizer)),
	}
	if o.tokenizer != nil {
		opts = append(opts, agent.WithTokenizer(o.tokenizer))
	}
	return LLMAgents(provider, opts...), nil
}

// execute owns the browser for one run. Context and browser are released in
// reverse order on every path.
func (o *Orchestrator) execute(ctx context.Context, outcome *Outcome, newAgent AgentFactory, allowlist *browser.URLAllowlist, code string) {
	b, err := o.launcher.Launch(ctx, browser.LaunchOptions{
		Headless: o.settings.Headless,
		Viewport: &browser.Viewport{Width: o.settings.ViewportWidth, Height: o.settings.ViewportHeight},
	})
	if err != nil {
		outcome.fail(&AutomationError{Err: err})
		return
	}
	defer func() {
		if err := b.Close(); err != nil {
			visualizeLog.Warnf("run %s: %v", outcome.RunID, err)
		}
	}()

	bc, err := b.NewContext()
	if err != nil {
		outcome.fail(&AutomationError{Err: err})
		return
	}
	defer func() {
		if err := bc.Close(); err != nil {
			visualizeLog.Warnf("run %s: %v", outcome.RunID, err)
		}
	}()

	for _, task := range buildTasks(bc.Page(), o.settings, allowlist, code, o.screenshotDir) {
		step := o.runStep(ctx, newAgent, task)
		outcome.Steps = append(outcome.Steps, step)
		if step.Err != nil {
			outcome.fail(&AutomationError{Role: task.Role, Err: step.Err})
			return
		}
	}
	outcome.Success = true
}

func (o *Orchestrator) runStep(ctx context.Context, newAgent AgentFactory, task Task) (step StepResult) {
	step = StepResult{Role: task.Role, Instruction: task.Instruction}
	started := o.now()
	defer func() { step.Duration = o.now().Sub(started) }()

	o.emit.Emit(types.NewStepStartEvent(task.Role, task.Instruction))
	visualizeLog.Infof("%s: %s", task.Role.Title(), task.Instruction)

	runner, err := newAgent(task)
	if err != nil {
		step.Err = fmt.Errorf("failed to create agent: %w", err)
		o.emit.Emit(types.NewStepFailedEvent(task.Role, step.Err))
		return step
	}

	timeout := o.settings.StepTimeout
	if timeout <= 0 {
		timeout = config.DefaultStepTimeout
	}
	stepCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	summary, err := runner.Run(stepCtx)
	if err != nil {
		if stepCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
			err = fmt.Errorf("timed out after %s: %w", timeout, err)
		}
		step.Err = err
		o.emit.Emit(types.NewStepFailedEvent(task.Role, err))
		return step
	}

	step.Summary = summary
	o.emit.Emit(types.NewStepCompleteEvent(task.Role, summary))
	return step
}
