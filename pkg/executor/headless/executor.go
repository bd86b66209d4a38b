package headless

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/entrhq/pyforge/pkg/codegen"
	"github.com/entrhq/pyforge/pkg/logging"
	"github.com/entrhq/pyforge/pkg/types"
	"github.com/entrhq/pyforge/pkg/visualize"
)

var runLog = logging.MustLogger("headless")

const (
	statusSuccess        = "success"
	statusFailed         = "failed"
	statusPartialSuccess = "partial_success"
)

// Visualizer runs generated code in the browser.
type Visualizer interface {
	Run(ctx context.Context, code string) (*visualize.Outcome, error)
}

// VisualizerFactory creates the visualizer for a run. emit receives the
// agents' progress events.
type VisualizerFactory func(emit types.EventEmitter) (Visualizer, error)

// Executor runs generation, checks and optional visualization without user
// interaction.
type Executor struct {
	generator     *codegen.Generator
	newVisualizer VisualizerFactory
	config        *Config
	provider      types.Provider
	logger        *Logger
	writer        *ArtifactWriter
	checks        *CheckRunner
	now           func() time.Time

	summary *ExecutionSummary
}

// Option configures an Executor.
type Option func(*Executor)

// WithVisualizer sets how the browser run is created. Without it a config
// with Visualize set fails validation in NewExecutor.
func WithVisualizer(f VisualizerFactory) Option {
	return func(e *Executor) {
		e.newVisualizer = f
	}
}

// WithLogger replaces the console logger.
func WithLogger(l *Logger) Option {
	return func(e *Executor) {
		e.logger = l
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Executor) {
		e.now = now
	}
}

// NewExecutor validates config and creates an executor generating through
// registry.
func NewExecutor(registry *codegen.Registry, config *Config, opts ...Option) (*Executor, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	provider, err := config.ProviderID()
	if err != nil {
		return nil, err
	}

	e := &Executor{
		config:   config,
		provider: provider,
		writer:   NewArtifactWriter(config.OutputDir),
		checks:   NewCheckRunner(CreateChecks(config.Checks)),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = NewLogger(ParseLogLevel(config.Logging.Verbosity))
	}
	if config.Visualize && e.newVisualizer == nil {
		return nil, errors.New("visualize is enabled but no visualizer is configured")
	}

	e.generator = codegen.NewGenerator(registry, codegen.WithEventEmitter(e.handleEvent), codegen.WithClock(e.now))
	e.summary = &ExecutionSummary{
		Query:    config.Query,
		Provider: provider,
		Status:   "running",
	}
	return e, nil
}

// Summary returns the run summary. It is complete after Run returns.
func (e *Executor) Summary() *ExecutionSummary {
	return e.summary
}

// Run executes the headless run. It returns an error when no usable code
// was produced; a failed visualization of good code is a partial success
// and returns nil.
func (e *Executor) Run(ctx context.Context) error {
	e.summary.StartTime = e.now()
	e.logger.Header("pyforge headless")
	e.logger.Infof("Query: %s", e.config.Query)
	if path := runLog.LogPath(); path != "" {
		e.logger.Verbosef("Session log: %s", path)
	}
	runLog.Infof("headless run: provider=%s visualize=%t", e.config.Provider, e.config.Visualize)

	if e.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.Timeout)
		defer cancel()
	}

	artifact, err := e.generate(ctx)
	if err != nil {
		return e.fail(err)
	}

	if !e.config.Visualize {
		e.summary.Status = statusSuccess
		return e.finalize()
	}

	if err := e.visualize(ctx, artifact.NormalizedCode); err != nil {
		return e.fail(err)
	}
	return e.finalize()
}

// generate produces code and runs the checks, regenerating with the check
// output while retries remain.
func (e *Executor) generate(ctx context.Context) (*types.GeneratedArtifact, error) {
	e.logger.Section(fmt.Sprintf("Generating code with %s", e.provider.DisplayName()))

	query := e.config.Query
	maxAttempts := e.config.CheckMaxRetries + 1

	for attempt := 1; ; attempt++ {
		e.summary.Attempts = attempt

		artifact, err := e.generator.Generate(ctx, types.GenerationRequest{
			Provider:     e.provider,
			APIKey:       e.config.APIKey,
			SystemPrompt: codegen.DefaultSystemPrompt,
			UserQuery:    query,
		})
		if err != nil {
			return nil, err
		}
		e.recordArtifact(artifact)

		path, err := e.writer.WriteCode(artifact.NormalizedCode)
		if err != nil {
			return nil, err
		}
		e.summary.CodeFile = path
		e.logger.Successf("Wrote %s (%d lines)", path, e.summary.CodeLines)

		if e.checks.Len() == 0 {
			return artifact, nil
		}

		results := e.checks.RunAll(ctx, e.writer.Dir(), path)
		e.summary.CheckResults = results
		for _, r := range results.Results {
			e.logger.Check(r)
		}
		if results.AllPassed {
			return artifact, nil
		}
		if attempt >= maxAttempts {
			return nil, fmt.Errorf("checks failed after %d attempt(s):\n%s", attempt, results.FormatErrorMessage())
		}

		e.logger.Warningf("Checks failed, regenerating (attempt %d/%d)", attempt+1, maxAttempts)
		query = e.config.Query + results.FormatFeedback(attempt, e.config.CheckMaxRetries)
	}
}

func (e *Executor) recordArtifact(a *types.GeneratedArtifact) {
	e.summary.ArtifactID = a.ID
	e.summary.Model = a.Model
	e.summary.TokenCount = a.TokenCount
	e.summary.CodeLines = strings.Count(a.NormalizedCode, "\n") + 1
}

// visualize runs the browser agents. Only precondition errors are returned;
// an unsuccessful run marks the summary as a partial success.
func (e *Executor) visualize(ctx context.Context, code string) error {
	e.logger.Section("Visualizing on Trinket")

	viz, err := e.newVisualizer(e.handleEvent)
	if err != nil {
		return fmt.Errorf("failed to create visualizer: %w", err)
	}

	outcome, err := viz.Run(ctx, code)
	if err != nil {
		return err
	}

	vs := &VisualizationSummary{
		RunID:      outcome.RunID,
		Success:    outcome.Success,
		Reason:     outcome.Reason,
		FailedRole: outcome.FailedRole,
	}
	for _, step := range outcome.Steps {
		s := StepSummary{Role: step.Role, Summary: step.Summary, Duration: step.Duration}
		if step.Err != nil {
			s.Error = step.Err.Error()
		}
		vs.Steps = append(vs.Steps, s)
	}
	e.summary.Visualization = vs

	if outcome.Success {
		e.summary.Status = statusSuccess
		return nil
	}

	e.summary.Status = statusPartialSuccess
	e.summary.Error = outcome.Reason
	e.summary.Advice = outcome.Advice
	e.logger.Warningf("%s", outcome.Reason)
	e.logger.Infof("%s: %s", outcome.Advice, e.summary.CodeFile)
	return nil
}

// handleEvent renders progress events from generation and the agents.
// Generation and visualization run on the caller's goroutine, so events
// arrive sequentially.
func (e *Executor) handleEvent(ev *types.Event) {
	switch ev.Type {
	case types.EventTypeGenerationStart:
		e.logger.Verbosef("Requesting completion from %v", ev.Metadata["provider"])
	case types.EventTypeGenerationComplete:
		e.logger.Verbosef("Artifact %v from %v", ev.Metadata["artifact_id"], ev.Metadata["model"])
	case types.EventTypeStepStart:
		e.logger.Step(ev.Role.Title())
		e.logger.Verbosef("%s", ev.Content)
	case types.EventTypeStepComplete:
		e.logger.Successf("%s done: %s", ev.Role.Title(), ev.Content)
	case types.EventTypeStepFailed:
		e.logger.Errorf("%s failed: %v", ev.Role.Title(), ev.Error)
	case types.EventTypeToolCall:
		e.summary.ToolCallCount++
		e.logger.ToolCall(ev.Role, ev.ToolName, e.summary.ToolCallCount)
		e.logger.Debugf("%s input: %v", ev.ToolName, ev.ToolInput)
	case types.EventTypeToolResult:
		e.logger.Debugf("%s result: %s", ev.ToolName, ev.Content)
	case types.EventTypeToolResultError:
		e.logger.Verbosef("%s error: %v", ev.ToolName, ev.Error)
	case types.EventTypeThinking:
		e.logger.Debugf("%s thinking: %s", ev.Role.Title(), ev.Content)
	case types.EventTypeTokenUsage:
		if ev.TokenUsage != nil {
			e.summary.TokensUsed += ev.TokenUsage.TotalTokens
			e.logger.Debugf("%s tokens: %d prompt, %d completion", ev.Role.Title(), ev.TokenUsage.PromptTokens, ev.TokenUsage.CompletionTokens)
		}
	}
}

// finalize completes the summary and writes artifacts.
func (e *Executor) finalize() error {
	e.summary.EndTime = e.now()
	e.summary.Duration = e.summary.EndTime.Sub(e.summary.StartTime)

	if err := e.writer.WriteAll(e.summary); err != nil {
		e.logger.Warningf("failed to write artifacts: %v", err)
	} else {
		e.logger.Verbosef("Artifacts written to %s", e.writer.Dir())
	}

	e.logger.Summary(e.summary)
	runLog.Infof("headless run finished: status=%s duration=%s", e.summary.Status, e.summary.Duration)

	if e.summary.Status == statusFailed {
		return fmt.Errorf("execution failed: %s", e.summary.Error)
	}
	return nil
}

// fail marks the run as failed, writes what exists and returns err.
func (e *Executor) fail(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		err = fmt.Errorf("execution timeout exceeded: %w", err)
	}
	e.summary.Status = statusFailed
	e.summary.Error = err.Error()
	e.logger.Errorf("%v", err)
	_ = e.finalize()
	return err
}
