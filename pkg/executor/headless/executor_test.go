package headless

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/pyforge/pkg/codegen"
	"github.com/entrhq/pyforge/pkg/types"
	"github.com/entrhq/pyforge/pkg/visualize"
)

type fakeCompleter struct {
	replies []string
	queries []string
	err     error
}

func (f *fakeCompleter) Complete(_ context.Context, _, userQuery string) (string, error) {
	f.queries = append(f.queries, userQuery)
	if f.err != nil {
		return "", f.err
	}
	reply := f.replies[0]
	if len(f.replies) > 1 {
		f.replies = f.replies[1:]
	}
	return reply, nil
}

func (f *fakeCompleter) Model() string { return "fake-model" }

func registryWith(c codegen.Completer) *codegen.Registry {
	r := codegen.NewRegistry()
	r.Register(types.ProviderOpenAI, func(string) (codegen.Completer, error) { return c, nil })
	return r
}

// fakeVisualizer replays events and returns a fixed outcome.
type fakeVisualizer struct {
	emit    types.EventEmitter
	outcome *visualize.Outcome
	err     error
	code    string
}

func (v *fakeVisualizer) Run(_ context.Context, code string) (*visualize.Outcome, error) {
	v.code = code
	if v.err != nil {
		return nil, v.err
	}
	for _, role := range types.AgentRoles() {
		v.emit.Emit(types.NewStepStartEvent(role, "do "+string(role)))
		v.emit.Emit(types.NewToolCallEvent(role, "browser_click", map[string]interface{}{"selector": "#run"}))
		v.emit.Emit(types.NewTokenUsageEvent(role, 100, 20))
		v.emit.Emit(types.NewStepCompleteEvent(role, string(role)+" ok"))
	}
	return v.outcome, nil
}

func testConfig(t *testing.T) *Config {
	cfg := DefaultConfig()
	cfg.Query = "bouncing ball"
	cfg.APIKey = "sk-test"
	cfg.OutputDir = filepath.Join(t.TempDir(), "out")
	cfg.Logging.Verbosity = "debug"
	return cfg
}

func newTestExecutor(t *testing.T, c codegen.Completer, cfg *Config, opts ...Option) (*Executor, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	opts = append([]Option{WithLogger(NewLoggerTo(LogLevelDebug, &out))}, opts...)
	e, err := NewExecutor(registryWith(c), cfg, opts...)
	require.NoError(t, err)
	return e, &out
}

func TestExecutor_GenerateOnly(t *testing.T) {
	cfg := testConfig(t)
	e, out := newTestExecutor(t, &fakeCompleter{replies: []string{"```python\nprint(1)\n```"}}, cfg)

	require.NoError(t, e.Run(context.Background()))

	code, err := os.ReadFile(filepath.Join(cfg.OutputDir, CodeFileName))
	require.NoError(t, err)
	assert.Equal(t, "print(1)\n", string(code))

	raw, err := os.ReadFile(filepath.Join(cfg.OutputDir, ArtifactFileName))
	require.NoError(t, err)
	var summary ExecutionSummary
	require.NoError(t, json.Unmarshal(raw, &summary))
	assert.Equal(t, statusSuccess, summary.Status)
	assert.Equal(t, "fake-model", summary.Model)
	assert.Equal(t, 1, summary.Attempts)
	assert.Nil(t, summary.Visualization)

	md, err := os.ReadFile(filepath.Join(cfg.OutputDir, SummaryFileName))
	require.NoError(t, err)
	assert.Contains(t, string(md), "**Query:** bouncing ball")
	assert.Contains(t, string(md), "✅ **Success**")

	assert.Contains(t, out.String(), "SUCCESS")
}

func TestExecutor_MissingKey(t *testing.T) {
	cfg := testConfig(t)
	cfg.APIKey = ""
	completer := &fakeCompleter{replies: []string{"print(1)"}}
	e, _ := newTestExecutor(t, completer, cfg)

	err := e.Run(context.Background())
	require.Error(t, err)
	assert.True(t, codegen.IsAuthError(err))
	assert.Equal(t, "Please provide OpenAI API key", err.Error())
	assert.Empty(t, completer.queries)

	assert.Equal(t, statusFailed, e.Summary().Status)
	_, statErr := os.Stat(filepath.Join(cfg.OutputDir, ArtifactFileName))
	assert.NoError(t, statErr, "failure summary should still be written")
	_, statErr = os.Stat(filepath.Join(cfg.OutputDir, CodeFileName))
	assert.True(t, os.IsNotExist(statErr))
}

func TestExecutor_ChecksRegenerateWithFeedback(t *testing.T) {
	cfg := testConfig(t)
	cfg.CheckMaxRetries = 1
	cfg.Checks = []CheckConfig{{Name: "has-pygame", Command: "grep -q pygame {file}", Required: true}}

	completer := &fakeCompleter{replies: []string{"print(1)", "import pygame"}}
	e, _ := newTestExecutor(t, completer, cfg)

	require.NoError(t, e.Run(context.Background()))
	require.Len(t, completer.queries, 2)
	assert.Equal(t, "bouncing ball", completer.queries[0])
	assert.Contains(t, completer.queries[1], "has-pygame")
	assert.Equal(t, 2, e.Summary().Attempts)
	assert.True(t, e.Summary().CheckResults.AllPassed)
}

func TestExecutor_ChecksExhausted(t *testing.T) {
	cfg := testConfig(t)
	cfg.Checks = []CheckConfig{{Name: "has-pygame", Command: "grep -q pygame {file}", Required: true}}

	e, _ := newTestExecutor(t, &fakeCompleter{replies: []string{"print(1)"}}, cfg)

	err := e.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checks failed after 1 attempt(s)")
	assert.Equal(t, statusFailed, e.Summary().Status)
}

func TestExecutor_Visualize(t *testing.T) {
	cfg := testConfig(t)
	cfg.Visualize = true

	viz := &fakeVisualizer{outcome: &visualize.Outcome{RunID: "run-1", Success: true}}
	for _, role := range types.AgentRoles() {
		viz.outcome.Steps = append(viz.outcome.Steps, visualize.StepResult{Role: role, Summary: "ok"})
	}

	e, out := newTestExecutor(t, &fakeCompleter{replies: []string{"```\nimport pygame\n```"}}, cfg,
		WithVisualizer(func(emit types.EventEmitter) (Visualizer, error) {
			viz.emit = emit
			return viz, nil
		}))

	require.NoError(t, e.Run(context.Background()))
	assert.Equal(t, "import pygame", viz.code)

	s := e.Summary()
	assert.Equal(t, statusSuccess, s.Status)
	assert.Equal(t, 4, s.ToolCallCount)
	assert.Equal(t, 480, s.TokensUsed)
	require.NotNil(t, s.Visualization)
	assert.Len(t, s.Visualization.Steps, 4)
	assert.Contains(t, out.String(), "Navigator done")
	assert.Contains(t, out.String(), "browser_click")
}

func TestExecutor_VisualizationFailureIsPartialSuccess(t *testing.T) {
	cfg := testConfig(t)
	cfg.Visualize = true

	stepErr := &visualize.AutomationError{Role: types.RoleExecutor, Err: errors.New("run button not found")}
	viz := &fakeVisualizer{outcome: &visualize.Outcome{
		Err:        stepErr,
		Reason:     stepErr.Error(),
		Advice:     visualize.ManualAdvice,
		FailedRole: types.RoleExecutor,
		Steps: []visualize.StepResult{
			{Role: types.RoleNavigator},
			{Role: types.RoleCoder},
			{Role: types.RoleExecutor, Err: stepErr.Err},
		},
	}}

	e, _ := newTestExecutor(t, &fakeCompleter{replies: []string{"import pygame"}}, cfg,
		WithVisualizer(func(emit types.EventEmitter) (Visualizer, error) {
			viz.emit = emit
			return viz, nil
		}))

	require.NoError(t, e.Run(context.Background()))

	s := e.Summary()
	assert.Equal(t, statusPartialSuccess, s.Status)
	assert.Equal(t, "Executor step failed: run button not found", s.Error)
	assert.Equal(t, visualize.ManualAdvice, s.Advice)
	assert.Equal(t, "run button not found", s.Visualization.Steps[2].Error)

	md, err := os.ReadFile(filepath.Join(cfg.OutputDir, SummaryFileName))
	require.NoError(t, err)
	assert.Contains(t, string(md), "You can still copy the code and run it manually on Trinket.")
	assert.Contains(t, string(md), "| Executor | ❌ |")
}

func TestExecutor_VisualizerPreconditionFails(t *testing.T) {
	cfg := testConfig(t)
	cfg.Visualize = true

	e, _ := newTestExecutor(t, &fakeCompleter{replies: []string{"import pygame"}}, cfg,
		WithVisualizer(func(emit types.EventEmitter) (Visualizer, error) {
			return &fakeVisualizer{err: &codegen.AuthError{Provider: types.ProviderOpenAI, Missing: true}}, nil
		}))

	err := e.Run(context.Background())
	assert.True(t, codegen.IsAuthError(err))
	assert.Equal(t, statusFailed, e.Summary().Status)
	// The generated code is kept.
	_, statErr := os.Stat(filepath.Join(cfg.OutputDir, CodeFileName))
	assert.NoError(t, statErr)
}

func TestNewExecutor_VisualizeNeedsVisualizer(t *testing.T) {
	cfg := testConfig(t)
	cfg.Visualize = true

	_, err := NewExecutor(registryWith(&fakeCompleter{}), cfg)
	assert.ErrorContains(t, err, "no visualizer")
}

func TestLogger_Levels(t *testing.T) {
	var out bytes.Buffer
	l := NewLoggerTo(LogLevelQuiet, &out)
	l.Infof("hidden")
	l.ToolCall(types.RoleCoder, "browser_type_code", 1)
	l.Warningf("shown")
	l.Summary(&ExecutionSummary{Status: statusFailed, Query: "q", Error: "boom", Duration: time.Second})

	s := out.String()
	assert.NotContains(t, s, "hidden")
	assert.NotContains(t, s, "browser_type_code")
	assert.Contains(t, s, "shown")
	assert.Contains(t, s, "FAILED")
	assert.True(t, strings.Contains(s, "boom"))

	assert.Equal(t, LogLevelVerbose, ParseLogLevel("verbose"))
	assert.Equal(t, LogLevelNormal, ParseLogLevel("unknown"))
	assert.Equal(t, "1,234,567", formatNumber(1234567))
}
