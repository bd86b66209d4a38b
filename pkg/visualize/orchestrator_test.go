package visualize

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/pyforge/pkg/codegen"
	"github.com/entrhq/pyforge/pkg/config"
	"github.com/entrhq/pyforge/pkg/types"
)

const testCode = "import pygame\npygame.init()"

func newTestOrchestrator(l *fakeLauncher, runners *scriptedRunners, opts ...Option) *Orchestrator {
	opts = append([]Option{WithAgentFactory(runners.factory)}, opts...)
	return New(l, "sk-test", opts...)
}

func TestRun_Success(t *testing.T) {
	l := &fakeLauncher{}
	runners := &scriptedRunners{}

	var events []*types.Event
	o := newTestOrchestrator(l, runners, WithEventEmitter(func(e *types.Event) { events = append(events, e) }))

	outcome, err := o.Run(context.Background(), testCode)
	require.NoError(t, err)

	assert.True(t, outcome.Success)
	assert.Empty(t, outcome.Reason)
	assert.Empty(t, outcome.Advice)
	assert.NotEmpty(t, outcome.RunID)
	assert.Equal(t, []string{"navigator", "coder", "executor", "viewer"}, runners.order)
	require.Len(t, outcome.Steps, 4)
	assert.Equal(t, "viewer done", outcome.Steps[3].Summary)

	assert.Equal(t, 1, l.launches)
	assert.Equal(t, 1, l.contextCloses)
	assert.Equal(t, 1, l.browserCloses)

	last := events[len(events)-1]
	assert.Equal(t, types.EventTypeRunComplete, last.Type)
	assert.Nil(t, last.Error)
}

func TestRun_FailureShortCircuitsAndClosesOnce(t *testing.T) {
	for _, role := range types.AgentRoles() {
		t.Run(string(role), func(t *testing.T) {
			l := &fakeLauncher{}
			runners := &scriptedRunners{failures: map[string]error{string(role): errors.New("no run button")}}

			outcome, err := newTestOrchestrator(l, runners).Run(context.Background(), testCode)
			require.NoError(t, err)

			assert.False(t, outcome.Success)
			assert.Equal(t, role, outcome.FailedRole)
			assert.Equal(t, ManualAdvice, outcome.Advice)
			assert.Contains(t, outcome.Reason, "no run button")
			assert.Contains(t, outcome.Reason, role.Title()+" step failed")

			var autoErr *AutomationError
			require.ErrorAs(t, outcome.Err, &autoErr)
			assert.Equal(t, role, autoErr.Role)

			// Steps after the failing one never run.
			want := []string{}
			for _, r := range types.AgentRoles() {
				want = append(want, string(r))
				if r == role {
					break
				}
			}
			assert.Equal(t, want, runners.order)
			assert.Len(t, outcome.Steps, len(want))

			assert.Equal(t, 1, l.contextCloses)
			assert.Equal(t, 1, l.browserCloses)
		})
	}
}

func TestRun_NavigatorFailureSkipsExecutor(t *testing.T) {
	l := &fakeLauncher{}
	runners := &scriptedRunners{failures: map[string]error{"navigator": errors.New("page did not load")}}

	outcome, err := newTestOrchestrator(l, runners).Run(context.Background(), testCode)
	require.NoError(t, err)
	assert.False(t, outcome.Success)
	assert.NotContains(t, runners.order, "executor")
}

func TestRun_Preconditions(t *testing.T) {
	t.Run("no code", func(t *testing.T) {
		l := &fakeLauncher{}
		_, err := newTestOrchestrator(l, &scriptedRunners{}).Run(context.Background(), "  \n")
		assert.ErrorIs(t, err, ErrNoArtifact)
		assert.Zero(t, l.launches)
	})

	t.Run("no key", func(t *testing.T) {
		l := &fakeLauncher{}
		runners := &scriptedRunners{}
		o := New(l, " ", WithAgentFactory(runners.factory))

		_, err := o.Run(context.Background(), testCode)
		var authErr *codegen.AuthError
		require.ErrorAs(t, err, &authErr)
		assert.True(t, authErr.Missing)
		assert.Equal(t, "Please provide OpenAI API key", err.Error())
		assert.Zero(t, l.launches)
		assert.Empty(t, runners.order)
	})

	t.Run("editor outside allowlist", func(t *testing.T) {
		l := &fakeLauncher{}
		settings := config.DefaultBrowserSettings()
		settings.EditorURL = "https://example.com/editor"

		_, err := newTestOrchestrator(l, &scriptedRunners{}, WithSettings(settings)).Run(context.Background(), testCode)
		assert.ErrorContains(t, err, "not in the allowed URLs")
		assert.Zero(t, l.launches)
	})
}

func TestRun_BrowserSetupFailures(t *testing.T) {
	t.Run("launch", func(t *testing.T) {
		l := &fakeLauncher{launchErr: errors.New("chromium missing")}
		runners := &scriptedRunners{}

		outcome, err := newTestOrchestrator(l, runners).Run(context.Background(), testCode)
		require.NoError(t, err)
		assert.False(t, outcome.Success)
		assert.Equal(t, "browser setup failed: chromium missing", outcome.Reason)
		assert.Equal(t, ManualAdvice, outcome.Advice)
		assert.Empty(t, runners.order)
		assert.Zero(t, l.browserCloses)
	})

	t.Run("context", func(t *testing.T) {
		l := &fakeLauncher{contextErr: errors.New("context refused")}

		outcome, err := newTestOrchestrator(l, &scriptedRunners{}).Run(context.Background(), testCode)
		require.NoError(t, err)
		assert.False(t, outcome.Success)
		assert.Equal(t, 1, l.browserCloses)
		assert.Zero(t, l.contextCloses)
	})
}

func TestRun_StepTimeout(t *testing.T) {
	l := &fakeLauncher{}
	runners := &scriptedRunners{block: true}
	settings := config.DefaultBrowserSettings()
	settings.StepTimeout = 20 * time.Millisecond

	outcome, err := newTestOrchestrator(l, runners, WithSettings(settings)).Run(context.Background(), testCode)
	require.NoError(t, err)
	assert.False(t, outcome.Success)
	assert.Equal(t, types.RoleNavigator, outcome.FailedRole)
	assert.Contains(t, outcome.Reason, "timed out")
	assert.ErrorIs(t, outcome.Err, context.DeadlineExceeded)
	assert.Equal(t, 1, l.contextCloses)
	assert.Equal(t, 1, l.browserCloses)
}

func TestRun_CallerCancellation(t *testing.T) {
	l := &fakeLauncher{}
	runners := &scriptedRunners{block: true}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcome, err := newTestOrchestrator(l, runners).Run(ctx, testCode)
	require.NoError(t, err)
	assert.False(t, outcome.Success)
	assert.ErrorIs(t, outcome.Err, context.Canceled)
	assert.Equal(t, 1, l.browserCloses)
}

func TestRun_LaunchOptionsFromSettings(t *testing.T) {
	l := &fakeLauncher{}
	settings := config.DefaultBrowserSettings()
	settings.Headless = true
	settings.ViewportWidth = 800
	settings.ViewportHeight = 600

	_, err := newTestOrchestrator(l, &scriptedRunners{}, WithSettings(settings)).Run(context.Background(), testCode)
	require.NoError(t, err)
	require.Len(t, l.launchOpts, 1)
	assert.True(t, l.launchOpts[0].Headless)
	assert.Equal(t, 800, l.launchOpts[0].Viewport.Width)
	assert.Equal(t, 600, l.launchOpts[0].Viewport.Height)
}

func TestTasks_CoderModes(t *testing.T) {
	toolNames := func(task Task) []string {
		var names []string
		for _, tool := range task.Tools {
			names = append(names, tool.Name())
		}
		return names
	}

	t.Run("type", func(t *testing.T) {
		runners := &scriptedRunners{}
		_, err := newTestOrchestrator(&fakeLauncher{}, runners).Run(context.Background(), testCode)
		require.NoError(t, err)
		require.Len(t, runners.tasks, 4)

		assert.Equal(t, "Go to https://trinket.io/features/pygame, that's your only job.", runners.tasks[0].Instruction)
		assert.Contains(t, runners.tasks[1].Instruction, "browser_type_code")
		assert.Contains(t, runners.tasks[1].Instruction, "(2 lines)")
		assert.Contains(t, toolNames(runners.tasks[1]), "browser_type_code")
		assert.NotContains(t, toolNames(runners.tasks[2]), "browser_type_code")
		assert.Equal(t, "Executor. Execute the code written by the User by clicking on the run button on the right.", runners.tasks[2].Instruction)
		assert.Contains(t, runners.tasks[3].Instruction, "view the pygame window for 10 seconds")
	})

	t.Run("wait", func(t *testing.T) {
		settings := config.DefaultBrowserSettings()
		settings.CoderMode = config.CoderModeWait
		runners := &scriptedRunners{}

		_, err := newTestOrchestrator(&fakeLauncher{}, runners, WithSettings(settings)).Run(context.Background(), testCode)
		require.NoError(t, err)
		assert.Equal(t, "Coder. Your job is to wait for the user for 10 seconds to write the code in the code editor.", runners.tasks[1].Instruction)
		assert.NotContains(t, toolNames(runners.tasks[1]), "browser_type_code")
	})
}
