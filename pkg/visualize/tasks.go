package visualize

import (
	"fmt"
	"strings"

	"github.com/entrhq/pyforge/pkg/agent/tools"
	"github.com/entrhq/pyforge/pkg/config"
	"github.com/entrhq/pyforge/pkg/tools/browser"
	"github.com/entrhq/pyforge/pkg/types"
)

// CoderWaitSeconds is how long the Coder waits for the user in wait mode.
const CoderWaitSeconds = 10

// Task is one fixed automation step: a role, its instruction and the tools
// bound to the shared page.
type Task struct {
	Role        types.AgentRole
	Instruction string
	Tools       []tools.Tool
}

// Instruction returns the task text for role.
func Instruction(role types.AgentRole, settings config.BrowserSettings, code string) string {
	switch role {
	case types.RoleNavigator:
		return fmt.Sprintf("Go to %s, that's your only job.", settings.EditorURL)
	case types.RoleCoder:
		if settings.CoderMode == config.CoderModeWait {
			return fmt.Sprintf("Coder. Your job is to wait for the user for %d seconds to write the code in the code editor.", CoderWaitSeconds)
		}
		lines := strings.Count(code, "\n") + 1
		return fmt.Sprintf("Coder. Your job is to put the generated pygame program (%d lines) into the code editor, "+
			"replacing whatever it contains. Find the editor's editable element, then call browser_type_code with its selector. "+
			"The program text is supplied by the tool. Do not run the program.", lines)
	case types.RoleExecutor:
		return "Executor. Execute the code written by the User by clicking on the run button on the right."
	case types.RoleViewer:
		return fmt.Sprintf("Viewer. Your job is to just view the pygame window for %d seconds, "+
			"then describe what the output shows.", settings.ObserveSeconds)
	default:
		return ""
	}
}

// buildTasks returns the four steps in run order, all bound to page.
func buildTasks(page browser.Page, settings config.BrowserSettings, allowlist *browser.URLAllowlist, code, screenshotDir string) []Task {
	tasks := make([]Task, 0, len(types.AgentRoles()))
	for _, role := range types.AgentRoles() {
		cfg := browser.ToolConfig{Allowlist: allowlist, ScreenshotDir: screenshotDir}
		if role == types.RoleCoder && settings.CoderMode != config.CoderModeWait {
			cfg.Code = code
		}
		tasks = append(tasks, Task{
			Role:        role,
			Instruction: Instruction(role, settings, code),
			Tools:       browser.Tools(page, cfg),
		})
	}
	return tasks
}
