package types

// AgentRole identifies one of the fixed browser automation steps.
type AgentRole string

const (
	RoleNavigator AgentRole = "navigator" // RoleNavigator opens the editor page.
	RoleCoder     AgentRole = "coder"     // RoleCoder puts the code into the editor.
	RoleExecutor  AgentRole = "executor"  // RoleExecutor presses the run control.
	RoleViewer    AgentRole = "viewer"    // RoleViewer watches the running output.
)

// AgentRoles returns the roles in the order they must run.
func AgentRoles() []AgentRole {
	return []AgentRole{RoleNavigator, RoleCoder, RoleExecutor, RoleViewer}
}

// Title returns the capitalized role name used in agent instructions.
func (r AgentRole) Title() string {
	switch r {
	case RoleNavigator:
		return "Navigator"
	case RoleCoder:
		return "Coder"
	case RoleExecutor:
		return "Executor"
	case RoleViewer:
		return "Viewer"
	default:
		return string(r)
	}
}
