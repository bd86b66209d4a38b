package codegen

// DefaultSystemPrompt instructs the model to answer with bare pygame source.
const DefaultSystemPrompt = "You are a Pygame and Python Expert that specializes in making games and " +
	"visualisation through pygame and python programming. Generate complete, working Python pygame " +
	"code for the user's request. Return ONLY the Python code without any explanations or markdown backticks."

// ExampleQuery is shown as a placeholder in the query inputs.
const ExampleQuery = "Create a particle system simulation where 100 particles emit from the mouse " +
	"position and respond to keyboard-controlled wind forces"

// geminiPrompt folds the system instruction and the query into the single
// prompt sent to single-turn generation endpoints.
func geminiPrompt(systemPrompt, userQuery string) string {
	return systemPrompt + "\n\nUser request: " + userQuery
}
