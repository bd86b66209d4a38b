package visualize

import (
	"errors"
	"fmt"

	"github.com/entrhq/pyforge/pkg/types"
)

// ManualAdvice is shown with every failed run.
const ManualAdvice = "You can still copy the code and run it manually on Trinket"

// ErrNoArtifact is returned when a run is requested before any code exists.
var ErrNoArtifact = errors.New("generate code first: there is no code to visualize")

// AutomationError reports a failed browser setup or agent step. Role is empty
// when the browser could not be prepared.
type AutomationError struct {
	Err  error
	Role types.AgentRole
}

func (e *AutomationError) Error() string {
	if e.Role == "" {
		return fmt.Sprintf("browser setup failed: %v", e.Err)
	}
	return fmt.Sprintf("%s step failed: %v", e.Role.Title(), e.Err)
}

func (e *AutomationError) Unwrap() error {
	return e.Err
}
