package llm

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrIncompleteResponse is returned when a reply ended before the model
// finished it, either because the stream was cut or the output hit a limit.
var ErrIncompleteResponse = errors.New("incomplete response")

// APIError is returned when a provider API answers with a non-200 status.
type APIError struct {
	Provider   string
	StatusCode int
	Body       string

	// Auth is set by providers that report rejected credentials with a
	// status other than 401/403.
	Auth bool
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API request failed with status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// IsAuthFailure reports whether the credentials were rejected.
func (e *APIError) IsAuthFailure() bool {
	return e.Auth || e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}
