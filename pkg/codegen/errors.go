package codegen

import (
	"errors"
	"fmt"

	"github.com/entrhq/pyforge/pkg/types"
)

// ErrEmptyQuery is returned when a generation request carries no query text.
var ErrEmptyQuery = errors.New("please enter a query before generating code")

// AuthError reports a missing or rejected API key.
type AuthError struct {
	Err      error
	Provider types.Provider
	// Missing is true when no key was supplied at all, in which case no
	// request was sent.
	Missing bool
}

func (e *AuthError) Error() string {
	if e.Missing {
		return MissingKeyMessage(e.Provider)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s rejected the API key: %v", e.Provider.DisplayName(), e.Err)
	}
	return fmt.Sprintf("%s rejected the API key", e.Provider.DisplayName())
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// ProviderError reports a failed completion call or a response with no
// usable code.
type ProviderError struct {
	Err      error
	Provider types.Provider
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s code generation failed: %v", e.Provider.DisplayName(), e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// MissingKeyMessage is the user-facing prompt for a missing provider key.
func MissingKeyMessage(p types.Provider) string {
	return fmt.Sprintf("Please provide %s API key", p.DisplayName())
}

// IsAuthError reports whether err is or wraps an *AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}
