package llm

import (
	"errors"
	"fmt"
)

// ProviderUnavailableError indicates a backend could not be reached at all:
// connection refused, DNS failure, or missing credentials.
type ProviderUnavailableError struct {
	Provider string
	Err      error
}

func (e *ProviderUnavailableError) Error() string {
	return fmt.Sprintf("provider %s unavailable: %v", e.Provider, e.Err)
}

func (e *ProviderUnavailableError) Unwrap() error {
	return e.Err
}

// ProviderError indicates the backend was reached but returned a
// non-success status.
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("provider %s error %d: %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("provider %s error: %s", e.Provider, e.Message)
}

// IsUnavailable reports whether err is a ProviderUnavailableError.
func IsUnavailable(err error) bool {
	var ue *ProviderUnavailableError
	return errors.As(err, &ue)
}
