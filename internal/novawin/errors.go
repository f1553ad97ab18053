package novawin

import (
	"errors"
	"fmt"

	"github.com/tebeka/selenium"
)

var (
	// ErrNoSuchElement matches driver "no such element" responses.
	ErrNoSuchElement = errors.New("no such element")
	// ErrSessionClosed is returned by commands issued after Close.
	ErrSessionClosed = errors.New("session closed")
)

// CommandError wraps a failure reported by the remote driver.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrNoSuchElement) see through the WebDriver error.
func (e *CommandError) Is(target error) bool {
	if target != ErrNoSuchElement {
		return false
	}
	var se *selenium.Error
	if errors.As(e.Err, &se) {
		return se.Err == "no such element"
	}
	return false
}

// ValidationError reports an argument rejected before it reaches the driver.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
