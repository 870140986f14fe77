package strategy

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by lookups that do not reach a stored value.
var ErrNotFound = errors.New("strategy not found")

// ParseError reports a table source that is not well-formed JSON.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("parse strategy table: %v", e.Err)
	}
	return fmt.Sprintf("parse strategy table at %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError reports a structural violation at a specific table path,
// e.g. "2/10/SB/VsOpen/BTN".
type ValidationError struct {
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid strategy table at %s: %s", e.Path, e.Reason)
}

func invalid(at path, format string, args ...any) error {
	return &ValidationError{Path: at.String(), Reason: fmt.Sprintf(format, args...)}
}

func notFound(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}
