package log

import (
	"errors"
	"fmt"
)

var (
	// ErrLogOutputRequired is returned when the log output is empty.
	ErrLogOutputRequired = errors.New("a log output is required")
	// ErrNegativeVerbosity is returned for a verbosity below zero.
	ErrNegativeVerbosity = errors.New("log verbosity must not be negative")
)

// FormatError reports an unsupported log format.
type FormatError struct {
	Format string
}

func (e FormatError) Error() string {
	return fmt.Sprintf("log format %q is invalid, use %s or %s", e.Format, FormatText, FormatJSON)
}
