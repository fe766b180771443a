package reconcile

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration marks a run aborted before any external call.
	ErrConfiguration = errors.New("configuration error")

	// ErrSourceFormat marks a run aborted because the source could not be read.
	ErrSourceFormat = errors.New("source format error")
)

// ConfigurationError reports a missing handle, an empty required input or an invalid option.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}

// Is maps the error to ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// SourceFormatError wraps a header mismatch, a missing sheet or file, or an unreadable source.
type SourceFormatError struct {
	Path string
	Err  error
}

func (e *SourceFormatError) Error() string {
	return fmt.Sprintf("source format error: %s: %v", e.Path, e.Err)
}

// Is maps the error to ErrSourceFormat.
func (e *SourceFormatError) Is(target error) bool {
	return target == ErrSourceFormat
}

// Unwrap returns the underlying reader error.
func (e *SourceFormatError) Unwrap() error {
	return e.Err
}
