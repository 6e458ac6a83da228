// Package errdefs holds the error kinds shared across kenburns packages.
// Callers match them with errors.Is against the sentinels and unpack the
// typed values with errors.As.
package errdefs

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks malformed geometry or timing, caught before any
	// filter graph is built.
	ErrValidation = errors.New("validation error")
	// ErrConfiguration marks unparseable user input such as a bad size or an
	// unknown enumeration name.
	ErrConfiguration = errors.New("configuration error")
	// ErrExternalProcess marks a failed ffmpeg run.
	ErrExternalProcess = errors.New("external process error")
)

// ValidationError describes a value that violates a construction invariant.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid: " + e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Invalid is a shorthand for building a *ValidationError.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// ConfigurationError reports a configuration key whose value cannot be used.
type ConfigurationError struct {
	Key    string
	Value  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("config %s: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("config %s=%q: %s", e.Key, e.Value, e.Reason)
}

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// Misconfigured is a shorthand for building a *ConfigurationError.
func Misconfigured(key, value, format string, args ...any) error {
	return &ConfigurationError{Key: key, Value: value, Reason: fmt.Sprintf(format, args...)}
}
