// Package errs holds the error values shared by the road finders.
package errs

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is matched by every configuration error returned from a
// finder constructor. A finder that failed construction must not be used.
var ErrInvalidConfig = errors.New("invalid road finder configuration")

// ConfigError describes one rejected configuration field.
type ConfigError struct {
	Component string
	Field     string
	Reason    string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Component, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", e.Component, e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidConfig) hold for any ConfigError.
func (e *ConfigError) Is(target error) bool { return target == ErrInvalidConfig }

// Invalid builds a ConfigError with a formatted reason.
func Invalid(component, field, format string, args ...interface{}) error {
	return &ConfigError{Component: component, Field: field, Reason: fmt.Sprintf(format, args...)}
}
