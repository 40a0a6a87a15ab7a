package physics

import (
	"errors"
	"fmt"
)

// Domain errors for body and wall construction.
var (
	// ErrInvalidConfiguration indicates a non-positive mass, radius or wall extent.
	ErrInvalidConfiguration = errors.New("physics: invalid configuration")

	// ErrOutOfRange indicates an index lookup outside the body population.
	ErrOutOfRange = errors.New("physics: index out of range")
)

// ConfigError names the field that failed validation.
type ConfigError struct {
	Field   string
	Value   float64
	Wrapped error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v: %s must be positive, got %g", e.Wrapped, e.Field, e.Value)
}

func (e *ConfigError) Unwrap() error {
	return e.Wrapped
}

func invalid(field string, value float64) error {
	return &ConfigError{Field: field, Value: value, Wrapped: ErrInvalidConfiguration}
}
