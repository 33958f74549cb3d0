package kinematics

import (
	"errors"
	"fmt"
)

// Configuration errors raised while building bodies.
var (
	// ErrNonPositivePeriod indicates an orbital or rotation period that is zero, negative or not finite.
	ErrNonPositivePeriod = errors.New("kinematics: period must be positive and finite")

	// ErrEmptyName indicates a body descriptor without a name.
	ErrEmptyName = errors.New("kinematics: body name is empty")

	// ErrDuplicateBody indicates two descriptors sharing a name.
	ErrDuplicateBody = errors.New("kinematics: duplicate body name")
)

// ConfigurationError reports which body and field failed validation.
type ConfigurationError struct {
	Body    string
	Field   string
	Value   float64
	Wrapped error
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("body %q: %v", e.Body, e.Wrapped)
	}
	return fmt.Sprintf("body %q: %s = %g: %v", e.Body, e.Field, e.Value, e.Wrapped)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Wrapped
}
