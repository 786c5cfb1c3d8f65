package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidParameter is returned when a configuration value lies outside its domain.
var ErrInvalidParameter = errors.New("invalid parameter")

// ErrNumericAnomaly is returned in strict mode when an invariant check triggers.
var ErrNumericAnomaly = errors.New("numeric anomaly")

// ParameterError represents a single parameter validation failure.
type ParameterError struct {
	Field  string // Parameter name, as in the scenario file
	Reason string // Human-readable reason for failure
	Value  any    // The rejected value
}

func (e *ParameterError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("parameter %q: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("parameter %q: %s (got %v)", e.Field, e.Reason, e.Value)
}

// Is makes every ParameterError match ErrInvalidParameter.
func (e *ParameterError) Is(target error) bool {
	return target == ErrInvalidParameter
}

// ValidationError aggregates every parameter failure of a configuration.
type ValidationError struct {
	Errors []*ParameterError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d invalid parameters:\n", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e *ValidationError) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, err := range e.Errors {
		errs[i] = err
	}
	return errs
}

// Fields returns the names of the rejected parameters in order.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		out[i] = err.Field
	}
	return out
}

// ParameterErrors returns the individual failures if err is (or wraps) a
// ValidationError. Otherwise returns nil.
func ParameterErrors(err error) []*ParameterError {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Errors
	}
	return nil
}

// AnomalyError aborts a strict run on the first anomaly.
type AnomalyError struct {
	Anomaly Anomaly
}

func (e *AnomalyError) Error() string {
	return fmt.Sprintf("%s: %s", ErrNumericAnomaly, e.Anomaly)
}

func (e *AnomalyError) Unwrap() error {
	return ErrNumericAnomaly
}
