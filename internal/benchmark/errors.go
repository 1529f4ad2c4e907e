package benchmark

import (
	"errors"
	"fmt"

	"jsonbench/internal/adapter"
)

// ErrInvalidCase is returned for cases that are not well formed.
var ErrInvalidCase = errors.New("invalid case")

// ParseError is an engine failure while parsing or navigating.
type ParseError struct {
	Adapter   string
	Mode      adapter.Mode
	Iteration int64
	Err       error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s %s failed at iteration %d: %v", e.Adapter, e.Mode, e.Iteration, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// MismatchError is a value that differs from the expected value.
type MismatchError struct {
	Target    string
	Got       adapter.Scalar
	Want      adapter.Scalar
	Rule      Rule
	Iteration int64
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s: got %s (%s), want %s (%s) under %s rule at iteration %d",
		e.Target, e.Got, e.Got.Kind, e.Want, e.Want.Kind, e.Rule, e.Iteration)
}

// atIteration records where err happened. Errors that are not already typed
// become ParseErrors.
func atIteration(err error, c *Case, i int64) error {
	var mm *MismatchError
	if errors.As(err, &mm) {
		mm.Iteration = i
		return mm
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		pe.Iteration = i
		return pe
	}
	return &ParseError{Adapter: c.AdapterName(), Mode: c.Mode, Iteration: i, Err: err}
}
