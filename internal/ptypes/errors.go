package ptypes

import (
	"errors"
	"fmt"
)

// Error pairs a Status with the operation that produced it, letting callers
// at the control-channel boundary recover the status code with errors.As
// while everything internal still wraps with fmt.Errorf("...: %w", err).
type Error struct {
	Status Status
	Op     string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

// NewError builds an *Error, wrapping an underlying cause when present.
func NewError(status Status, op string, cause error) *Error {
	return &Error{Status: status, Op: op, Err: cause}
}

// StatusOf unwraps err looking for an *Error and returns its Status, or
// StatusFailure if err is non-nil and carries no Status, or StatusSuccess
// if err is nil.
func StatusOf(err error) Status {
	if err == nil {
		return StatusSuccess
	}
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Status
	}
	return StatusFailure
}
