package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// ValidationError is a client-side form check failure tied to a single field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// InvalidRangeError is returned when a date range ends on or before its start.
type InvalidRangeError struct {
	Start string
	End   string
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("end date %s must be after start date %s", e.End, e.Start)
}

// InvalidTransitionError rejects a booking or inquiry state change before
// anything is written to the store.
type InvalidTransitionError struct {
	Entity string
	From   string
	Action string
	Reason string
}

func (e *InvalidTransitionError) Error() string {
	msg := fmt.Sprintf("cannot %s %s in state %q", e.Action, e.Entity, e.From)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// RemoteOperationError wraps any failed store, storage or auth backend call.
// Callers do not distinguish network, permission or conflict failures.
type RemoteOperationError struct {
	Op  string
	Err error
}

func (e *RemoteOperationError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *RemoteOperationError) Unwrap() error {
	return e.Err
}

// Remote wraps err as a RemoteOperationError unless it is nil or already one
// of the domain errors that carry their own meaning.
func Remote(op string, err error) error {
	if err == nil {
		return nil
	}
	var ve *ValidationError
	var te *InvalidTransitionError
	var re *RemoteOperationError
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrUnauthorized), errors.Is(err, ErrForbidden):
		return err
	case errors.As(err, &ve), errors.As(err, &te), errors.As(err, &re):
		return err
	}
	return &RemoteOperationError{Op: op, Err: err}
}
