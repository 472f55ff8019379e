package model

import (
	"errors"
	"fmt"
)

// ErrModelUnavailable is the cause attached to ModelUnavailable failures.
var ErrModelUnavailable = errors.New("model not loaded")

// FailureKind enumerates the ways a prediction request can fail.
type FailureKind int

const (
	FailureMalformedInput FailureKind = iota + 1
	FailureMissingField
	FailureInvalidValue
	FailureModelUnavailable
	FailureInternal
)

// String returns the snake_case name used in error responses and metrics.
func (k FailureKind) String() string {
	switch k {
	case FailureMalformedInput:
		return "malformed_input"
	case FailureMissingField:
		return "missing_field"
	case FailureInvalidValue:
		return "invalid_value"
	case FailureModelUnavailable:
		return "model_unavailable"
	case FailureInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// PredictionError is the terminal FAILED state of a prediction request.
type PredictionError struct {
	Err    error
	Field  string
	Reason string
	Kind   FailureKind
}

// NewMalformedInputError reports a request body that is not a field→value mapping.
func NewMalformedInputError(reason string) *PredictionError {
	return &PredictionError{Kind: FailureMalformedInput, Reason: reason}
}

// NewMissingFieldError reports a required field absent from the request.
func NewMissingFieldError(field string) *PredictionError {
	return &PredictionError{Kind: FailureMissingField, Field: field}
}

// NewInvalidValueError reports a field whose value is outside its domain.
func NewInvalidValueError(field, reason string) *PredictionError {
	return &PredictionError{Kind: FailureInvalidValue, Field: field, Reason: reason}
}

// NewModelUnavailableError reports that the scoring model was never loaded.
func NewModelUnavailableError() *PredictionError {
	return &PredictionError{Kind: FailureModelUnavailable, Err: ErrModelUnavailable}
}

// NewInternalError reports any other failure while scoring.
func NewInternalError(reason string, err error) *PredictionError {
	return &PredictionError{Kind: FailureInternal, Reason: reason, Err: err}
}

func (e *PredictionError) Error() string {
	switch e.Kind {
	case FailureMalformedInput:
		return fmt.Sprintf("malformed request: %s", e.Reason)
	case FailureMissingField:
		return fmt.Sprintf("missing field: %s", e.Field)
	case FailureInvalidValue:
		return fmt.Sprintf("invalid value for field %s: %s", e.Field, e.Reason)
	case FailureModelUnavailable:
		return ErrModelUnavailable.Error()
	default:
		if e.Err != nil {
			return fmt.Sprintf("internal error: %s: %v", e.Reason, e.Err)
		}
		return fmt.Sprintf("internal error: %s", e.Reason)
	}
}

func (e *PredictionError) Unwrap() error {
	return e.Err
}

// IsClientError reports whether the caller can fix the failure by changing the request.
func (e *PredictionError) IsClientError() bool {
	switch e.Kind {
	case FailureMalformedInput, FailureMissingField, FailureInvalidValue:
		return true
	default:
		return false
	}
}

// AsPredictionError extracts a *PredictionError from err. Errors of any other
// type are classified as internal failures.
func AsPredictionError(err error) *PredictionError {
	var pe *PredictionError
	if errors.As(err, &pe) {
		return pe
	}
	return NewInternalError("unexpected failure", err)
}
