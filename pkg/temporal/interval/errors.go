package interval

import (
	"errors"
	"fmt"
)

// Error represents an interval-construction or -query error.
type Error struct {
	Code    string
	Message string
	Cause   error
}

// Error codes for interval operations.
const (
	ErrCodeInvalidTemporalSpec = "INVALID_TEMPORAL_SPEC"
	ErrCodeStartAfterEnd       = "START_AFTER_END"
	ErrCodeUndefinedDuration   = "UNDEFINED_DURATION"
)

func (e *Error) Error() string {
	return fmt.Sprintf("interval error %s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// ErrInvalidTemporalSpec is returned when neither a full span, a duration,
// nor at least one endpoint is supplied.
func ErrInvalidTemporalSpec(message string) *Error {
	return newError(ErrCodeInvalidTemporalSpec, message, nil)
}

// ErrStartAfterEnd is returned when start > end.
func ErrStartAfterEnd(message string) *Error {
	return newError(ErrCodeStartAfterEnd, message, nil)
}

// ErrUndefinedDuration is returned when a duration is requested for an
// open-ended interval.
func ErrUndefinedDuration(message string) *Error {
	return newError(ErrCodeUndefinedDuration, message, nil)
}

// IsInvalidTemporalSpec reports whether err is an INVALID_TEMPORAL_SPEC error.
func IsInvalidTemporalSpec(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeInvalidTemporalSpec
}

// IsUndefinedDuration reports whether err is an UNDEFINED_DURATION error.
func IsUndefinedDuration(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeUndefinedDuration
}

// IsStartAfterEnd reports whether err is a START_AFTER_END error.
func IsStartAfterEnd(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeStartAfterEnd
}
