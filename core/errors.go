package core

import "github.com/pkg/errors"

// FieldError pins a message to one request field, eg. "evaluated" or a
// "question_<id>" checklist entry.
type FieldError struct {
	Field string
	Error string
}

// ValidationError is a rejection the client can fix. The HTTP error handler
// renders Fields as a field → message map, or falls back to {"error": msg}
// when there are none (eg. the same-day duplicate evaluation check).
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

type shutdown struct {
	message string
}

// NewShutdownError reports a condition the API process cannot recover from.
// The HTTP error handler checks IsShutdown and triggers a graceful stop.
func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
