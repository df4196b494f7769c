package workflow

import "errors"

// ValidationError rejects an operation before any write happens. Handlers
// surface the message verbatim as a blocking 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError reports a missing shop, bill, or item. The caller may retry
// with corrected input.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

func validationf(msg string) error { return &ValidationError{Message: msg} }

func notFound(msg string) error { return &NotFoundError{Message: msg} }

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is a missing-record failure.
func IsNotFound(err error) bool {
	var ne *NotFoundError
	return errors.As(err, &ne)
}
