package tasks

import "errors"

// ErrTaskNotFound is returned by Update when no task has the given id
var ErrTaskNotFound = errors.New("task not found")

// ValidationError reports user input the store refuses to accept
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a ValidationError with the given message
func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}

// IsValidationError reports whether err wraps a ValidationError
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
