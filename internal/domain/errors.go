package domain

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrPersistence  = errors.New("persistence failure")
	ErrDispatch     = errors.New("notification dispatch failed")
	ErrUnauthorized = errors.New("unauthorized")
)

// Invalid wraps ErrValidation with a field-level message.
func Invalid(msg string) error {
	return &validationError{msg: msg}
}

type validationError struct{ msg string }

func (e *validationError) Error() string { return e.msg }
func (e *validationError) Unwrap() error { return ErrValidation }

// ValidationMessage returns the field message of the innermost validation
// error in err's chain, falling back to err.Error().
func ValidationMessage(err error) string {
	var ve *validationError
	if errors.As(err, &ve) {
		return ve.msg
	}
	return err.Error()
}
