package domain

import "errors"

var (
	ErrEmailTaken           = errors.New("email already in use")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrInvalidToken         = errors.New("invalid token")
	ErrUserNotFound         = errors.New("user not found")
	ErrTaskNotFound         = errors.New("task not found")
	ErrTooManyLoginAttempts = errors.New("too many login attempts")
)

// ValidationError marks a client-correctable input failure. The HTTP layer
// renders it as a 400 with the reason as the message.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Validation returns a *ValidationError with the given reason.
func Validation(reason string) error {
	return &ValidationError{Reason: reason}
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
