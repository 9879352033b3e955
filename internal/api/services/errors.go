package services

import "errors"

var (
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoteNotFound       = errors.New("note not found")
	ErrUnauthorized       = errors.New("unauthorized")
)

// ValidationError carries a message that is safe to show to the client.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// Recorder receives domain events worth counting.
type Recorder interface {
	NoteCreated()
	AuthFailure(reason string)
}
