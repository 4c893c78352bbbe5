package listener

import "errors"

var (
	// ErrInvalidInput indicates a listener form failed validation.
	ErrInvalidInput = errors.New("invalid listener input")
	// ErrListenerNotFound indicates the listener doesn't exist or was deleted.
	ErrListenerNotFound = errors.New("listener not found")
)
