package scheduled

import "errors"

var (
	// ErrInvalidInput indicates a task form failed validation.
	ErrInvalidInput = errors.New("invalid scheduled task input")
	// ErrTaskNotFound indicates the task doesn't exist or was deleted.
	ErrTaskNotFound = errors.New("scheduled task not found")
)
