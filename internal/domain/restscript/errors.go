package restscript

import "errors"

var (
	// ErrInvalidInput indicates a REST script form failed validation.
	ErrInvalidInput = errors.New("invalid rest script input")
	// ErrScriptNotFound indicates the script doesn't exist or was deleted.
	ErrScriptNotFound = errors.New("rest script not found")
	// ErrNameTaken indicates another live script already uses the name.
	ErrNameTaken = errors.New("rest script name already in use")
)
