package registry

import "errors"

var (
	// ErrInvalidInput indicates a script or directory form failed validation.
	ErrInvalidInput = errors.New("invalid registry input")
	// ErrScriptNotFound indicates the script doesn't exist or was deleted.
	ErrScriptNotFound = errors.New("registry script not found")
	// ErrDirectoryNotFound indicates the directory doesn't exist or was deleted.
	ErrDirectoryNotFound = errors.New("registry directory not found")
)
