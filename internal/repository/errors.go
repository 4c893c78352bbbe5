package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity doesn't exist or was deleted
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a live entity already uses the same name
	ErrConflict = errors.New("conflict: name is already taken")

	// ErrForeignKeyViolation is returned when a referenced entity doesn't exist
	ErrForeignKeyViolation = errors.New("foreign key violation")

	// ErrNotEmpty is returned when deleting a directory that still has content
	ErrNotEmpty = errors.New("directory is not empty")
)
