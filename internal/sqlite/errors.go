package sqlite

import (
	"fmt"
	"strings"

	"github.com/rpggio/scriptdesk/internal/repository"
)

func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// writeError maps constraint failures to repository errors.
func writeError(op string, err error) error {
	switch {
	case isUniqueViolation(err):
		return repository.ErrConflict
	case isForeignKeyViolation(err):
		return repository.ErrForeignKeyViolation
	default:
		return fmt.Errorf("failed to %s: %w", op, err)
	}
}
