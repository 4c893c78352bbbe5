package registry

import (
	"fmt"
	"strings"
)

// Validate checks a script form before it is sent.
func (f ScriptForm) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if f.DirectoryID <= 0 {
		return fmt.Errorf("%w: directory is required", ErrInvalidInput)
	}
	if strings.TrimSpace(f.ScriptBody) == "" {
		return fmt.Errorf("%w: script is required", ErrInvalidInput)
	}
	if len(f.Types) == 0 {
		return fmt.Errorf("%w: at least one script type is required", ErrInvalidInput)
	}
	for _, t := range f.Types {
		if !t.Valid() {
			return fmt.Errorf("%w: unknown script type %q", ErrInvalidInput, t)
		}
	}
	return nil
}

// Validate checks a directory form before it is sent.
func (f DirectoryForm) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if f.ParentID != nil && *f.ParentID <= 0 {
		return fmt.Errorf("%w: invalid parent directory", ErrInvalidInput)
	}
	return nil
}
