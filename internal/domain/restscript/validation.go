package restscript

import (
	"fmt"
	"regexp"
	"strings"
)

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Validate checks a REST script form before it is sent.
func (f Form) Validate() error {
	if !namePattern.MatchString(f.Name) {
		return fmt.Errorf("%w: name must be letters, digits, '-' or '_'", ErrInvalidInput)
	}
	if len(f.Methods) == 0 {
		return fmt.Errorf("%w: at least one method is required", ErrInvalidInput)
	}
	seen := make(map[Method]bool, len(f.Methods))
	for _, m := range f.Methods {
		if !m.Valid() {
			return fmt.Errorf("%w: unknown method %q", ErrInvalidInput, m)
		}
		if seen[m] {
			return fmt.Errorf("%w: method %s listed twice", ErrInvalidInput, m)
		}
		seen[m] = true
	}
	if strings.TrimSpace(f.ScriptBody) == "" {
		return fmt.Errorf("%w: script is required", ErrInvalidInput)
	}
	return nil
}
