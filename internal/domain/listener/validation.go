package listener

import (
	"fmt"
	"strings"
)

// Validate checks a listener form before it is sent.
func (f Form) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(f.ScriptBody) == "" {
		return fmt.Errorf("%w: script is required", ErrInvalidInput)
	}

	switch f.Condition.Type {
	case ConditionIssue:
		if len(f.Condition.TypeIDs) == 0 {
			return fmt.Errorf("%w: at least one event type is required", ErrInvalidInput)
		}
	case ConditionClassName:
		if strings.TrimSpace(f.Condition.ClassName) == "" {
			return fmt.Errorf("%w: class name is required", ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: unknown condition type %q", ErrInvalidInput, f.Condition.Type)
	}
	return nil
}
