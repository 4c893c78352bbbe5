package scheduled

import (
	"fmt"
	"strings"
)

// Validate checks a task form before it is sent.
func (f Form) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if err := validateSchedule(f.Schedule); err != nil {
		return err
	}
	if strings.TrimSpace(f.UserKey) == "" {
		return fmt.Errorf("%w: run-as user is required", ErrInvalidInput)
	}

	switch f.Type {
	case TypeBasicScript, TypeIssueJQLScript, TypeDocumentJQLScript, TypeIssueJQLTransition:
	default:
		return fmt.Errorf("%w: unknown task type %q", ErrInvalidInput, f.Type)
	}

	if f.Type.UsesJQL() && strings.TrimSpace(f.IssueJQL) == "" {
		return fmt.Errorf("%w: issue JQL is required", ErrInvalidInput)
	}
	if f.Type == TypeIssueJQLTransition {
		if strings.TrimSpace(f.IssueWorkflowName) == "" || f.IssueWorkflowActionID <= 0 {
			return fmt.Errorf("%w: workflow action is required", ErrInvalidInput)
		}
		return nil
	}
	if strings.TrimSpace(f.ScriptBody) == "" {
		return fmt.Errorf("%w: script is required", ErrInvalidInput)
	}
	return nil
}

// validateSchedule accepts Quartz style cron expressions: six or seven
// space separated fields.
func validateSchedule(expr string) error {
	fields := strings.Fields(expr)
	if len(fields) < 6 || len(fields) > 7 {
		return fmt.Errorf("%w: schedule must be a cron expression with 6 or 7 fields", ErrInvalidInput)
	}
	return nil
}
