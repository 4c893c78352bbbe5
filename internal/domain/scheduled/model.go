package scheduled

import "time"

// TaskType selects what a scheduled task does when it fires.
type TaskType string

const (
	TypeBasicScript        TaskType = "BASIC_SCRIPT"
	TypeIssueJQLScript     TaskType = "ISSUE_JQL_SCRIPT"
	TypeDocumentJQLScript  TaskType = "DOCUMENT_ISSUE_JQL_SCRIPT"
	TypeIssueJQLTransition TaskType = "ISSUE_JQL_TRANSITION"
)

// UsesJQL reports whether tasks of this type iterate over a JQL result.
func (t TaskType) UsesJQL() bool {
	return t == TypeIssueJQLScript || t == TypeDocumentJQLScript || t == TypeIssueJQLTransition
}

// Outcome is the result of one task run.
type Outcome string

const (
	OutcomeSuccess Outcome = "SUCCESS"
	OutcomeFailed  Outcome = "FAILED"
	OutcomeAborted Outcome = "ABORTED"
)

// TransitionOptions relax checks for ISSUE_JQL_TRANSITION tasks.
type TransitionOptions struct {
	SkipConditions  bool `json:"skipConditions"`
	SkipValidators  bool `json:"skipValidators"`
	SkipPermissions bool `json:"skipPermissions"`
}

// RunInfo describes the last run of a task.
type RunInfo struct {
	StartDate time.Time `json:"startDate"`
	Duration  int64     `json:"duration"`
	Outcome   Outcome   `json:"outcome"`
	Message   string    `json:"message,omitempty"`
}

// Task runs a script on a cron schedule.
type Task struct {
	ID                    int64              `json:"id"`
	Name                  string             `json:"name"`
	Description           string             `json:"description,omitempty"`
	UUID                  string             `json:"uuid"`
	Type                  TaskType           `json:"type"`
	ScriptBody            string             `json:"scriptBody,omitempty"`
	Schedule              string             `json:"scheduleExpression"`
	UserKey               string             `json:"userKey"`
	IssueJQL              string             `json:"issueJql,omitempty"`
	IssueWorkflowName     string             `json:"issueWorkflowName,omitempty"`
	IssueWorkflowActionID int64              `json:"issueWorkflowActionId,omitempty"`
	TransitionOptions     *TransitionOptions `json:"transitionOptions,omitempty"`
	Enabled               bool               `json:"enabled"`
	LastRunInfo           *RunInfo           `json:"lastRunInfo,omitempty"`
	NextRunDate           *time.Time         `json:"nextRunDate,omitempty"`
}

func (t Task) EntityID() int64    { return t.ID }
func (t Task) EntityName() string { return t.Name }

// Form is the editable part of a task sent on create and update.
type Form struct {
	Name                  string             `json:"name"`
	Description           string             `json:"description,omitempty"`
	Type                  TaskType           `json:"type"`
	ScriptBody            string             `json:"scriptBody,omitempty"`
	Schedule              string             `json:"scheduleExpression"`
	UserKey               string             `json:"userKey"`
	IssueJQL              string             `json:"issueJql,omitempty"`
	IssueWorkflowName     string             `json:"issueWorkflowName,omitempty"`
	IssueWorkflowActionID int64              `json:"issueWorkflowActionId,omitempty"`
	TransitionOptions     *TransitionOptions `json:"transitionOptions,omitempty"`
	Enabled               bool               `json:"enabled"`
	Comment               string             `json:"comment,omitempty"`
}

// FormOf returns the form that would recreate t.
func FormOf(t Task) Form {
	return Form{
		Name:                  t.Name,
		Description:           t.Description,
		Type:                  t.Type,
		ScriptBody:            t.ScriptBody,
		Schedule:              t.Schedule,
		UserKey:               t.UserKey,
		IssueJQL:              t.IssueJQL,
		IssueWorkflowName:     t.IssueWorkflowName,
		IssueWorkflowActionID: t.IssueWorkflowActionID,
		TransitionOptions:     t.TransitionOptions,
		Enabled:               t.Enabled,
	}
}
