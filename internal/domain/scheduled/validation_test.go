package scheduled_test

import (
	"testing"

	"github.com/rpggio/scriptdesk/internal/domain/scheduled"
	"github.com/stretchr/testify/require"
)

func basicForm() scheduled.Form {
	return scheduled.Form{
		Name:       "Nightly cleanup",
		Type:       scheduled.TypeBasicScript,
		ScriptBody: "cleanup()",
		Schedule:   "0 0 3 * * ?",
		UserKey:    "admin",
	}
}

func TestForm_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*scheduled.Form)
		ok     bool
	}{
		{name: "valid basic", mutate: func(*scheduled.Form) {}, ok: true},
		{name: "seven field schedule", mutate: func(f *scheduled.Form) { f.Schedule = "0 0 3 * * ? 2030" }, ok: true},
		{name: "five field schedule", mutate: func(f *scheduled.Form) { f.Schedule = "0 3 * * *" }},
		{name: "blank name", mutate: func(f *scheduled.Form) { f.Name = "" }},
		{name: "no user", mutate: func(f *scheduled.Form) { f.UserKey = " " }},
		{name: "unknown type", mutate: func(f *scheduled.Form) { f.Type = "SHELL" }},
		{name: "no script", mutate: func(f *scheduled.Form) { f.ScriptBody = "" }},
		{name: "jql script without jql", mutate: func(f *scheduled.Form) { f.Type = scheduled.TypeIssueJQLScript }},
		{name: "jql script", mutate: func(f *scheduled.Form) {
			f.Type = scheduled.TypeIssueJQLScript
			f.IssueJQL = "project = ABC"
		}, ok: true},
		{name: "transition without action", mutate: func(f *scheduled.Form) {
			f.Type = scheduled.TypeIssueJQLTransition
			f.IssueJQL = "project = ABC"
			f.ScriptBody = ""
		}},
		{name: "transition", mutate: func(f *scheduled.Form) {
			f.Type = scheduled.TypeIssueJQLTransition
			f.IssueJQL = "project = ABC"
			f.ScriptBody = ""
			f.IssueWorkflowName = "Support"
			f.IssueWorkflowActionID = 31
		}, ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := basicForm()
			tt.mutate(&form)
			err := form.Validate()
			if tt.ok {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, scheduled.ErrInvalidInput)
		})
	}
}

func TestTaskType_UsesJQL(t *testing.T) {
	require.False(t, scheduled.TypeBasicScript.UsesJQL())
	require.True(t, scheduled.TypeDocumentJQLScript.UsesJQL())
}

func TestFormOf(t *testing.T) {
	task := scheduled.Task{ID: 4, Name: "n", Type: scheduled.TypeBasicScript, Schedule: "0 0 3 * * ?", Enabled: true}
	form := scheduled.FormOf(task)
	require.Equal(t, "n", form.Name)
	require.Equal(t, task.Schedule, form.Schedule)
	require.True(t, form.Enabled)
}
