package listener_test

import (
	"testing"

	"github.com/rpggio/scriptdesk/internal/domain/listener"
	"github.com/stretchr/testify/require"
)

func validForm() listener.Form {
	return listener.Form{
		Name:       "Assign on create",
		ScriptBody: "issue.assignee = reporter",
		Condition: listener.Condition{
			Type:    listener.ConditionIssue,
			TypeIDs: []int64{1},
		},
	}
}

func TestForm_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*listener.Form)
		ok     bool
	}{
		{name: "valid", mutate: func(*listener.Form) {}, ok: true},
		{name: "blank name", mutate: func(f *listener.Form) { f.Name = "  " }},
		{name: "no script", mutate: func(f *listener.Form) { f.ScriptBody = "" }},
		{name: "no event types", mutate: func(f *listener.Form) { f.Condition.TypeIDs = nil }},
		{name: "class name condition", mutate: func(f *listener.Form) {
			f.Condition = listener.Condition{Type: listener.ConditionClassName, ClassName: "com.example.Event"}
		}, ok: true},
		{name: "class name missing", mutate: func(f *listener.Form) {
			f.Condition = listener.Condition{Type: listener.ConditionClassName}
		}},
		{name: "unknown condition", mutate: func(f *listener.Form) { f.Condition.Type = "OTHER" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.mutate(&form)
			err := form.Validate()
			if tt.ok {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, listener.ErrInvalidInput)
		})
	}
}

func TestFormOf(t *testing.T) {
	l := listener.Listener{ID: 3, Name: "n", UUID: "u", ScriptBody: "s", Condition: listener.Condition{Type: listener.ConditionIssue}}
	form := listener.FormOf(l)
	require.Equal(t, "n", form.Name)
	require.Equal(t, "s", form.ScriptBody)
	require.Equal(t, listener.ConditionIssue, form.Condition.Type)
}
