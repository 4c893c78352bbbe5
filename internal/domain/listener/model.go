package listener

// ConditionType selects how a listener is matched against incoming events.
type ConditionType string

const (
	ConditionIssue     ConditionType = "ISSUE"
	ConditionClassName ConditionType = "CLASS_NAME"
)

// Condition describes which events trigger a listener.
type Condition struct {
	Type       ConditionType `json:"type"`
	TypeIDs    []int64       `json:"typeIds,omitempty"`
	ProjectIDs []int64       `json:"projectIds,omitempty"`
	ClassName  string        `json:"className,omitempty"`
	PluginKey  string        `json:"pluginKey,omitempty"`
}

// Listener binds an event condition to a script.
type Listener struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	UUID        string    `json:"uuid"`
	ScriptBody  string    `json:"scriptBody"`
	Condition   Condition `json:"condition"`
}

func (l Listener) EntityID() int64    { return l.ID }
func (l Listener) EntityName() string { return l.Name }

// Form is the editable part of a listener sent on create and update.
type Form struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ScriptBody  string    `json:"scriptBody"`
	Condition   Condition `json:"condition"`
	Comment     string    `json:"comment,omitempty"`
}

// FormOf returns the form that would recreate l.
func FormOf(l Listener) Form {
	return Form{
		Name:        l.Name,
		Description: l.Description,
		ScriptBody:  l.ScriptBody,
		Condition:   l.Condition,
	}
}
