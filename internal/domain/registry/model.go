package registry

// ScriptType is the workflow slot a registry script can fill.
type ScriptType string

const (
	TypeCondition ScriptType = "CONDITION"
	TypeValidator ScriptType = "VALIDATOR"
	TypeFunction  ScriptType = "FUNCTION"
)

// Valid reports whether t is a known script type.
func (t ScriptType) Valid() bool {
	return t == TypeCondition || t == TypeValidator || t == TypeFunction
}

// Script is a reusable workflow script stored in a directory.
type Script struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	UUID        string       `json:"uuid"`
	DirectoryID int64        `json:"directoryId"`
	ParentName  string       `json:"parentName,omitempty"`
	Types       []ScriptType `json:"types"`
	ScriptBody  string       `json:"scriptBody"`
}

func (s Script) EntityID() int64    { return s.ID }
func (s Script) EntityName() string { return s.Name }

// Directory is a node of the registry tree.
type Directory struct {
	ID       int64       `json:"id"`
	Name     string      `json:"name"`
	ParentID *int64      `json:"parentId,omitempty"`
	Scripts  []Script    `json:"scripts"`
	Children []Directory `json:"children"`
}

// ScriptForm is the editable part of a script.
type ScriptForm struct {
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	DirectoryID int64        `json:"directoryId"`
	Types       []ScriptType `json:"types"`
	ScriptBody  string       `json:"scriptBody"`
	Comment     string       `json:"comment,omitempty"`
}

// ScriptFormOf returns the form that would recreate s.
func ScriptFormOf(s Script) ScriptForm {
	return ScriptForm{
		Name:        s.Name,
		Description: s.Description,
		DirectoryID: s.DirectoryID,
		Types:       append([]ScriptType(nil), s.Types...),
		ScriptBody:  s.ScriptBody,
	}
}

// DirectoryForm is the editable part of a directory.
type DirectoryForm struct {
	Name     string `json:"name"`
	ParentID *int64 `json:"parentId,omitempty"`
}
