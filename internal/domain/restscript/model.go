// Package restscript models scripts published as custom REST endpoints.
package restscript

// Method is an HTTP method a script answers.
type Method string

const (
	MethodGet    Method = "GET"
	MethodPost   Method = "POST"
	MethodPut    Method = "PUT"
	MethodDelete Method = "DELETE"
)

// Valid reports whether m is a method a script can answer.
func (m Method) Valid() bool {
	return m == MethodGet || m == MethodPost || m == MethodPut || m == MethodDelete
}

// Script is a REST endpoint backed by a script. Name is the last path
// segment of the endpoint.
type Script struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	UUID        string   `json:"uuid"`
	Methods     []Method `json:"methods"`
	Groups      []string `json:"groups,omitempty"`
	ScriptBody  string   `json:"scriptBody"`
}

func (s Script) EntityID() int64    { return s.ID }
func (s Script) EntityName() string { return s.Name }

// Form is the editable part of a REST script.
type Form struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Methods     []Method `json:"methods"`
	Groups      []string `json:"groups,omitempty"`
	ScriptBody  string   `json:"scriptBody"`
	Comment     string   `json:"comment,omitempty"`
}

// FormOf returns the form that would recreate s.
func FormOf(s Script) Form {
	return Form{
		Name:        s.Name,
		Description: s.Description,
		Methods:     append([]Method(nil), s.Methods...),
		Groups:      append([]string(nil), s.Groups...),
		ScriptBody:  s.ScriptBody,
	}
}
