// Package console serves the administration screens as page data over HTTP.
// Every route resolves to exactly one page variant.
package console

import (
	"encoding/json"
	"net/http"

	"github.com/rpggio/scriptdesk/internal/domain/execution"
	"github.com/rpggio/scriptdesk/internal/refdata"
)

// Kind names a page variant.
type Kind string

const (
	KindList     Kind = "list"
	KindForm     Kind = "form"
	KindView     Kind = "view"
	KindNotFound Kind = "notFound"
	KindLoading  Kind = "loading"
)

// Page is one of ListPage, FormPage, ViewPage, NotFoundPage or LoadingPage.
type Page interface {
	Kind() Kind
}

// ListPage shows the filtered collection of a section.
type ListPage[T any] struct {
	Section   string         `json:"section"`
	Filter    string         `json:"filter"`
	Items     []T            `json:"items"`
	Total     int            `json:"total"`
	Watches   map[int64]bool `json:"watches"`
	Reference refdata.Bundle `json:"reference"`
}

func (ListPage[T]) Kind() Kind { return KindList }

// FormMode distinguishes create and edit forms.
type FormMode string

const (
	ModeCreate FormMode = "create"
	ModeEdit   FormMode = "edit"
)

// FormPage is a create or edit form prefilled with a draft.
type FormPage[F any] struct {
	Section   string         `json:"section"`
	Mode      FormMode       `json:"mode"`
	ID        int64          `json:"id,omitempty"`
	Form      F              `json:"form"`
	Reference refdata.Bundle `json:"reference"`
}

func (FormPage[F]) Kind() Kind { return KindForm }

// ViewPage shows one item. Executions is the item's run history; it is
// filled only when the item is opened, and HistoryError replaces it when the
// history could not be fetched.
type ViewPage[T any] struct {
	Section      string                `json:"section"`
	Item         T                     `json:"item"`
	Watching     bool                  `json:"watching"`
	Reference    refdata.Bundle        `json:"reference"`
	Executions   []execution.Execution `json:"executions,omitempty"`
	Runs         *execution.Summary    `json:"runs,omitempty"`
	HistoryError string                `json:"historyError,omitempty"`
}

func (ViewPage[T]) Kind() Kind { return KindView }

// NotFoundPage is rendered for unknown routes and ids.
type NotFoundPage struct {
	Section string `json:"section,omitempty"`
	ID      int64  `json:"id,omitempty"`
	Path    string `json:"path"`
}

func (NotFoundPage) Kind() Kind { return KindNotFound }

// LoadingPage is rendered until a section's first load succeeds. Error holds
// the failure of the latest attempt; Reload is the path that retries it.
type LoadingPage struct {
	Section string `json:"section"`
	Phase   string `json:"phase"`
	Error   string `json:"error,omitempty"`
	Reload  string `json:"reload"`
}

func (LoadingPage) Kind() Kind { return KindLoading }

// envelope tags a page with its kind on the wire.
type envelope struct {
	Kind Kind `json:"kind"`
	Page Page `json:"page"`
}

func render(w http.ResponseWriter, status int, page Page) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Kind: page.Kind(), Page: page})
}
