package mcp

import (
	"github.com/rpggio/scriptdesk/internal/domain/execution"
	"github.com/rpggio/scriptdesk/internal/domain/listener"
	"github.com/rpggio/scriptdesk/internal/domain/restscript"
	"github.com/rpggio/scriptdesk/internal/domain/scheduled"
	"github.com/rpggio/scriptdesk/internal/refdata"
)

type ListItemsParams struct {
	Section string `json:"section" jsonschema:"section name: listeners, scheduled, registry or rest"`
	Query   string `json:"query,omitempty" jsonschema:"case-insensitive name filter; omit to list every item"`
}

type GetItemParams struct {
	Section string `json:"section" jsonschema:"section name: listeners, scheduled, registry or rest"`
	ID      int64  `json:"id" jsonschema:"item id"`
}

type CreateListenerParams struct {
	Form listener.Form `json:"form" jsonschema:"listener fields"`
}

type UpdateListenerParams struct {
	ID   int64         `json:"id" jsonschema:"listener id"`
	Form listener.Form `json:"form" jsonschema:"complete listener fields; omitted fields are cleared"`
}

type CreateScheduledTaskParams struct {
	Form scheduled.Form `json:"form" jsonschema:"scheduled task fields"`
}

type UpdateScheduledTaskParams struct {
	ID   int64          `json:"id" jsonschema:"scheduled task id"`
	Form scheduled.Form `json:"form" jsonschema:"complete scheduled task fields; omitted fields are cleared"`
}

type CreateRestScriptParams struct {
	Form restscript.Form `json:"form" jsonschema:"REST script fields"`
}

type UpdateRestScriptParams struct {
	ID   int64           `json:"id" jsonschema:"REST script id"`
	Form restscript.Form `json:"form" jsonschema:"complete REST script fields; omitted fields are cleared"`
}

type GetExecutionsParams struct {
	Section string `json:"section" jsonschema:"section name: listeners, scheduled, registry or rest"`
	ID      int64  `json:"id" jsonschema:"item id"`
	Limit   int    `json:"limit,omitempty" jsonschema:"return at most this many runs; omit for all"`
}

type DeleteItemParams struct {
	Section string `json:"section" jsonschema:"section name: listeners, scheduled, registry or rest"`
	ID      int64  `json:"id" jsonschema:"item id"`
	Confirm bool   `json:"confirm,omitempty" jsonschema:"must be true to delete"`
}

type WatchItemParams struct {
	Section  string `json:"section" jsonschema:"section name: listeners, scheduled, registry or rest"`
	ID       int64  `json:"id" jsonschema:"item id"`
	Watching bool   `json:"watching" jsonschema:"true to watch, false to stop watching"`
}

type RunScheduledTaskParams struct {
	ID      int64 `json:"id" jsonschema:"scheduled task id"`
	Confirm bool  `json:"confirm,omitempty" jsonschema:"must be true to start the run"`
}

type SetTaskEnabledParams struct {
	ID      int64 `json:"id" jsonschema:"scheduled task id"`
	Enabled bool  `json:"enabled" jsonschema:"new enabled flag"`
}

type ReloadParams struct {
	Section string `json:"section,omitempty" jsonschema:"section to reload; omit to reload every section"`
}

type ListItemsResponse struct {
	Section   string         `json:"section"`
	Filter    string         `json:"filter"`
	Total     int            `json:"total"`
	Items     any            `json:"items"`
	Watching  []int64        `json:"watching"`
	Reference refdata.Bundle `json:"reference"`
}

type ItemResponse struct {
	Section  string `json:"section"`
	Item     any    `json:"item"`
	Watching bool   `json:"watching"`
}

type ExecutionsResponse struct {
	Section    string                `json:"section"`
	ID         int64                 `json:"id"`
	Summary    execution.Summary     `json:"summary"`
	Executions []execution.Execution `json:"executions"`
}

type SectionStatus struct {
	Section string `json:"section"`
	Phase   string `json:"phase"`
	Items   int    `json:"items"`
	Error   string `json:"error,omitempty"`
}

type ReloadResponse struct {
	Sections []SectionStatus `json:"sections"`
}
