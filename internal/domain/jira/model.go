package jira

import (
	"context"
	"fmt"

	"github.com/rpggio/scriptdesk/internal/refdata"
)

// EventType is an issue event the tracker can emit.
type EventType struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Project is a tracker project.
type Project struct {
	ID   int64  `json:"id,string"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

// Client reads tracker reference data.
type Client interface {
	GetEventTypes(ctx context.Context) ([]EventType, error)
	GetAllProjects(ctx context.Context) ([]Project, error)
}

// EventTypeLabels maps event type ids to names.
func EventTypeLabels(types []EventType) refdata.Labels {
	out := make(refdata.Labels, len(types))
	for _, t := range types {
		out[t.ID] = t.Name
	}
	return out
}

// ProjectLabels maps project ids to "KEY - Name".
func ProjectLabels(projects []Project) refdata.Labels {
	out := make(refdata.Labels, len(projects))
	for _, p := range projects {
		out[p.ID] = fmt.Sprintf("%s - %s", p.Key, p.Name)
	}
	return out
}
