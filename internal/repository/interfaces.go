package repository

import (
	"context"
	"time"

	"github.com/rpggio/scriptdesk/internal/domain/execution"
	"github.com/rpggio/scriptdesk/internal/domain/jira"
	"github.com/rpggio/scriptdesk/internal/domain/listener"
	"github.com/rpggio/scriptdesk/internal/domain/registry"
	"github.com/rpggio/scriptdesk/internal/domain/restscript"
	"github.com/rpggio/scriptdesk/internal/domain/scheduled"
	"github.com/rpggio/scriptdesk/internal/domain/watch"
)

// ListenerRepository manages listener persistence
type ListenerRepository interface {
	List(ctx context.Context) ([]listener.Listener, error)
	Get(ctx context.Context, id int64) (listener.Listener, error)
	Create(ctx context.Context, author string, form listener.Form) (listener.Listener, error)
	Update(ctx context.Context, author string, id int64, form listener.Form) (listener.Listener, error)
	Delete(ctx context.Context, author string, id int64) error
}

// TaskRepository manages scheduled task persistence
type TaskRepository interface {
	List(ctx context.Context) ([]scheduled.Task, error)
	Get(ctx context.Context, id int64) (scheduled.Task, error)
	Create(ctx context.Context, author string, form scheduled.Form) (scheduled.Task, error)
	Update(ctx context.Context, author string, id int64, form scheduled.Form) (scheduled.Task, error)
	Delete(ctx context.Context, author string, id int64) error
	SetEnabled(ctx context.Context, id int64, enabled bool) error
	RecordRun(ctx context.Context, id int64, run scheduled.RunInfo) error
}

// RegistryRepository manages the script registry
type RegistryRepository interface {
	Tree(ctx context.Context) ([]registry.Directory, error)
	GetScript(ctx context.Context, id int64) (registry.Script, error)
	CreateScript(ctx context.Context, author string, form registry.ScriptForm) (registry.Script, error)
	UpdateScript(ctx context.Context, author string, id int64, form registry.ScriptForm) (registry.Script, error)
	DeleteScript(ctx context.Context, author string, id int64) error
	CreateDirectory(ctx context.Context, form registry.DirectoryForm) (registry.Directory, error)
	UpdateDirectory(ctx context.Context, id int64, form registry.DirectoryForm) (registry.Directory, error)
	DeleteDirectory(ctx context.Context, id int64) error
}

// RestScriptRepository manages REST script persistence
type RestScriptRepository interface {
	List(ctx context.Context) ([]restscript.Script, error)
	Get(ctx context.Context, id int64) (restscript.Script, error)
	Create(ctx context.Context, author string, form restscript.Form) (restscript.Script, error)
	Update(ctx context.Context, author string, id int64, form restscript.Form) (restscript.Script, error)
	Delete(ctx context.Context, author string, id int64) error
}

// ExecutionRepository records and lists script runs
type ExecutionRepository interface {
	TrackRegistry(ctx context.Context, scriptID int64, run execution.Execution) (execution.Execution, error)
	TrackInline(ctx context.Context, uuid string, run execution.Execution) (execution.Execution, error)
	ForRegistry(ctx context.Context, scriptID int64) ([]execution.Execution, error)
	ForInline(ctx context.Context, uuid string) ([]execution.Execution, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// WatchRepository manages per-user watches
type WatchRepository interface {
	List(ctx context.Context, userKey string, entityType watch.EntityType) ([]int64, error)
	Watch(ctx context.Context, userKey string, entityType watch.EntityType, id int64) error
	Unwatch(ctx context.Context, userKey string, entityType watch.EntityType, id int64) error
}

// ReferenceRepository serves tracker reference data
type ReferenceRepository interface {
	EventTypes(ctx context.Context) ([]jira.EventType, error)
	Projects(ctx context.Context) ([]jira.Project, error)
}
