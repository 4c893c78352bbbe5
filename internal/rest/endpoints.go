package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rpggio/scriptdesk/internal/domain/execution"
	"github.com/rpggio/scriptdesk/internal/domain/jira"
	"github.com/rpggio/scriptdesk/internal/domain/listener"
	"github.com/rpggio/scriptdesk/internal/domain/registry"
	"github.com/rpggio/scriptdesk/internal/domain/restscript"
	"github.com/rpggio/scriptdesk/internal/domain/scheduled"
	"github.com/rpggio/scriptdesk/internal/domain/watch"
)

// ListenerClient implements listener.Client.
type ListenerClient struct{ c *Client }

var _ listener.Client = (*ListenerClient)(nil)

func (l *ListenerClient) GetAll(ctx context.Context) ([]listener.Listener, error) {
	var out []listener.Listener
	err := l.c.plugin(ctx, http.MethodGet, "listener/all", nil, &out)
	return out, err
}

func (l *ListenerClient) Create(ctx context.Context, form listener.Form) (listener.Listener, error) {
	var out listener.Listener
	err := l.c.plugin(ctx, http.MethodPost, "listener", form, &out)
	return out, err
}

func (l *ListenerClient) Update(ctx context.Context, id int64, form listener.Form) (listener.Listener, error) {
	var out listener.Listener
	err := l.c.plugin(ctx, http.MethodPut, "listener/"+itoa(id), form, &out)
	return out, err
}

func (l *ListenerClient) Delete(ctx context.Context, id int64) error {
	return l.c.plugin(ctx, http.MethodDelete, "listener/"+itoa(id), nil, nil)
}

// ScheduledClient implements scheduled.Client.
type ScheduledClient struct{ c *Client }

var _ scheduled.Client = (*ScheduledClient)(nil)

func (s *ScheduledClient) GetAll(ctx context.Context) ([]scheduled.Task, error) {
	var out []scheduled.Task
	err := s.c.plugin(ctx, http.MethodGet, "scheduled/all", nil, &out)
	return out, err
}

func (s *ScheduledClient) Create(ctx context.Context, form scheduled.Form) (scheduled.Task, error) {
	var out scheduled.Task
	err := s.c.plugin(ctx, http.MethodPost, "scheduled", form, &out)
	return out, err
}

func (s *ScheduledClient) Update(ctx context.Context, id int64, form scheduled.Form) (scheduled.Task, error) {
	var out scheduled.Task
	err := s.c.plugin(ctx, http.MethodPut, "scheduled/"+itoa(id), form, &out)
	return out, err
}

func (s *ScheduledClient) Delete(ctx context.Context, id int64) error {
	return s.c.plugin(ctx, http.MethodDelete, "scheduled/"+itoa(id), nil, nil)
}

func (s *ScheduledClient) RunNow(ctx context.Context, id int64) error {
	return s.c.plugin(ctx, http.MethodPost, "scheduled/"+itoa(id)+"/runNow", nil, nil)
}

func (s *ScheduledClient) SetEnabled(ctx context.Context, id int64, enabled bool) error {
	path := fmt.Sprintf("scheduled/%d/enabled/%t", id, enabled)
	return s.c.plugin(ctx, http.MethodPost, path, nil, nil)
}

// RegistryClient implements registry.Client.
type RegistryClient struct{ c *Client }

var _ registry.Client = (*RegistryClient)(nil)

func (r *RegistryClient) GetTree(ctx context.Context) ([]registry.Directory, error) {
	var out []registry.Directory
	err := r.c.plugin(ctx, http.MethodGet, "registry/directory/all", nil, &out)
	return out, err
}

func (r *RegistryClient) CreateScript(ctx context.Context, form registry.ScriptForm) (registry.Script, error) {
	var out registry.Script
	err := r.c.plugin(ctx, http.MethodPost, "registry/script", form, &out)
	return out, err
}

func (r *RegistryClient) UpdateScript(ctx context.Context, id int64, form registry.ScriptForm) (registry.Script, error) {
	var out registry.Script
	err := r.c.plugin(ctx, http.MethodPut, "registry/script/"+itoa(id), form, &out)
	return out, err
}

func (r *RegistryClient) DeleteScript(ctx context.Context, id int64) error {
	return r.c.plugin(ctx, http.MethodDelete, "registry/script/"+itoa(id), nil, nil)
}

func (r *RegistryClient) CreateDirectory(ctx context.Context, form registry.DirectoryForm) (registry.Directory, error) {
	var out registry.Directory
	err := r.c.plugin(ctx, http.MethodPost, "registry/directory", form, &out)
	return out, err
}

func (r *RegistryClient) UpdateDirectory(ctx context.Context, id int64, form registry.DirectoryForm) (registry.Directory, error) {
	var out registry.Directory
	err := r.c.plugin(ctx, http.MethodPut, "registry/directory/"+itoa(id), form, &out)
	return out, err
}

func (r *RegistryClient) DeleteDirectory(ctx context.Context, id int64) error {
	return r.c.plugin(ctx, http.MethodDelete, "registry/directory/"+itoa(id), nil, nil)
}

// RestScriptClient implements restscript.Client.
type RestScriptClient struct{ c *Client }

var _ restscript.Client = (*RestScriptClient)(nil)

func (r *RestScriptClient) GetAll(ctx context.Context) ([]restscript.Script, error) {
	var out []restscript.Script
	err := r.c.plugin(ctx, http.MethodGet, "rest/all", nil, &out)
	return out, err
}

func (r *RestScriptClient) Create(ctx context.Context, form restscript.Form) (restscript.Script, error) {
	var out restscript.Script
	err := r.c.plugin(ctx, http.MethodPost, "rest", form, &out)
	return out, err
}

func (r *RestScriptClient) Update(ctx context.Context, id int64, form restscript.Form) (restscript.Script, error) {
	var out restscript.Script
	err := r.c.plugin(ctx, http.MethodPut, "rest/"+itoa(id), form, &out)
	return out, err
}

func (r *RestScriptClient) Delete(ctx context.Context, id int64) error {
	return r.c.plugin(ctx, http.MethodDelete, "rest/"+itoa(id), nil, nil)
}

// ExecutionClient implements execution.Client.
type ExecutionClient struct{ c *Client }

var _ execution.Client = (*ExecutionClient)(nil)

func (e *ExecutionClient) GetRegistryExecutions(ctx context.Context, scriptID int64) ([]execution.Execution, error) {
	var out []execution.Execution
	err := e.c.plugin(ctx, http.MethodGet, "execution/forRegistry/"+itoa(scriptID), nil, &out)
	return out, err
}

func (e *ExecutionClient) GetInlineExecutions(ctx context.Context, uuid string) ([]execution.Execution, error) {
	var out []execution.Execution
	err := e.c.plugin(ctx, http.MethodGet, "execution/forInline/"+url.PathEscape(uuid), nil, &out)
	return out, err
}

// WatchClient implements watch.Client. The add-on reports watches as the
// list of ids the current user watches.
type WatchClient struct{ c *Client }

var _ watch.Client = (*WatchClient)(nil)

func (w *WatchClient) GetAllWatches(ctx context.Context, entityType watch.EntityType) ([]watch.Watch, error) {
	var ids []int64
	if err := w.c.plugin(ctx, http.MethodGet, "watch/"+string(entityType)+"/all", nil, &ids); err != nil {
		return nil, err
	}
	out := make([]watch.Watch, 0, len(ids))
	for _, id := range ids {
		out = append(out, watch.Watch{EntityID: id, Watching: true})
	}
	return out, nil
}

func (w *WatchClient) Watch(ctx context.Context, entityType watch.EntityType, id int64) error {
	return w.c.plugin(ctx, http.MethodPost, "watch/"+string(entityType)+"/"+itoa(id), nil, nil)
}

func (w *WatchClient) Unwatch(ctx context.Context, entityType watch.EntityType, id int64) error {
	return w.c.plugin(ctx, http.MethodDelete, "watch/"+string(entityType)+"/"+itoa(id), nil, nil)
}

// JiraClient implements jira.Client.
type JiraClient struct{ c *Client }

var _ jira.Client = (*JiraClient)(nil)

func (j *JiraClient) GetEventTypes(ctx context.Context) ([]jira.EventType, error) {
	var out []jira.EventType
	err := j.c.plugin(ctx, http.MethodGet, "jira/eventType/all", nil, &out)
	return out, err
}

func (j *JiraClient) GetAllProjects(ctx context.Context) ([]jira.Project, error) {
	var out []jira.Project
	err := j.c.do(ctx, http.MethodGet, j.c.base+TrackerPath+"/project", nil, &out)
	return out, err
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
