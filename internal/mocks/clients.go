package mocks

import (
	"context"

	"github.com/rpggio/scriptdesk/internal/domain/execution"
	"github.com/rpggio/scriptdesk/internal/domain/jira"
	"github.com/rpggio/scriptdesk/internal/domain/listener"
	"github.com/rpggio/scriptdesk/internal/domain/registry"
	"github.com/rpggio/scriptdesk/internal/domain/restscript"
	"github.com/rpggio/scriptdesk/internal/domain/scheduled"
	"github.com/rpggio/scriptdesk/internal/domain/watch"
	"github.com/stretchr/testify/mock"
)

// ListenerClient is a mock for listener.Client.
type ListenerClient struct {
	mock.Mock
}

func (m *ListenerClient) GetAll(ctx context.Context) ([]listener.Listener, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]listener.Listener); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ListenerClient) Create(ctx context.Context, form listener.Form) (listener.Listener, error) {
	args := m.Called(ctx, form)
	l, _ := args.Get(0).(listener.Listener)
	return l, args.Error(1)
}

func (m *ListenerClient) Update(ctx context.Context, id int64, form listener.Form) (listener.Listener, error) {
	args := m.Called(ctx, id, form)
	l, _ := args.Get(0).(listener.Listener)
	return l, args.Error(1)
}

func (m *ListenerClient) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// ScheduledClient is a mock for scheduled.Client.
type ScheduledClient struct {
	mock.Mock
}

func (m *ScheduledClient) GetAll(ctx context.Context) ([]scheduled.Task, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]scheduled.Task); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ScheduledClient) Create(ctx context.Context, form scheduled.Form) (scheduled.Task, error) {
	args := m.Called(ctx, form)
	task, _ := args.Get(0).(scheduled.Task)
	return task, args.Error(1)
}

func (m *ScheduledClient) Update(ctx context.Context, id int64, form scheduled.Form) (scheduled.Task, error) {
	args := m.Called(ctx, id, form)
	task, _ := args.Get(0).(scheduled.Task)
	return task, args.Error(1)
}

func (m *ScheduledClient) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ScheduledClient) RunNow(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ScheduledClient) SetEnabled(ctx context.Context, id int64, enabled bool) error {
	args := m.Called(ctx, id, enabled)
	return args.Error(0)
}

// RegistryClient is a mock for registry.Client.
type RegistryClient struct {
	mock.Mock
}

func (m *RegistryClient) GetTree(ctx context.Context) ([]registry.Directory, error) {
	args := m.Called(ctx)
	if tree, ok := args.Get(0).([]registry.Directory); ok {
		return tree, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RegistryClient) CreateScript(ctx context.Context, form registry.ScriptForm) (registry.Script, error) {
	args := m.Called(ctx, form)
	s, _ := args.Get(0).(registry.Script)
	return s, args.Error(1)
}

func (m *RegistryClient) UpdateScript(ctx context.Context, id int64, form registry.ScriptForm) (registry.Script, error) {
	args := m.Called(ctx, id, form)
	s, _ := args.Get(0).(registry.Script)
	return s, args.Error(1)
}

func (m *RegistryClient) DeleteScript(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *RegistryClient) CreateDirectory(ctx context.Context, form registry.DirectoryForm) (registry.Directory, error) {
	args := m.Called(ctx, form)
	d, _ := args.Get(0).(registry.Directory)
	return d, args.Error(1)
}

func (m *RegistryClient) UpdateDirectory(ctx context.Context, id int64, form registry.DirectoryForm) (registry.Directory, error) {
	args := m.Called(ctx, id, form)
	d, _ := args.Get(0).(registry.Directory)
	return d, args.Error(1)
}

func (m *RegistryClient) DeleteDirectory(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// WatchClient is a mock for watch.Client.
type WatchClient struct {
	mock.Mock
}

func (m *WatchClient) GetAllWatches(ctx context.Context, entityType watch.EntityType) ([]watch.Watch, error) {
	args := m.Called(ctx, entityType)
	if list, ok := args.Get(0).([]watch.Watch); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *WatchClient) Watch(ctx context.Context, entityType watch.EntityType, id int64) error {
	args := m.Called(ctx, entityType, id)
	return args.Error(0)
}

func (m *WatchClient) Unwatch(ctx context.Context, entityType watch.EntityType, id int64) error {
	args := m.Called(ctx, entityType, id)
	return args.Error(0)
}

// JiraClient is a mock for jira.Client.
type JiraClient struct {
	mock.Mock
}

func (m *JiraClient) GetEventTypes(ctx context.Context) ([]jira.EventType, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]jira.EventType); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *JiraClient) GetAllProjects(ctx context.Context) ([]jira.Project, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]jira.Project); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// RestScriptClient is a mock for restscript.Client.
type RestScriptClient struct {
	mock.Mock
}

func (m *RestScriptClient) GetAll(ctx context.Context) ([]restscript.Script, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]restscript.Script); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RestScriptClient) Create(ctx context.Context, form restscript.Form) (restscript.Script, error) {
	args := m.Called(ctx, form)
	script, _ := args.Get(0).(restscript.Script)
	return script, args.Error(1)
}

func (m *RestScriptClient) Update(ctx context.Context, id int64, form restscript.Form) (restscript.Script, error) {
	args := m.Called(ctx, id, form)
	script, _ := args.Get(0).(restscript.Script)
	return script, args.Error(1)
}

func (m *RestScriptClient) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// ExecutionClient is a mock for execution.Client.
type ExecutionClient struct {
	mock.Mock
}

func (m *ExecutionClient) GetRegistryExecutions(ctx context.Context, scriptID int64) ([]execution.Execution, error) {
	args := m.Called(ctx, scriptID)
	if list, ok := args.Get(0).([]execution.Execution); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ExecutionClient) GetInlineExecutions(ctx context.Context, uuid string) ([]execution.Execution, error) {
	args := m.Called(ctx, uuid)
	if list, ok := args.Get(0).([]execution.Execution); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}
