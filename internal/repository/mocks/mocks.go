package mocks

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
	"github.com/stretchr/testify/mock"
)

// ListenerRepository is a mock for repository.ListenerRepository.
type ListenerRepository struct {
	mock.Mock
}

func (m *ListenerRepository) List(ctx context.Context) ([]listener.Listener, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]listener.Listener); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ListenerRepository) Get(ctx context.Context, id int64) (listener.Listener, error) {
	args := m.Called(ctx, id)
	l, _ := args.Get(0).(listener.Listener)
	return l, args.Error(1)
}

func (m *ListenerRepository) Create(ctx context.Context, author string, form listener.Form) (listener.Listener, error) {
	args := m.Called(ctx, author, form)
	l, _ := args.Get(0).(listener.Listener)
	return l, args.Error(1)
}

func (m *ListenerRepository) Update(ctx context.Context, author string, id int64, form listener.Form) (listener.Listener, error) {
	args := m.Called(ctx, author, id, form)
	l, _ := args.Get(0).(listener.Listener)
	return l, args.Error(1)
}

func (m *ListenerRepository) Delete(ctx context.Context, author string, id int64) error {
	args := m.Called(ctx, author, id)
	return args.Error(0)
}

// TaskRepository is a mock for repository.TaskRepository.
type TaskRepository struct {
	mock.Mock
}

func (m *TaskRepository) List(ctx context.Context) ([]scheduled.Task, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]scheduled.Task); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TaskRepository) Get(ctx context.Context, id int64) (scheduled.Task, error) {
	args := m.Called(ctx, id)
	task, _ := args.Get(0).(scheduled.Task)
	return task, args.Error(1)
}

func (m *TaskRepository) Create(ctx context.Context, author string, form scheduled.Form) (scheduled.Task, error) {
	args := m.Called(ctx, author, form)
	task, _ := args.Get(0).(scheduled.Task)
	return task, args.Error(1)
}

func (m *TaskRepository) Update(ctx context.Context, author string, id int64, form scheduled.Form) (scheduled.Task, error) {
	args := m.Called(ctx, author, id, form)
	task, _ := args.Get(0).(scheduled.Task)
	return task, args.Error(1)
}

func (m *TaskRepository) Delete(ctx context.Context, author string, id int64) error {
	args := m.Called(ctx, author, id)
	return args.Error(0)
}

func (m *TaskRepository) SetEnabled(ctx context.Context, id int64, enabled bool) error {
	args := m.Called(ctx, id, enabled)
	return args.Error(0)
}

func (m *TaskRepository) RecordRun(ctx context.Context, id int64, run scheduled.RunInfo) error {
	args := m.Called(ctx, id, run)
	return args.Error(0)
}

// RegistryRepository is a mock for repository.RegistryRepository.
type RegistryRepository struct {
	mock.Mock
}

func (m *RegistryRepository) Tree(ctx context.Context) ([]registry.Directory, error) {
	args := m.Called(ctx)
	if tree, ok := args.Get(0).([]registry.Directory); ok {
		return tree, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RegistryRepository) GetScript(ctx context.Context, id int64) (registry.Script, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(registry.Script)
	return s, args.Error(1)
}

func (m *RegistryRepository) CreateScript(ctx context.Context, author string, form registry.ScriptForm) (registry.Script, error) {
	args := m.Called(ctx, author, form)
	s, _ := args.Get(0).(registry.Script)
	return s, args.Error(1)
}

func (m *RegistryRepository) UpdateScript(ctx context.Context, author string, id int64, form registry.ScriptForm) (registry.Script, error) {
	args := m.Called(ctx, author, id, form)
	s, _ := args.Get(0).(registry.Script)
	return s, args.Error(1)
}

func (m *RegistryRepository) DeleteScript(ctx context.Context, author string, id int64) error {
	args := m.Called(ctx, author, id)
	return args.Error(0)
}

func (m *RegistryRepository) CreateDirectory(ctx context.Context, form registry.DirectoryForm) (registry.Directory, error) {
	args := m.Called(ctx, form)
	d, _ := args.Get(0).(registry.Directory)
	return d, args.Error(1)
}

func (m *RegistryRepository) UpdateDirectory(ctx context.Context, id int64, form registry.DirectoryForm) (registry.Directory, error) {
	args := m.Called(ctx, id, form)
	d, _ := args.Get(0).(registry.Directory)
	return d, args.Error(1)
}

func (m *RegistryRepository) DeleteDirectory(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// WatchRepository is a mock for repository.WatchRepository.
type WatchRepository struct {
	mock.Mock
}

func (m *WatchRepository) List(ctx context.Context, userKey string, entityType watch.EntityType) ([]int64, error) {
	args := m.Called(ctx, userKey, entityType)
	if ids, ok := args.Get(0).([]int64); ok {
		return ids, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *WatchRepository) Watch(ctx context.Context, userKey string, entityType watch.EntityType, id int64) error {
	args := m.Called(ctx, userKey, entityType, id)
	return args.Error(0)
}

func (m *WatchRepository) Unwatch(ctx context.Context, userKey string, entityType watch.EntityType, id int64) error {
	args := m.Called(ctx, userKey, entityType, id)
	return args.Error(0)
}

// ReferenceRepository is a mock for repository.ReferenceRepository.
type ReferenceRepository struct {
	mock.Mock
}

func (m *ReferenceRepository) EventTypes(ctx context.Context) ([]jira.EventType, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]jira.EventType); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ReferenceRepository) Projects(ctx context.Context) ([]jira.Project, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]jira.Project); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// RestScriptRepository is a mock for repository.RestScriptRepository.
type RestScriptRepository struct {
	mock.Mock
}

func (m *RestScriptRepository) List(ctx context.Context) ([]restscript.Script, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]restscript.Script); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RestScriptRepository) Get(ctx context.Context, id int64) (restscript.Script, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(restscript.Script)
	return s, args.Error(1)
}

func (m *RestScriptRepository) Create(ctx context.Context, author string, form restscript.Form) (restscript.Script, error) {
	args := m.Called(ctx, author, form)
	s, _ := args.Get(0).(restscript.Script)
	return s, args.Error(1)
}

func (m *RestScriptRepository) Update(ctx context.Context, author string, id int64, form restscript.Form) (restscript.Script, error) {
	args := m.Called(ctx, author, id, form)
	s, _ := args.Get(0).(restscript.Script)
	return s, args.Error(1)
}

func (m *RestScriptRepository) Delete(ctx context.Context, author string, id int64) error {
	args := m.Called(ctx, author, id)
	return args.Error(0)
}

// ExecutionRepository is a mock for repository.ExecutionRepository.
type ExecutionRepository struct {
	mock.Mock
}

func (m *ExecutionRepository) TrackRegistry(ctx context.Context, scriptID int64, run execution.Execution) (execution.Execution, error) {
	args := m.Called(ctx, scriptID, run)
	e, _ := args.Get(0).(execution.Execution)
	return e, args.Error(1)
}

func (m *ExecutionRepository) TrackInline(ctx context.Context, uuid string, run execution.Execution) (execution.Execution, error) {
	args := m.Called(ctx, uuid, run)
	e, _ := args.Get(0).(execution.Execution)
	return e, args.Error(1)
}

func (m *ExecutionRepository) ForRegistry(ctx context.Context, scriptID int64) ([]execution.Execution, error) {
	args := m.Called(ctx, scriptID)
	if list, ok := args.Get(0).([]execution.Execution); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ExecutionRepository) ForInline(ctx context.Context, uuid string) ([]execution.Execution, error) {
	args := m.Called(ctx, uuid)
	if list, ok := args.Get(0).([]execution.Execution); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ExecutionRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}
