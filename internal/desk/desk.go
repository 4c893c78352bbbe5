// Package desk mounts one adapter session per administration section and
// exposes them to the console and MCP surfaces.
package desk

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rpggio/scriptdesk/internal/adapter"
	"github.com/rpggio/scriptdesk/internal/domain/execution"
	"github.com/rpggio/scriptdesk/internal/domain/jira"
	"github.com/rpggio/scriptdesk/internal/domain/listener"
	"github.com/rpggio/scriptdesk/internal/domain/registry"
	"github.com/rpggio/scriptdesk/internal/domain/restscript"
	"github.com/rpggio/scriptdesk/internal/domain/scheduled"
	"github.com/rpggio/scriptdesk/internal/domain/watch"
	"github.com/rpggio/scriptdesk/internal/refdata"
)

// Section names.
const (
	SectionListeners = "listeners"
	SectionScheduled = "scheduled"
	SectionRegistry  = "registry"
	SectionRest      = "rest"
)

// Sections lists every section in display order.
var Sections = []string{SectionListeners, SectionScheduled, SectionRegistry, SectionRest}

var (
	// ErrUnknownSection is returned for a section name outside Sections.
	ErrUnknownSection = errors.New("unknown section")
	// ErrItemNotFound is returned when a section does not hold an id.
	ErrItemNotFound = errors.New("item not found")
)

// Clients are the remote services the desk talks to.
type Clients struct {
	Listeners   listener.Client
	Scheduled   scheduled.Client
	Registry    registry.Client
	RestScripts restscript.Client
	Executions  execution.Client
	Watches     watch.Client
	Jira        jira.Client
}

// Options configures every section adapter.
type Options struct {
	Confirmer adapter.Confirmer
	Logger    *slog.Logger
	Metrics   adapter.Recorder
}

// section is the type-independent surface of a mounted session.
type section interface {
	Load(ctx context.Context) error
	Phase() adapter.Phase
	Status() adapter.Status
	Delete(ctx context.Context, id int64) error
	Watch(ctx context.Context, id int64, watching bool) error
	Query(ctx context.Context, op string, fetch func(ctx context.Context) error) error
	Unmount()
}

// Desk holds the mounted sessions.
type Desk struct {
	Listeners *adapter.Session[listener.Listener, listener.Form]
	Scheduled *adapter.Session[scheduled.Task, scheduled.Form]
	Registry  *adapter.Session[registry.Script, registry.ScriptForm]
	Rest      *adapter.Session[restscript.Script, restscript.Form]
	Runner    *scheduled.Runner

	sections    map[string]section
	directories registry.Client
	executions  execution.Client
	logger      *slog.Logger
}

// New builds the section adapters and mounts a session for each.
func New(clients Clients, opts Options) *Desk {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	listeners := adapter.New(adapter.Config[listener.Listener, listener.Form]{
		Section:    SectionListeners,
		EntityType: watch.EntityListener,
		Client:     clients.Listeners,
		Watches:    clients.Watches,
		References: []adapter.ReferenceLoader{
			ProjectLoader(clients.Jira),
			EventTypeLoader(clients.Jira),
		},
		Confirmer: opts.Confirmer,
		Logger:    logger,
		Metrics:   opts.Metrics,
	})

	tasks := adapter.New(adapter.Config[scheduled.Task, scheduled.Form]{
		Section:    SectionScheduled,
		EntityType: watch.EntityScheduledTask,
		Client:     clients.Scheduled,
		Watches:    clients.Watches,
		Confirmer:  opts.Confirmer,
		Logger:     logger,
		Metrics:    opts.Metrics,
	})

	scripts := adapter.New(adapter.Config[registry.Script, registry.ScriptForm]{
		Section:    SectionRegistry,
		EntityType: watch.EntityRegistryScript,
		Client:     registry.Scripts{Client: clients.Registry},
		Watches:    clients.Watches,
		References: []adapter.ReferenceLoader{DirectoryLoader(clients.Registry)},
		Resolve:    registry.WithPath,
		Confirmer:  opts.Confirmer,
		Logger:     logger,
		Metrics:    opts.Metrics,
	})

	endpoints := adapter.New(adapter.Config[restscript.Script, restscript.Form]{
		Section:    SectionRest,
		EntityType: watch.EntityRestScript,
		Client:     clients.RestScripts,
		Watches:    clients.Watches,
		Confirmer:  opts.Confirmer,
		Logger:     logger,
		Metrics:    opts.Metrics,
	})

	d := &Desk{
		Listeners:   listeners.Mount(),
		Scheduled:   tasks.Mount(),
		Registry:    scripts.Mount(),
		Rest:        endpoints.Mount(),
		directories: clients.Registry,
		executions:  clients.Executions,
		logger:      logger,
	}
	d.sections = map[string]section{
		SectionListeners: d.Listeners,
		SectionScheduled: d.Scheduled,
		SectionRegistry:  d.Registry,
		SectionRest:      d.Rest,
	}
	d.Runner = scheduled.NewRunner(d.Scheduled, clients.Scheduled)
	return d
}

func (d *Desk) section(name string) (section, error) {
	s, ok := d.sections[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSection, name)
	}
	return s, nil
}

// Load loads every section concurrently. A failing section does not stop
// the others; all failures are joined.
func (d *Desk) Load(ctx context.Context) error {
	var (
		mu   sync.Mutex
		errs []error
		wg   sync.WaitGroup
	)
	for name, sec := range d.sections {
		wg.Go(func() {
			if err := sec.Load(ctx); err != nil {
				d.logger.Warn("section load failed", "section", name, "error", err)
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		})
	}
	wg.Wait()
	return errors.Join(errs...)
}

// LoadSection reloads one section.
func (d *Desk) LoadSection(ctx context.Context, name string) error {
	sec, err := d.section(name)
	if err != nil {
		return err
	}
	return sec.Load(ctx)
}

// Phase returns the load phase of a section.
func (d *Desk) Phase(name string) (adapter.Phase, error) {
	sec, err := d.section(name)
	if err != nil {
		return adapter.PhaseUninitialized, err
	}
	return sec.Phase(), nil
}

// Status returns the phase, item count and last load error of a section.
func (d *Desk) Status(name string) (adapter.Status, error) {
	sec, err := d.section(name)
	if err != nil {
		return adapter.Status{}, err
	}
	return sec.Status(), nil
}

// Delete deletes an item of section, subject to confirmation.
func (d *Desk) Delete(ctx context.Context, name string, id int64) error {
	sec, err := d.section(name)
	if err != nil {
		return err
	}
	return sec.Delete(ctx, id)
}

// Watch subscribes to or unsubscribes from an item of section.
func (d *Desk) Watch(ctx context.Context, name string, id int64, watching bool) error {
	sec, err := d.section(name)
	if err != nil {
		return err
	}
	return sec.Watch(ctx, id, watching)
}

// History fetches the run history of an item. Registry scripts are looked
// up by id, every other section by the item's uuid, so the item must be
// held by the section.
func (d *Desk) History(ctx context.Context, name string, id int64) ([]execution.Execution, error) {
	sec, err := d.section(name)
	if err != nil {
		return nil, err
	}
	if d.executions == nil {
		return nil, &adapter.FetchError{Section: name, Op: "history", Err: errors.New("no execution service")}
	}

	var fetch func(ctx context.Context) ([]execution.Execution, error)
	if name == SectionRegistry {
		fetch = func(ctx context.Context) ([]execution.Execution, error) {
			return d.executions.GetRegistryExecutions(ctx, id)
		}
	} else {
		uuid, ok := d.uuidOf(name, id)
		if !ok {
			return nil, fmt.Errorf("%w: %s #%d", ErrItemNotFound, name, id)
		}
		fetch = func(ctx context.Context) ([]execution.Execution, error) {
			return d.executions.GetInlineExecutions(ctx, uuid)
		}
	}

	var out []execution.Execution
	err = sec.Query(ctx, "history", func(ctx context.Context) error {
		var err error
		out, err = fetch(ctx)
		return err
	})
	return out, err
}

func (d *Desk) uuidOf(name string, id int64) (string, bool) {
	switch name {
	case SectionListeners:
		l, ok := d.Listeners.Store().Get(id)
		return l.UUID, ok
	case SectionScheduled:
		t, ok := d.Scheduled.Store().Get(id)
		return t.UUID, ok
	case SectionRest:
		s, ok := d.Rest.Store().Get(id)
		return s.UUID, ok
	}
	return "", false
}

// Directories returns the registry directory client.
func (d *Desk) Directories() registry.Client {
	return d.directories
}

// Unmount detaches every session.
func (d *Desk) Unmount() {
	for _, sec := range d.sections {
		sec.Unmount()
	}
}

// ProjectLoader fills SlotProjects.
func ProjectLoader(client jira.Client) adapter.ReferenceLoader {
	return adapter.ReferenceLoader{
		Slot: refdata.SlotProjects,
		Fetch: func(ctx context.Context) (refdata.Labels, error) {
			projects, err := client.GetAllProjects(ctx)
			if err != nil {
				return nil, err
			}
			return jira.ProjectLabels(projects), nil
		},
	}
}

// EventTypeLoader fills SlotEventTypes.
func EventTypeLoader(client jira.Client) adapter.ReferenceLoader {
	return adapter.ReferenceLoader{
		Slot: refdata.SlotEventTypes,
		Fetch: func(ctx context.Context) (refdata.Labels, error) {
			types, err := client.GetEventTypes(ctx)
			if err != nil {
				return nil, err
			}
			return jira.EventTypeLabels(types), nil
		},
	}
}

// DirectoryLoader fills SlotDirectories with directory paths.
func DirectoryLoader(client registry.Client) adapter.ReferenceLoader {
	return adapter.ReferenceLoader{
		Slot: refdata.SlotDirectories,
		Fetch: func(ctx context.Context) (refdata.Labels, error) {
			return registry.DirectoryPaths(ctx, client)
		},
	}
}
