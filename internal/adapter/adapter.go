// Package adapter sequences remote calls for one entity section and folds
// their results into a per-mount collection store.
package adapter

import (
	"context"
	"log/slog"
	"time"

	"github.com/rpggio/scriptdesk/internal/collection"
	"github.com/rpggio/scriptdesk/internal/domain/watch"
	"github.com/rpggio/scriptdesk/internal/refdata"
)

// Client is the remote collection service of one entity type.
type Client[T collection.Entity, F any] interface {
	GetAll(ctx context.Context) ([]T, error)
	Create(ctx context.Context, form F) (T, error)
	Update(ctx context.Context, id int64, form F) (T, error)
	Delete(ctx context.Context, id int64) error
}

// ReferenceLoader fetches one reference data slot.
type ReferenceLoader struct {
	Slot  refdata.Slot
	Fetch func(ctx context.Context) (refdata.Labels, error)
}

// Recorder observes remote calls.
type Recorder interface {
	Observe(ctx context.Context, section, op string, success bool, duration time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) Observe(context.Context, string, string, bool, time.Duration) {}

// Config wires an Adapter.
type Config[T collection.Entity, F any] struct {
	Section    string
	EntityType watch.EntityType
	Client     Client[T, F]
	Watches    watch.Client
	References []ReferenceLoader
	// Resolve rewrites a created or updated item against the session's
	// reference data before it is stored and returned. Optional.
	Resolve   func(item T, ref *refdata.Cache) T
	Confirmer Confirmer
	Logger    *slog.Logger
	Metrics   Recorder
}

// Adapter holds the collaborators of one section. It is shared by every
// mount of that section; state lives in the sessions it creates.
type Adapter[T collection.Entity, F any] struct {
	section    string
	entityType watch.EntityType
	client     Client[T, F]
	watches    watch.Client
	refs       []ReferenceLoader
	resolve    func(T, *refdata.Cache) T
	confirmer  Confirmer
	logger     *slog.Logger
	metrics    Recorder
}

// New creates an Adapter. A nil Confirmer declines every prompt.
func New[T collection.Entity, F any](cfg Config[T, F]) *Adapter[T, F] {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = nopRecorder{}
	}
	confirmer := cfg.Confirmer
	if confirmer == nil {
		confirmer = ConfirmFunc(func(context.Context, Prompt) (bool, error) { return false, nil })
	}
	return &Adapter[T, F]{
		section:    cfg.Section,
		entityType: cfg.EntityType,
		client:     cfg.Client,
		watches:    cfg.Watches,
		refs:       cfg.References,
		resolve:    cfg.Resolve,
		confirmer:  confirmer,
		logger:     logger.With("section", cfg.Section),
		metrics:    metrics,
	}
}

// Section returns the section name.
func (a *Adapter[T, F]) Section() string {
	return a.section
}

// EntityType returns the watch tag of the section's entities.
func (a *Adapter[T, F]) EntityType() watch.EntityType {
	return a.entityType
}

// Mount creates a session with a fresh store.
func (a *Adapter[T, F]) Mount() *Session[T, F] {
	return &Session[T, F]{
		adapter: a,
		store:   collection.New[T](a.logger),
	}
}

// call runs fn, records metrics and wraps failures as FetchError.
func (a *Adapter[T, F]) call(ctx context.Context, op string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	a.metrics.Observe(ctx, a.section, op, err == nil, time.Since(start))
	if err != nil {
		return &FetchError{Section: a.section, Op: op, Err: err}
	}
	return nil
}
