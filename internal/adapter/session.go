package adapter

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rpggio/scriptdesk/internal/collection"
	"github.com/rpggio/scriptdesk/internal/domain/watch"
	"github.com/rpggio/scriptdesk/internal/refdata"
	"golang.org/x/sync/errgroup"
)

// Phase is the load state of a session.
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseLoading
	PhaseReady
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	default:
		return "uninitialized"
	}
}

// Session is one mount of a section. It owns its store from Mount until
// Unmount; results arriving after Unmount are dropped.
type Session[T collection.Entity, F any] struct {
	adapter *Adapter[T, F]
	store   *collection.Store[T]

	mu      sync.Mutex
	phase   Phase
	unmount bool

	// loadSeq numbers Load calls; appliedSeq is the newest one applied.
	loadSeq    uint64
	appliedSeq uint64
	loadErr    error
}

// Store returns the session's collection store.
func (s *Session[T, F]) Store() *collection.Store[T] {
	return s.store
}

// Section returns the section name.
func (s *Session[T, F]) Section() string {
	return s.adapter.section
}

// EntityType returns the watch tag of the section's entities.
func (s *Session[T, F]) EntityType() watch.EntityType {
	return s.adapter.entityType
}

// Phase returns the current load phase.
func (s *Session[T, F]) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// LoadError returns the failure of the most recent load, or nil once a load
// has been applied after it.
func (s *Session[T, F]) LoadError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadErr
}

// Status is a point-in-time summary of a session.
type Status struct {
	Phase Phase
	Items int
	Err   error
}

// Status reports the phase, the item count and the last load error together.
func (s *Session[T, F]) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{Phase: s.phase, Items: s.store.Len(), Err: s.loadErr}
}

// Unmount detaches the session. Later calls return ErrUnmounted.
func (s *Session[T, F]) Unmount() {
	s.mu.Lock()
	s.unmount = true
	s.mu.Unlock()
}

// apply runs fn against the store unless the session was unmounted. The
// session lock is held so Unmount cannot interleave with a dispatch.
func (s *Session[T, F]) apply(fn func(store *collection.Store[T])) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.unmount {
		return ErrUnmounted
	}
	fn(s.store)
	return nil
}

func (s *Session[T, F]) check(needReady bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.unmount {
		return ErrUnmounted
	}
	if needReady && s.phase != PhaseReady {
		return ErrNotReady
	}
	return nil
}

// Load fetches the collection, the watches and every reference slot
// concurrently and applies them as one store load. Any failure fails the
// whole load and the phase stays Loading. When loads overlap, a result
// older than the one already applied is discarded.
func (s *Session[T, F]) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.unmount {
		s.mu.Unlock()
		return ErrUnmounted
	}
	if s.phase == PhaseUninitialized {
		s.phase = PhaseLoading
	}
	s.loadSeq++
	seq := s.loadSeq
	s.mu.Unlock()

	a := s.adapter
	var (
		items   []T
		watches []watch.Watch
		labels  = make([]refdata.Labels, len(a.refs))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.call(gctx, "getAll", func(ctx context.Context) error {
			var err error
			items, err = a.client.GetAll(ctx)
			return err
		})
	})
	if a.watches != nil {
		g.Go(func() error {
			return a.call(gctx, "getAllWatches", func(ctx context.Context) error {
				var err error
				watches, err = a.watches.GetAllWatches(ctx, a.entityType)
				return err
			})
		})
	}
	for i, ref := range a.refs {
		g.Go(func() error {
			return a.call(gctx, "reference:"+string(ref.Slot), func(ctx context.Context) error {
				var err error
				labels[i], err = ref.Fetch(ctx)
				return err
			})
		})
	}

	if err := g.Wait(); err != nil {
		a.logger.Warn("load failed", "error", err)
		s.mu.Lock()
		if seq == s.loadSeq {
			s.loadErr = err
		}
		s.mu.Unlock()
		return err
	}

	var bundle refdata.Bundle
	for i, ref := range a.refs {
		if labels[i] == nil {
			labels[i] = refdata.Labels{}
		}
		bundle.Set(ref.Slot, labels[i])
	}

	stale := false
	err := s.apply(func(store *collection.Store[T]) {
		if seq < s.appliedSeq {
			stale = true
			return
		}
		store.Load(items, watch.Index(watches), bundle)
		s.appliedSeq = seq
		s.phase = PhaseReady
		s.loadErr = nil
	})
	if err != nil {
		a.logger.Debug("discarding load result for unmounted session")
		return err
	}
	if stale {
		a.logger.Debug("discarding stale load result", "seq", seq)
		return nil
	}
	a.logger.Debug("section loaded", "items", len(items), "watches", len(watches))
	return nil
}

// Create creates an entity remotely and adds the server's copy locally.
// If the session was unmounted meanwhile the created entity is returned
// with ErrUnmounted.
func (s *Session[T, F]) Create(ctx context.Context, form F) (T, error) {
	var created T
	if err := s.check(true); err != nil {
		return created, err
	}

	a := s.adapter
	err := a.call(ctx, "create", func(ctx context.Context) error {
		var err error
		created, err = a.client.Create(ctx, form)
		return err
	})
	if err != nil {
		var zero T
		return zero, err
	}

	err = s.apply(func(store *collection.Store[T]) {
		created = s.resolved(created)
		if err := store.Add(created); err != nil {
			a.logger.Warn("created item not added", "id", created.EntityID(), "error", err)
		}
	})
	return created, err
}

func (s *Session[T, F]) resolved(item T) T {
	if s.adapter.resolve == nil {
		return item
	}
	return s.adapter.resolve(item, s.store.Reference())
}

// Update updates an entity remotely and replaces the local copy.
func (s *Session[T, F]) Update(ctx context.Context, id int64, form F) (T, error) {
	var updated T
	if err := s.check(true); err != nil {
		return updated, err
	}

	a := s.adapter
	err := a.call(ctx, "update", func(ctx context.Context) error {
		var err error
		updated, err = a.client.Update(ctx, id, form)
		return err
	})
	if err != nil {
		var zero T
		return zero, err
	}

	err = s.apply(func(store *collection.Store[T]) {
		updated = s.resolved(updated)
		if err := store.Update(updated); err != nil {
			a.logger.Warn("updated item not held locally", "id", updated.EntityID(), "error", err)
		}
	})
	return updated, err
}

// Delete asks for confirmation, deletes the entity remotely and removes it
// locally together with its watch.
func (s *Session[T, F]) Delete(ctx context.Context, id int64) error {
	if err := s.check(true); err != nil {
		return err
	}

	name := fmt.Sprintf("#%d", id)
	if item, ok := s.store.Get(id); ok {
		name = item.EntityName()
	}
	prompt := Prompt{
		Action:  "delete",
		ID:      id,
		Title:   "Delete " + name,
		Message: fmt.Sprintf("Are you sure you want to delete %q?", name),
	}
	if err := s.confirm(ctx, prompt); err != nil {
		return err
	}

	a := s.adapter
	err := a.call(ctx, "delete", func(ctx context.Context) error {
		return a.client.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	return s.apply(func(store *collection.Store[T]) {
		if err := store.Remove(id); err != nil {
			a.logger.Debug("deleted item not held locally", "id", id)
		}
	})
}

// Watch subscribes or unsubscribes the current user and records the result.
func (s *Session[T, F]) Watch(ctx context.Context, id int64, watching bool) error {
	if err := s.check(true); err != nil {
		return err
	}

	a := s.adapter
	if a.watches == nil {
		return &FetchError{Section: a.section, Op: "watch", Err: errors.New("no watch service")}
	}
	err := a.call(ctx, "watch", func(ctx context.Context) error {
		if watching {
			return a.watches.Watch(ctx, a.entityType, id)
		}
		return a.watches.Unwatch(ctx, a.entityType, id)
	})
	if err != nil {
		return err
	}

	return s.apply(func(store *collection.Store[T]) {
		store.SetWatch(id, watching)
	})
}

// Trigger confirms and then fires a side-effecting remote action. The store
// is not touched.
func (s *Session[T, F]) Trigger(ctx context.Context, op string, prompt Prompt, fire func(ctx context.Context) error) error {
	if err := s.check(false); err != nil {
		return err
	}
	if err := s.confirm(ctx, prompt); err != nil {
		return err
	}
	if err := s.adapter.call(ctx, op, fire); err != nil {
		return err
	}
	return s.check(false)
}

// Query runs a read that is not held in the store, such as run history,
// with the section's metrics and error wrapping.
func (s *Session[T, F]) Query(ctx context.Context, op string, fetch func(ctx context.Context) error) error {
	if err := s.check(false); err != nil {
		return err
	}
	return s.adapter.call(ctx, op, fetch)
}

// Mutate fires a remote action and, on success, patches the store.
func (s *Session[T, F]) Mutate(ctx context.Context, op string, fire func(ctx context.Context) error, patch func(store *collection.Store[T])) error {
	if err := s.check(true); err != nil {
		return err
	}
	if err := s.adapter.call(ctx, op, fire); err != nil {
		return err
	}
	return s.apply(patch)
}

func (s *Session[T, F]) confirm(ctx context.Context, prompt Prompt) error {
	ok, err := s.adapter.confirmer.Confirm(ctx, prompt)
	if err != nil {
		return fmt.Errorf("confirm %s: %w", prompt.Action, err)
	}
	if !ok {
		return ErrDeclined
	}
	return nil
}
