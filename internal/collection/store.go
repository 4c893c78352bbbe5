// Package collection keeps the local copy of a remote entity collection:
// items, filter text, readiness, watch relations and reference data.
package collection

import (
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/rpggio/scriptdesk/internal/refdata"
)

var (
	// ErrNotFound is returned when an operation targets an id that is not held locally.
	ErrNotFound = errors.New("item not found")
	// ErrDuplicate is returned when Add collides with an id that is already held.
	ErrDuplicate = errors.New("item already exists")
)

// Entity is an item of a collection.
type Entity interface {
	EntityID() int64
	EntityName() string
}

// Store holds one collection. All mutations run under a single lock, so each
// operation is applied atomically with respect to the others.
type Store[T Entity] struct {
	mu      sync.RWMutex
	items   []T
	index   map[int64]int
	filter  string
	ready   bool
	watches map[int64]bool
	ref     *refdata.Cache
	logger  *slog.Logger
}

// New creates an empty store that is not ready.
func New[T Entity](logger *slog.Logger) *Store[T] {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store[T]{
		index:   make(map[int64]int),
		watches: make(map[int64]bool),
		ref:     refdata.New(),
		logger:  logger,
	}
}

// Load replaces items and watches, merges reference data and marks the
// store ready. Repeated ids in items keep their first occurrence.
func (s *Store[T]) Load(items []T, watches map[int64]bool, ref refdata.Bundle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make([]T, 0, len(items))
	s.index = make(map[int64]int, len(items))
	for _, item := range items {
		if _, ok := s.index[item.EntityID()]; ok {
			s.logger.Debug("dropping repeated item on load", "id", item.EntityID())
			continue
		}
		s.index[item.EntityID()] = len(s.items)
		s.items = append(s.items, item)
	}

	s.watches = make(map[int64]bool, len(watches))
	for id, watching := range watches {
		s.watches[id] = watching
	}

	s.ref.Merge(ref)
	s.ready = true
}

// Add appends item. It returns ErrDuplicate and leaves the store unchanged
// when the id is already present.
func (s *Store[T]) Add(item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[item.EntityID()]; ok {
		s.logger.Debug("rejecting duplicate item", "id", item.EntityID())
		return ErrDuplicate
	}
	s.index[item.EntityID()] = len(s.items)
	s.items = append(s.items, item)
	return nil
}

// Update replaces the item with the same id, keeping its position.
func (s *Store[T]) Update(item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[item.EntityID()]
	if !ok {
		s.logger.Debug("update of unknown item", "id", item.EntityID())
		return ErrNotFound
	}
	s.items[pos] = item
	return nil
}

// Remove deletes the item and its watch entry.
func (s *Store[T]) Remove(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[id]
	if !ok {
		return ErrNotFound
	}

	s.items = append(s.items[:pos], s.items[pos+1:]...)
	delete(s.index, id)
	for i := pos; i < len(s.items); i++ {
		s.index[s.items[i].EntityID()] = i
	}
	delete(s.watches, id)
	return nil
}

// SetFilter replaces the filter text.
func (s *Store[T]) SetFilter(filter string) {
	s.mu.Lock()
	s.filter = filter
	s.mu.Unlock()
}

// SetWatch records whether the current user watches id.
func (s *Store[T]) SetWatch(id int64, watching bool) {
	s.mu.Lock()
	s.watches[id] = watching
	s.mu.Unlock()
}

// Items returns a copy of all items in order.
func (s *Store[T]) Items() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Visible returns the items whose name contains the filter, ignoring case.
func (s *Store[T]) Visible() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return visible(s.items, s.filter)
}

func visible[T Entity](items []T, filter string) []T {
	needle := strings.ToLower(filter)
	out := make([]T, 0, len(items))
	for _, item := range items {
		if needle == "" || strings.Contains(strings.ToLower(item.EntityName()), needle) {
			out = append(out, item)
		}
	}
	return out
}

// Get returns the item with id.
func (s *Store[T]) Get(id int64) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pos, ok := s.index[id]
	if !ok {
		var zero T
		return zero, false
	}
	return s.items[pos], true
}

// Len returns the number of items.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Filter returns the current filter text.
func (s *Store[T]) Filter() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

// Ready reports whether the initial load has completed.
func (s *Store[T]) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Watching reports the watch state of id.
func (s *Store[T]) Watching(id int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.watches[id]
}

// Watches returns a copy of the watch relations.
func (s *Store[T]) Watches() map[int64]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[int64]bool, len(s.watches))
	for id, watching := range s.watches {
		out[id] = watching
	}
	return out
}

// Reference returns the reference data cache owned by the store.
func (s *Store[T]) Reference() *refdata.Cache {
	return s.ref
}

// Snapshot is a consistent copy of the store state.
type Snapshot[T Entity] struct {
	Items   []T
	Visible []T
	Filter  string
	Ready   bool
	Watches map[int64]bool
}

// Snapshot captures items, visible items, filter, readiness and watches
// under one read lock.
func (s *Store[T]) Snapshot() Snapshot[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot(s.filter)
}

// SnapshotFor is Snapshot with Visible and Filter computed for filter. The
// store's own filter is neither read nor changed, so concurrent readers with
// different filters do not see each other's results.
func (s *Store[T]) SnapshotFor(filter string) Snapshot[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot(filter)
}

func (s *Store[T]) snapshot(filter string) Snapshot[T] {
	items := make([]T, len(s.items))
	copy(items, s.items)
	watches := make(map[int64]bool, len(s.watches))
	for id, watching := range s.watches {
		watches[id] = watching
	}
	return Snapshot[T]{
		Items:   items,
		Visible: visible(s.items, filter),
		Filter:  filter,
		Ready:   s.ready,
		Watches: watches,
	}
}
