// Package refdata holds read-only lookup dictionaries (projects, event types,
// registry directories) used to render foreign keys as labels.
package refdata

import (
	"strconv"
	"sync"
)

// Slot names one reference dictionary.
type Slot string

const (
	SlotProjects    Slot = "projects"
	SlotEventTypes  Slot = "eventTypes"
	SlotDirectories Slot = "directories"
)

// Slots lists every known slot in a stable order.
var Slots = []Slot{SlotProjects, SlotEventTypes, SlotDirectories}

// Labels maps a foreign id to its display label.
type Labels map[int64]string

// Bundle carries reference data for a combined load. Nil fields are left
// untouched by Merge.
type Bundle struct {
	Projects    Labels `json:"projects,omitempty"`
	EventTypes  Labels `json:"eventTypes,omitempty"`
	Directories Labels `json:"directories,omitempty"`
}

// Set stores labels into the field that backs slot.
func (b *Bundle) Set(slot Slot, labels Labels) {
	switch slot {
	case SlotProjects:
		b.Projects = labels
	case SlotEventTypes:
		b.EventTypes = labels
	case SlotDirectories:
		b.Directories = labels
	}
}

// Cache is a concurrency-safe set of reference dictionaries.
type Cache struct {
	mu    sync.RWMutex
	slots map[Slot]Labels
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{slots: make(map[Slot]Labels, len(Slots))}
}

// Load replaces the contents of slot with a copy of labels.
func (c *Cache) Load(slot Slot, labels Labels) {
	cp := make(Labels, len(labels))
	for id, label := range labels {
		cp[id] = label
	}

	c.mu.Lock()
	c.slots[slot] = cp
	c.mu.Unlock()
}

// Merge loads every non-nil field of b.
func (c *Cache) Merge(b Bundle) {
	if b.Projects != nil {
		c.Load(SlotProjects, b.Projects)
	}
	if b.EventTypes != nil {
		c.Load(SlotEventTypes, b.EventTypes)
	}
	if b.Directories != nil {
		c.Load(SlotDirectories, b.Directories)
	}
}

// Get returns the label for id. ok is false when the slot or id is unknown.
func (c *Cache) Get(slot Slot, id int64) (label string, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	label, ok = c.slots[slot][id]
	return label, ok
}

// Display returns the label for id, or the raw id when it is missing.
func (c *Cache) Display(slot Slot, id int64) string {
	if label, ok := c.Get(slot, id); ok {
		return label
	}
	return "#" + strconv.FormatInt(id, 10)
}

// Loaded reports whether slot has been loaded at least once.
func (c *Cache) Loaded(slot Slot) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.slots[slot]
	return ok
}

// Snapshot copies the current contents into a Bundle.
func (c *Cache) Snapshot() Bundle {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var b Bundle
	for slot, labels := range c.slots {
		cp := make(Labels, len(labels))
		for id, label := range labels {
			cp[id] = label
		}
		b.Set(slot, cp)
	}
	return b
}
