package watch

// EntityType tags the kind of entity a watch refers to.
type EntityType string

const (
	EntityListener          EntityType = "LISTENER"
	EntityScheduledTask     EntityType = "SCHEDULED_TASK"
	EntityRegistryScript    EntityType = "REGISTRY_SCRIPT"
	EntityRegistryDirectory EntityType = "REGISTRY_DIRECTORY"
	EntityRestScript        EntityType = "REST_SCRIPT"
)

// Valid reports whether t is a known entity type.
func (t EntityType) Valid() bool {
	switch t {
	case EntityListener, EntityScheduledTask, EntityRegistryScript, EntityRegistryDirectory, EntityRestScript:
		return true
	}
	return false
}

// Watch is the current user's subscription state for one entity.
type Watch struct {
	EntityID int64 `json:"entityId"`
	Watching bool  `json:"watching"`
}

// Index converts a watch list to an id keyed map. Later entries win.
func Index(watches []Watch) map[int64]bool {
	out := make(map[int64]bool, len(watches))
	for _, w := range watches {
		out[w.EntityID] = w.Watching
	}
	return out
}
