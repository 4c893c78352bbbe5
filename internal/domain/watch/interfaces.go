package watch

import "context"

// Client reads and changes watch relations on the remote side.
type Client interface {
	GetAllWatches(ctx context.Context, entityType EntityType) ([]Watch, error)
	Watch(ctx context.Context, entityType EntityType, id int64) error
	Unwatch(ctx context.Context, entityType EntityType, id int64) error
}
