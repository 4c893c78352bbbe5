package listener

import "context"

// Client manages listeners on the remote side.
type Client interface {
	GetAll(ctx context.Context) ([]Listener, error)
	Create(ctx context.Context, form Form) (Listener, error)
	Update(ctx context.Context, id int64, form Form) (Listener, error)
	Delete(ctx context.Context, id int64) error
}
