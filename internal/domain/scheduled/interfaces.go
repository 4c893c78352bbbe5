package scheduled

import "context"

// Client manages scheduled tasks on the remote side.
type Client interface {
	GetAll(ctx context.Context) ([]Task, error)
	Create(ctx context.Context, form Form) (Task, error)
	Update(ctx context.Context, id int64, form Form) (Task, error)
	Delete(ctx context.Context, id int64) error
	RunNow(ctx context.Context, id int64) error
	SetEnabled(ctx context.Context, id int64, enabled bool) error
}
