package restscript

import "context"

// Client manages REST scripts on the remote side.
type Client interface {
	GetAll(ctx context.Context) ([]Script, error)
	Create(ctx context.Context, form Form) (Script, error)
	Update(ctx context.Context, id int64, form Form) (Script, error)
	Delete(ctx context.Context, id int64) error
}
