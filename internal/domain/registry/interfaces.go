package registry

import "context"

// Client manages the script registry on the remote side.
type Client interface {
	GetTree(ctx context.Context) ([]Directory, error)
	CreateScript(ctx context.Context, form ScriptForm) (Script, error)
	UpdateScript(ctx context.Context, id int64, form ScriptForm) (Script, error)
	DeleteScript(ctx context.Context, id int64) error
	CreateDirectory(ctx context.Context, form DirectoryForm) (Directory, error)
	UpdateDirectory(ctx context.Context, id int64, form DirectoryForm) (Directory, error)
	DeleteDirectory(ctx context.Context, id int64) error
}
