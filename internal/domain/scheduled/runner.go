package scheduled

import (
	"context"
	"fmt"

	"github.com/rpggio/scriptdesk/internal/adapter"
	"github.com/rpggio/scriptdesk/internal/collection"
)

// Runner triggers immediate runs of tasks held by a mounted session.
type Runner struct {
	session *adapter.Session[Task, Form]
	client  Client
}

// NewRunner creates a Runner for session.
func NewRunner(session *adapter.Session[Task, Form], client Client) *Runner {
	return &Runner{session: session, client: client}
}

// RunNow asks for confirmation and then starts the task. The local
// collection is not changed; the next load picks up the new run info.
func (r *Runner) RunNow(ctx context.Context, id int64) error {
	name := fmt.Sprintf("#%d", id)
	if task, ok := r.session.Store().Get(id); ok {
		name = task.Name
	}

	prompt := adapter.Prompt{
		Action:  "runNow",
		ID:      id,
		Title:   "Run now",
		Message: fmt.Sprintf("Are you sure you want to run %q now?", name),
	}
	return r.session.Trigger(ctx, "runNow", prompt, func(ctx context.Context) error {
		return r.client.RunNow(ctx, id)
	})
}

// SetEnabled enables or disables a task and mirrors the flag locally.
func (r *Runner) SetEnabled(ctx context.Context, id int64, enabled bool) error {
	fire := func(ctx context.Context) error {
		return r.client.SetEnabled(ctx, id, enabled)
	}
	return r.session.Mutate(ctx, "setEnabled", fire, func(store *collection.Store[Task]) {
		task, ok := store.Get(id)
		if !ok {
			return
		}
		task.Enabled = enabled
		_ = store.Update(task)
	})
}
