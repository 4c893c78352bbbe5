package adapter

import "context"

// Prompt is a yes/no question shown before a destructive or side-effecting action.
type Prompt struct {
	Action  string `json:"action"`
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Confirmer answers prompts.
type Confirmer interface {
	Confirm(ctx context.Context, prompt Prompt) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt Prompt) (bool, error)

// Confirm calls f.
func (f ConfirmFunc) Confirm(ctx context.Context, prompt Prompt) (bool, error) {
	return f(ctx, prompt)
}

type confirmationKey struct{}

// WithConfirmation stores a pre-answered confirmation in ctx, for surfaces
// where the answer arrives with the request (a query flag, a tool argument).
func WithConfirmation(ctx context.Context, confirmed bool) context.Context {
	return context.WithValue(ctx, confirmationKey{}, confirmed)
}

// ContextConfirmer answers prompts from the value set by WithConfirmation.
// A missing value declines.
type ContextConfirmer struct{}

// Confirm implements Confirmer.
func (ContextConfirmer) Confirm(ctx context.Context, _ Prompt) (bool, error) {
	confirmed, _ := ctx.Value(confirmationKey{}).(bool)
	return confirmed, nil
}
