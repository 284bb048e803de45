package skills

import "context"

// Completer is a single-turn chat model.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}
