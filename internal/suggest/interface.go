package suggest

import "context"

// Suggester proposes short reply suggestions for a message. An empty
// list is a valid non-error result. Failures never block or fail the
// message delivery that triggered the call.
type Suggester interface {
	Suggest(ctx context.Context, text string) ([]string, error)
}
