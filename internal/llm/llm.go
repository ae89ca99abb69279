package llm

import "context"

// Completer is the answer service: an opaque, possibly slow, possibly failing
// network call that turns a system instruction and user message into a single
// text completion. Failures propagate to the caller; there are no retries.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}
