package ports

import "context"

// IdempotencyStore remembers which task a client-supplied idempotency key produced.
// Keys are scoped per owner.
type IdempotencyStore interface {
	// Lookup returns the task id stored for key, and false when the key is unseen.
	Lookup(ctx context.Context, owner, key string) (int64, bool, error)
	Remember(ctx context.Context, owner, key string, taskID int64) error
}
