package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultIdempotencyTTL = 24 * time.Hour

// IdempotencyStore implements ports.IdempotencyStore backed by Redis.
// Key format: idempotency:task:<owner>:<key>
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotencyStore wraps client. A non-positive ttl means defaultIdempotencyTTL.
func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Lookup returns the task id remembered for key.
func (s *IdempotencyStore) Lookup(ctx context.Context, owner, key string) (int64, bool, error) {
	val, err := s.client.Get(ctx, idempotencyKey(owner, key)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("idempotency lookup: %w", err)
	}
	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("idempotency lookup: corrupt value %q: %w", val, err)
	}
	return id, true, nil
}

// Remember records taskID for key unless the key is already taken (expires after ttl).
func (s *IdempotencyStore) Remember(ctx context.Context, owner, key string, taskID int64) error {
	return s.client.SetNX(ctx, idempotencyKey(owner, key), strconv.FormatInt(taskID, 10), s.ttl).Err()
}

func idempotencyKey(owner, key string) string {
	return fmt.Sprintf("idempotency:task:%s:%s", owner, key)
}
