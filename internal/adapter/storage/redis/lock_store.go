package redis

import (
	"context"
	"fmt"
	"time"

	"digital-wallet-backend/internal/core/ports"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock only if the caller still owns it, so a
// holder whose TTL expired cannot release a lock re-acquired by someone else.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// LockStore implements ports.TransferLock using Redis SET NX with a TTL.
// The TTL bounds the blast radius of a crashed holder; it is the only
// timeout safety net.
type LockStore struct {
	client *goredis.Client
	prefix string
}

// NewLockStore creates a new Redis-backed transfer lock.
func NewLockStore(client *goredis.Client) *LockStore {
	return &LockStore{
		client: client,
		prefix: "transferlock:",
	}
}

// Acquire takes the lock or fails fast with ports.ErrLockContention.
func (s *LockStore) Acquire(ctx context.Context, key string, ttl time.Duration) (*ports.Lock, error) {
	redisKey := s.prefix + key
	token := uuid.NewString()

	ok, err := s.client.SetNX(ctx, redisKey, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lock acquire: %w", err)
	}
	if !ok {
		return nil, ports.ErrLockContention
	}
	return &ports.Lock{Key: redisKey, Token: token}, nil
}

// Release frees the lock if the token still matches. Releasing an expired or
// stolen lock is a no-op, not an error.
func (s *LockStore) Release(ctx context.Context, lock *ports.Lock) error {
	if lock == nil {
		return nil
	}
	if err := releaseScript.Run(ctx, s.client, []string{lock.Key}, lock.Token).Err(); err != nil {
		return fmt.Errorf("redis lock release: %w", err)
	}
	return nil
}
