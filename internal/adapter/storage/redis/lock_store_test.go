package redis

import (
	"context"
	"testing"
	"time"

	"digital-wallet-backend/internal/core/ports"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockStore_Acquire_Free(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewLockStore(client)
	ctx := context.Background()

	lock, err := store.Acquire(ctx, "user-1", 30*time.Second)
	require.NoError(t, err)
	require.NotNil(t, lock)
	assert.NotEmpty(t, lock.Token)
}

func TestLockStore_Acquire_Held(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewLockStore(client)
	ctx := context.Background()

	_, err := store.Acquire(ctx, "user-1", 30*time.Second)
	require.NoError(t, err)

	// Second acquire fails fast, no blocking
	lock, err := store.Acquire(ctx, "user-1", 30*time.Second)
	assert.ErrorIs(t, err, ports.ErrLockContention)
	assert.Nil(t, lock)
}

func TestLockStore_Acquire_DifferentKeys(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewLockStore(client)
	ctx := context.Background()

	_, err := store.Acquire(ctx, "user-A", 30*time.Second)
	require.NoError(t, err)

	lock, err := store.Acquire(ctx, "user-B", 30*time.Second)
	require.NoError(t, err)
	assert.NotNil(t, lock, "lock on a different key should succeed")
}

func TestLockStore_Release_AllowsReacquire(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewLockStore(client)
	ctx := context.Background()

	lock, err := store.Acquire(ctx, "user-1", 30*time.Second)
	require.NoError(t, err)

	require.NoError(t, store.Release(ctx, lock))

	again, err := store.Acquire(ctx, "user-1", 30*time.Second)
	require.NoError(t, err)
	assert.NotNil(t, again)
}

func TestLockStore_Release_StaleToken(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewLockStore(client)
	ctx := context.Background()

	first, err := store.Acquire(ctx, "user-1", 1*time.Second)
	require.NoError(t, err)

	// TTL expires, another holder takes the lock
	s.FastForward(2 * time.Second)
	second, err := store.Acquire(ctx, "user-1", 30*time.Second)
	require.NoError(t, err)

	// Releasing with the stale token must not free the new holder's lock
	require.NoError(t, store.Release(ctx, first))

	_, err = store.Acquire(ctx, "user-1", 30*time.Second)
	assert.ErrorIs(t, err, ports.ErrLockContention, "second holder's lock should survive stale release")

	require.NoError(t, store.Release(ctx, second))
}

func TestLockStore_Acquire_AfterExpiry(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewLockStore(client)
	ctx := context.Background()

	_, err := store.Acquire(ctx, "user-1", 1*time.Second)
	require.NoError(t, err)

	s.FastForward(2 * time.Second)

	lock, err := store.Acquire(ctx, "user-1", 30*time.Second)
	require.NoError(t, err)
	assert.NotNil(t, lock, "expired lock should be acquirable")
}

func TestLockStore_Release_NilLock(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewLockStore(client)

	assert.NoError(t, store.Release(context.Background(), nil))
}
