package redis

import (
	"context"
	"testing"
	"time"

	"digital-wallet-backend/internal/core/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testQuote(userID uuid.UUID) domain.TransferQuote {
	recipient := uuid.New()
	return domain.TransferQuote{
		UserID:             userID,
		Type:               domain.TransferTypeInternal,
		Amount:             decimal.RequireFromString("2500.00"),
		Fee:                decimal.Zero,
		Currency:           "NGN",
		SenderAccountID:    uuid.New(),
		RecipientAccountID: &recipient,
	}
}

func TestTransferCodeStore_PutAndConsume(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewTransferCodeStore(client)
	ctx := context.Background()

	userID := uuid.New()
	quote := testQuote(userID)

	require.NoError(t, store.Put(ctx, userID, "CODE123", quote, 10*time.Minute))

	got, err := store.Consume(ctx, userID, "CODE123")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, quote.UserID, got.UserID)
	assert.Equal(t, quote.Type, got.Type)
	assert.True(t, quote.Amount.Equal(got.Amount))
	assert.Equal(t, quote.SenderAccountID, got.SenderAccountID)
}

func TestTransferCodeStore_Consume_OneTime(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewTransferCodeStore(client)
	ctx := context.Background()

	userID := uuid.New()
	require.NoError(t, store.Put(ctx, userID, "CODE123", testQuote(userID), 10*time.Minute))

	first, err := store.Consume(ctx, userID, "CODE123")
	require.NoError(t, err)
	require.NotNil(t, first)

	// Second consume must miss
	second, err := store.Consume(ctx, userID, "CODE123")
	require.NoError(t, err)
	assert.Nil(t, second, "a code can only be consumed once")
}

func TestTransferCodeStore_Consume_Unknown(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewTransferCodeStore(client)

	got, err := store.Consume(context.Background(), uuid.New(), "NOPE")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTransferCodeStore_Consume_Expired(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewTransferCodeStore(client)
	ctx := context.Background()

	userID := uuid.New()
	require.NoError(t, store.Put(ctx, userID, "CODE123", testQuote(userID), 1*time.Second))

	s.FastForward(2 * time.Second)

	got, err := store.Consume(ctx, userID, "CODE123")
	require.NoError(t, err)
	assert.Nil(t, got, "expired code should not be consumable")
}

func TestTransferCodeStore_Consume_WrongUser(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewTransferCodeStore(client)
	ctx := context.Background()

	owner := uuid.New()
	require.NoError(t, store.Put(ctx, owner, "CODE123", testQuote(owner), 10*time.Minute))

	got, err := store.Consume(ctx, uuid.New(), "CODE123")
	require.NoError(t, err)
	assert.Nil(t, got, "codes are scoped to the user that created them")

	// Owner can still consume
	mine, err := store.Consume(ctx, owner, "CODE123")
	require.NoError(t, err)
	assert.NotNil(t, mine)
}
