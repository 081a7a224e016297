package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"digital-wallet-backend/internal/core/domain"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// TransferCodeStore implements ports.TransferCodeStore. One-time transfer
// validation codes live in Redis with a short TTL and are consumed with
// GETDEL, so reuse is impossible even across processes.
type TransferCodeStore struct {
	client *goredis.Client
	prefix string
}

// NewTransferCodeStore creates a new Redis-backed transfer code store.
func NewTransferCodeStore(client *goredis.Client) *TransferCodeStore {
	return &TransferCodeStore{
		client: client,
		prefix: "transfercode:",
	}
}

func (s *TransferCodeStore) key(userID uuid.UUID, code string) string {
	return s.prefix + userID.String() + ":" + code
}

// Put stores a quote under the user's code with a TTL.
func (s *TransferCodeStore) Put(ctx context.Context, userID uuid.UUID, code string, quote domain.TransferQuote, ttl time.Duration) error {
	payload, err := json.Marshal(quote)
	if err != nil {
		return fmt.Errorf("marshal transfer quote: %w", err)
	}
	if err := s.client.Set(ctx, s.key(userID, code), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis transfer code set: %w", err)
	}
	return nil
}

// Consume atomically fetches and deletes the quote. Returns (nil, nil) when
// the code is absent, expired, or already consumed.
func (s *TransferCodeStore) Consume(ctx context.Context, userID uuid.UUID, code string) (*domain.TransferQuote, error) {
	val, err := s.client.GetDel(ctx, s.key(userID, code)).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis transfer code consume: %w", err)
	}

	quote := &domain.TransferQuote{}
	if err := json.Unmarshal(val, quote); err != nil {
		return nil, fmt.Errorf("unmarshal transfer quote: %w", err)
	}
	return quote, nil
}
