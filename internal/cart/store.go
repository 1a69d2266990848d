package cart

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/hamdiks/cardstore/internal/config"
)

// Store persists cart snapshots between requests. Implementations must
// treat a missing or corrupt snapshot as an empty cart.
type Store interface {
	Load(ctx context.Context, guestID string) (*Cart, error)
	Save(ctx context.Context, guestID string, c *Cart) error
	Delete(ctx context.Context, guestID string) error
}

// RedisStore keeps guest carts in Redis under <prefix>:<guest id>. Every
// Save refreshes the TTL, so an active cart never expires mid-session while
// abandoned ones age out on their own.
type RedisStore struct {
	rdb *redis.Client
	cfg config.CartConfig
}

// NewRedisStore builds a RedisStore. The Redis client must be non-nil;
// callers that run without Redis should not register the cart routes.
func NewRedisStore(rdb *redis.Client, cfg config.CartConfig) *RedisStore {
	return &RedisStore{rdb: rdb, cfg: cfg}
}

func (s *RedisStore) key(guestID string) string { return s.cfg.Prefix + ":" + guestID }

// Load fetches and decodes the cart for a guest. A missing key or a
// snapshot that fails to parse both come back as an empty cart.
func (s *RedisStore) Load(ctx context.Context, guestID string) (*Cart, error) {
	data, err := s.rdb.Get(ctx, s.key(guestID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return New(), nil
		}
		return nil, err
	}
	return Decode(data), nil
}

// Save writes the cart snapshot and refreshes its TTL.
func (s *RedisStore) Save(ctx context.Context, guestID string, c *Cart) error {
	data, err := c.Encode()
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, s.key(guestID), data, s.cfg.TTL).Err()
}

// Delete drops the stored cart entirely.
func (s *RedisStore) Delete(ctx context.Context, guestID string) error {
	return s.rdb.Del(ctx, s.key(guestID)).Err()
}
