package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"picpay-wallet/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
)

const walletCacheTTL = 5 * time.Minute

// WalletCache implements ports.WalletCache using Redis. Entries are JSON
// wallet snapshots keyed by wallet id; both participants of a transfer
// are invalidated after the commit.
type WalletCache struct {
	client *goredis.Client
	prefix string
}

// NewWalletCache creates a new Redis-backed wallet cache.
func NewWalletCache(client *goredis.Client) *WalletCache {
	return &WalletCache{
		client: client,
		prefix: "wallet:",
	}
}

// Get retrieves a cached wallet snapshot.
// Returns nil, nil if the key does not exist.
func (c *WalletCache) Get(ctx context.Context, id int64) (*domain.Wallet, error) {
	val, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis wallet get: %w", err)
	}

	w := &domain.Wallet{}
	if err := json.Unmarshal(val, w); err != nil {
		return nil, fmt.Errorf("unmarshal cached wallet: %w", err)
	}
	return w, nil
}

// Set stores a wallet snapshot with TTL.
func (c *WalletCache) Set(ctx context.Context, w *domain.Wallet) error {
	data, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("marshal wallet: %w", err)
	}
	if err := c.client.Set(ctx, c.key(w.ID), data, walletCacheTTL).Err(); err != nil {
		return fmt.Errorf("redis wallet set: %w", err)
	}
	return nil
}

// Invalidate drops cached snapshots for the given wallet ids.
func (c *WalletCache) Invalidate(ctx context.Context, ids ...int64) error {
	if len(ids) == 0 {
		return nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = c.key(id)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis wallet invalidate: %w", err)
	}
	return nil
}

func (c *WalletCache) key(id int64) string {
	return c.prefix + strconv.FormatInt(id, 10)
}
