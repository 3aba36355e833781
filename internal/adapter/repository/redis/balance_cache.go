package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// BalanceCache implements usecase.BalanceCache on Redis. Keys embed the
// group's balance version, so a bumped version naturally misses and the old
// entry ages out via TTL; no explicit invalidation is needed.
type BalanceCache struct {
	client *redis.Client
	prefix string
}

// NewBalanceCache creates a new BalanceCache.
func NewBalanceCache(client *redis.Client) *BalanceCache {
	return &BalanceCache{
		client: client,
		prefix: "balances:",
	}
}

func (c *BalanceCache) key(groupID string, version int64) string {
	return fmt.Sprintf("%s%s:v%d", c.prefix, groupID, version)
}

// Get retrieves cached balances for the group at the given version.
func (c *BalanceCache) Get(ctx context.Context, groupID string, version int64) (map[string]int64, bool, error) {
	data, err := c.client.Get(ctx, c.key(groupID, version)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var balances map[string]int64
	if err := json.Unmarshal(data, &balances); err != nil {
		return nil, false, err
	}

	return balances, true, nil
}

// Set stores balances for the group at the given version.
func (c *BalanceCache) Set(ctx context.Context, groupID string, version int64, balances map[string]int64, ttl time.Duration) error {
	data, err := json.Marshal(balances)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, c.key(groupID, version), data, ttl).Err()
}
