/**
 * @description
 * Short-TTL read-through cache for hot repository reads (best bid/ask,
 * spread). An ambient read-path optimization, not a correctness
 * dependency: every miss or decode failure falls through to the caller's
 * Postgres lookup.
 *
 * @dependencies
 * - github.com/redis/go-redis/v9
 */

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fuel-spark/orderbook-indexer/internal/logger"
	"github.com/redis/go-redis/v9"
)

// TTL is how long a cached best-bid/best-ask/spread entry is trusted
// before the next read falls through to Postgres again.
const TTL = 2 * time.Second

// Cache wraps a redis.Client with a typed get-or-compute helper.
type Cache struct {
	client *redis.Client
}

// New builds a Cache over an existing redis.Client.
func New(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// BestPriceKey builds the cache key for a best-bid/best-ask lookup.
func BestPriceKey(marketID, side string) string {
	return fmt.Sprintf("orderbook:%s:best:%s", marketID, side)
}

// SpreadKey builds the cache key for a spread lookup.
func SpreadKey(marketID string) string {
	return fmt.Sprintf("orderbook:%s:spread", marketID)
}

// GetOrCompute returns the cached value for key if present and
// unexpired, otherwise calls compute, caches its result, and returns it.
// A Redis failure (miss, decode error, or connection error) never
// surfaces as an error — it simply falls through to compute.
func GetOrCompute[T any](ctx context.Context, c *Cache, key string, compute func() (T, error)) (T, error) {
	var out T

	raw, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		if jsonErr := json.Unmarshal(raw, &out); jsonErr == nil {
			return out, nil
		}
		logger.Error("cache: decode %s failed, falling through to source", key)
	} else if !errors.Is(err, redis.Nil) {
		logger.Error("cache: get %s failed: %v", key, err)
	}

	out, err = compute()
	if err != nil {
		return out, err
	}

	if data, marshalErr := json.Marshal(out); marshalErr == nil {
		if setErr := c.client.Set(ctx, key, data, TTL).Err(); setErr != nil {
			logger.Error("cache: set %s failed: %v", key, setErr)
		}
	}

	return out, nil
}
