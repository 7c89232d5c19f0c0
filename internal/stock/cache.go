package stock

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const diagnosticsKeyPrefix = "stock:diagnostics:"

// DiagnosticsCache is a read-through cache for drift diagnostics. The
// cached counter is itself derived state, so staleness here costs at
// most one TTL of outdated breakdown; a reconcile invalidates the key.
type DiagnosticsCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewDiagnosticsCache instantiates the cache helper.
func NewDiagnosticsCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *DiagnosticsCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &DiagnosticsCache{client: client, ttl: ttl, logger: logger}
}

func diagnosticsKey(productID int64) string {
	return fmt.Sprintf("%s%d", diagnosticsKeyPrefix, productID)
}

// Get returns a cached diagnostics entry. Cache failures are soft: a
// redis error reads as a miss.
func (c *DiagnosticsCache) Get(ctx context.Context, productID int64) (Diagnostics, bool) {
	if c == nil || c.client == nil {
		return Diagnostics{}, false
	}
	raw, err := c.client.Get(ctx, diagnosticsKey(productID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("diagnostics cache read", slog.Any("error", err))
		}
		return Diagnostics{}, false
	}
	var diag Diagnostics
	if err := json.Unmarshal(raw, &diag); err != nil {
		return Diagnostics{}, false
	}
	return diag, true
}

// Set stores a diagnostics entry with the configured TTL.
func (c *DiagnosticsCache) Set(ctx context.Context, diag Diagnostics) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(diag)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, diagnosticsKey(diag.Product.ID), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("diagnostics cache write", slog.Any("error", err))
	}
}

// Invalidate drops the cached entry after a reconcile changed the counter.
func (c *DiagnosticsCache) Invalidate(ctx context.Context, productID int64) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, diagnosticsKey(productID)).Err(); err != nil {
		c.logger.Warn("diagnostics cache invalidate", slog.Any("error", err))
	}
}
