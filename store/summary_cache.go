package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"sitecms/api/models"
)

const summaryCachePrefix = "analytics:summary"

// RedisSummaryCache stores engagement summaries in Redis. Entries are namespaced
// by a generation counter; bumping it orphans every entry at once and the TTL
// reclaims them.
type RedisSummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSummaryCache(client *redis.Client, ttl time.Duration) *RedisSummaryCache {
	return &RedisSummaryCache{client: client, ttl: ttl}
}

func (c *RedisSummaryCache) generationKey() string {
	return summaryCachePrefix + ":generation"
}

func (c *RedisSummaryCache) entryKey(ctx context.Context, key string) (string, error) {
	gen, err := c.client.Get(ctx, c.generationKey()).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("failed to read cache generation: %w", err)
	}
	return fmt.Sprintf("%s:%d:%s", summaryCachePrefix, gen, key), nil
}

// Get returns the cached summary for key, or nil, together with the entry key
// a recomputed summary must be stored under. The generation is read once here,
// so a summary computed across an Invalidate lands in an orphaned generation.
func (c *RedisSummaryCache) Get(ctx context.Context, key string) (*models.EngagementSummary, string, error) {
	slot, err := c.entryKey(ctx, key)
	if err != nil {
		return nil, "", err
	}
	raw, err := c.client.Get(ctx, slot).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, slot, nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to read cached summary: %w", err)
	}

	var summary models.EngagementSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		// Overwritten by the recomputed summary.
		return nil, slot, fmt.Errorf("failed to decode cached summary: %w", err)
	}
	return &summary, slot, nil
}

// Set stores summary under a slot returned by Get.
func (c *RedisSummaryCache) Set(ctx context.Context, slot string, summary *models.EngagementSummary) error {
	if c.ttl <= 0 || slot == "" {
		return nil
	}
	raw, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	if err := c.client.Set(ctx, slot, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cached summary: %w", err)
	}
	return nil
}

func (c *RedisSummaryCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, c.generationKey()).Err(); err != nil {
		return fmt.Errorf("failed to bump cache generation: %w", err)
	}
	return nil
}
