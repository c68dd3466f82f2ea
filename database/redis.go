package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"sitecms/api/config"
	"sitecms/api/logging"
)

// NewRedis connects to the summary cache. Returns nil, nil when no URL is configured.
func NewRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	logging.Info().Str("addr", opts.Addr).Msg("connected to Redis")
	return client, nil
}
