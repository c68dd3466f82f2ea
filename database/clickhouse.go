package database

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"

	"sitecms/api/config"
	"sitecms/api/logging"
)

type ClickHouseClient struct {
	Conn clickhouse.Conn
}

// NewClickHouseDB connects over the native protocol. Used when EVENT_STORE=clickhouse.
func NewClickHouseDB(ctx context.Context, cfg config.ClickHouseConfig) (*ClickHouseClient, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("CLICKHOUSE_HOST is not set")
	}

	options := &clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		ClientInfo: clickhouse.ClientInfo{
			Products: []struct {
				Name    string
				Version string
			}{{Name: "sitecms-api", Version: "1.0.0"}},
		},
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
		DialTimeout: 5 * time.Second,
	}

	conn, err := clickhouse.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse via Native TCP: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := conn.Ping(pingCtx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	logging.Info().Str("addr", options.Addr[0]).Msg("connected to ClickHouse")
	return &ClickHouseClient{Conn: conn}, nil
}

func (c *ClickHouseClient) Close() {
	if c.Conn == nil {
		return
	}
	if err := c.Conn.Close(); err != nil {
		logging.Error().Err(err).Msg("error closing ClickHouse connection")
		return
	}
	logging.Info().Msg("ClickHouse connection closed")
}
