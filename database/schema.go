package database

import (
	"context"
	"fmt"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS admins (
		id BIGSERIAL PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		hashed_password BYTEA NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS pages (
		id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS activity_logs (
		id BIGSERIAL PRIMARY KEY,
		action TEXT NOT NULL,
		resource_type TEXT NOT NULL,
		resource_id BIGINT,
		user_id BIGINT,
		ip_address TEXT,
		user_agent TEXT,
		occurred_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_activity_logs_occurred_at ON activity_logs (occurred_at, id)`,
}

// EnsureSchema creates the tables this service reads and writes.
func (c *DBClient) EnsureSchema(ctx context.Context) error {
	for _, stmt := range postgresSchema {
		if _, err := c.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply postgres schema: %w", err)
		}
	}
	return nil
}

const clickhouseActivityTable = `
	CREATE TABLE IF NOT EXISTS activity_logs (
		id UInt64,
		action LowCardinality(String),
		resource_type LowCardinality(String),
		resource_id Nullable(Int64),
		user_id Nullable(Int64),
		ip_address String,
		user_agent String,
		occurred_at DateTime64(3, 'UTC')
	) ENGINE = MergeTree
	ORDER BY (occurred_at, id)
`

// EnsureSchema creates the activity log table in ClickHouse.
func (c *ClickHouseClient) EnsureSchema(ctx context.Context) error {
	if err := c.Conn.Exec(ctx, clickhouseActivityTable); err != nil {
		return fmt.Errorf("failed to apply clickhouse schema: %w", err)
	}
	return nil
}
