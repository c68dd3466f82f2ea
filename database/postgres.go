package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"sitecms/api/config"
	"sitecms/api/logging"
)

type DBClient struct {
	DB *sql.DB
}

// NewPostgresDB opens the pool holding admins, pages and (by default) the activity log.
func NewPostgresDB(ctx context.Context, cfg config.PostgresConfig) (*DBClient, error) {
	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("error opening database connection: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err = db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to the database (ping failed): %w", err)
	}

	logging.Info().Msg("connected to PostgreSQL")
	return &DBClient{DB: db}, nil
}

func (c *DBClient) Close() {
	if c.DB == nil {
		return
	}
	if err := c.DB.Close(); err != nil {
		logging.Error().Err(err).Msg("error closing PostgreSQL connection")
		return
	}
	logging.Info().Msg("PostgreSQL connection closed")
}
