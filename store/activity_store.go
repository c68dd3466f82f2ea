package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"sitecms/api/logging"
	"sitecms/api/models"
)

// ActivityLog is the append-only event log. Both backends satisfy analytics.EventSource.
type ActivityLog interface {
	Append(ctx context.Context, events []models.Event) ([]models.Event, error)
	FetchEvents(ctx context.Context, start, end time.Time) ([]models.Event, error)
}

// PostgresActivityStore keeps the activity log in the activity_logs table.
type PostgresActivityStore struct {
	db *sql.DB
}

func NewPostgresActivityStore(db *sql.DB) *PostgresActivityStore {
	return &PostgresActivityStore{db: db}
}

// Append inserts events in one transaction and returns them with their assigned ids.
// Events without OccurredAt are stamped by the database.
func (s *PostgresActivityStore) Append(ctx context.Context, events []models.Event) ([]models.Event, error) {
	if len(events) == 0 {
		return nil, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin activity insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO activity_logs (action, resource_type, resource_id, user_id, ip_address, user_agent, occurred_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), COALESCE($7, now()))
		RETURNING id, occurred_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare activity insert: %w", err)
	}
	defer stmt.Close()

	out := make([]models.Event, 0, len(events))
	for _, e := range events {
		var occurredAt sql.NullTime
		if !e.OccurredAt.IsZero() {
			occurredAt = sql.NullTime{Time: e.OccurredAt, Valid: true}
		}
		err := stmt.QueryRowContext(ctx,
			e.Action,
			e.ResourceType,
			nullInt64(e.ResourceID),
			nullInt64(e.UserID),
			e.IPAddress,
			e.UserAgent,
			occurredAt,
		).Scan(&e.ID, &e.OccurredAt)
		if err != nil {
			return nil, fmt.Errorf("failed to insert activity event: %w", err)
		}
		out = append(out, e)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit activity insert: %w", err)
	}
	return out, nil
}

// FetchEvents returns every event in [start, end] ordered by (occurred_at, id).
func (s *PostgresActivityStore) FetchEvents(ctx context.Context, start, end time.Time) ([]models.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, action, resource_type, resource_id, user_id, ip_address, user_agent, occurred_at
		FROM activity_logs
		WHERE occurred_at >= $1 AND occurred_at <= $2
		ORDER BY occurred_at ASC, id ASC
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity logs: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var (
			id           int64
			action       sql.NullString
			resourceType sql.NullString
			resourceID   sql.NullInt64
			userID       sql.NullInt64
			ipAddress    sql.NullString
			userAgent    sql.NullString
			occurredAt   sql.NullTime
		)
		if err := rows.Scan(&id, &action, &resourceType, &resourceID, &userID, &ipAddress, &userAgent, &occurredAt); err != nil {
			// Keep a zero event so the engine counts the row as malformed.
			logging.Ctx(ctx).Warn().Err(err).Msg("error scanning activity log row")
			events = append(events, models.Event{})
			continue
		}
		events = append(events, models.Event{
			ID:           id,
			Action:       action.String,
			ResourceType: resourceType.String,
			ResourceID:   int64Ptr(resourceID),
			UserID:       int64Ptr(userID),
			IPAddress:    ipAddress.String,
			UserAgent:    userAgent.String,
			OccurredAt:   occurredAt.Time,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error during activity log query: %w", err)
	}
	return events, nil
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func int64Ptr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	return &v.Int64
}
