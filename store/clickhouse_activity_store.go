package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"sitecms/api/database"
	"sitecms/api/logging"
	"sitecms/api/models"
)

// ClickHouseActivityStore keeps the activity log in a ClickHouse MergeTree table.
type ClickHouseActivityStore struct {
	DB  *database.ClickHouseClient
	ids *idSequence
}

func NewClickHouseActivityStore(chClient *database.ClickHouseClient) *ClickHouseActivityStore {
	return &ClickHouseActivityStore{DB: chClient, ids: &idSequence{}}
}

// Append writes events in a single batch. ClickHouse has no sequences, so ids
// are taken from a per-process monotonic clock.
func (s *ClickHouseActivityStore) Append(ctx context.Context, events []models.Event) ([]models.Event, error) {
	if len(events) == 0 {
		return nil, nil
	}

	batch, err := s.DB.Conn.PrepareBatch(ctx, `
		INSERT INTO activity_logs (
			id, action, resource_type, resource_id, user_id, ip_address, user_agent, occurred_at
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare batch insert: %w", err)
	}

	now := time.Now().UTC()
	out := make([]models.Event, 0, len(events))
	for _, e := range events {
		e.ID = s.ids.next()
		if e.OccurredAt.IsZero() {
			e.OccurredAt = now
		}
		if err := batch.Append(
			uint64(e.ID),
			e.Action,
			e.ResourceType,
			e.ResourceID,
			e.UserID,
			e.IPAddress,
			e.UserAgent,
			e.OccurredAt,
		); err != nil {
			return nil, fmt.Errorf("failed to append event to batch: %w", err)
		}
		out = append(out, e)
	}

	if err := batch.Send(); err != nil {
		return nil, fmt.Errorf("failed to send batch: %w", err)
	}
	logging.Ctx(ctx).Debug().Int("events", len(out)).Msg("inserted activity events into ClickHouse")
	return out, nil
}

// FetchEvents returns every event in [start, end] ordered by (occurred_at, id).
func (s *ClickHouseActivityStore) FetchEvents(ctx context.Context, start, end time.Time) ([]models.Event, error) {
	rows, err := s.DB.Conn.Query(ctx, `
		SELECT id, action, resource_type, resource_id, user_id, ip_address, user_agent, occurred_at
		FROM activity_logs
		WHERE occurred_at >= ? AND occurred_at <= ?
		ORDER BY occurred_at ASC, id ASC
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity logs: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var (
			id         uint64
			e          models.Event
			resourceID *int64
			userID     *int64
		)
		if err := rows.Scan(&id, &e.Action, &e.ResourceType, &resourceID, &userID, &e.IPAddress, &e.UserAgent, &e.OccurredAt); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Msg("error scanning ClickHouse activity row")
			events = append(events, models.Event{})
			continue
		}
		e.ID = int64(id)
		e.ResourceID = resourceID
		e.UserID = userID
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error during activity log query: %w", err)
	}
	return events, nil
}

// idSequence hands out strictly increasing ids derived from wall-clock nanoseconds.
type idSequence struct {
	mu   sync.Mutex
	last int64
}

func (s *idSequence) next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := time.Now().UnixNano()
	if id <= s.last {
		id = s.last + 1
	}
	s.last = id
	return id
}
