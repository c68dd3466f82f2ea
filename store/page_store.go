package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// PageStore is the read side of the content catalog needed by analytics.
type PageStore struct {
	db *sql.DB
}

func NewPageStore(db *sql.DB) *PageStore {
	return &PageStore{db: db}
}

// UpdatedAt returns the last update time of each known page. Unknown ids are absent.
func (s *PageStore) UpdatedAt(ctx context.Context, ids []int64) (map[int64]time.Time, error) {
	out := make(map[int64]time.Time, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, updated_at FROM pages WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to query page update times: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id        int64
			updatedAt time.Time
		)
		if err := rows.Scan(&id, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan page update time: %w", err)
		}
		out[id] = updatedAt
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating page update times: %w", err)
	}
	return out, nil
}
