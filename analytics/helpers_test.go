package analytics

import (
	"context"
	"time"

	"sitecms/api/models"
)

var base = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func at(seconds int) time.Time {
	return base.Add(time.Duration(seconds) * time.Second)
}

func view(id int64, userID int64, resource int64, ts time.Time) models.Event {
	e := models.Event{
		ID:           id,
		Action:       models.ActionView,
		ResourceType: models.ResourceTypePage,
		OccurredAt:   ts,
	}
	if userID != 0 {
		e.UserID = models.Int64Ptr(userID)
	}
	if resource != 0 {
		e.ResourceID = models.Int64Ptr(resource)
	}
	return e
}

func anonView(id int64, ip, ua string, resource int64, ts time.Time) models.Event {
	e := view(id, 0, resource, ts)
	e.IPAddress = ip
	e.UserAgent = ua
	return e
}

// fakeSource serves a fixed event set, or blocks until the fetch context ends.
type fakeSource struct {
	events []models.Event
	err    error
	block  bool
	calls  int
}

func (f *fakeSource) FetchEvents(ctx context.Context, start, end time.Time) ([]models.Event, error) {
	f.calls++
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Event
	for _, e := range f.events {
		if e.OccurredAt.IsZero() || (!e.OccurredAt.Before(start) && !e.OccurredAt.After(end)) {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeCatalog struct {
	updated map[int64]time.Time
	err     error
}

func (f *fakeCatalog) UpdatedAt(ctx context.Context, ids []int64) (map[int64]time.Time, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.updated, nil
}

func dayRange() TimeRange {
	return TimeRange{Start: base.Add(-time.Hour), End: base.Add(24 * time.Hour)}
}
