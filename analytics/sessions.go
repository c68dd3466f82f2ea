package analytics

import (
	"context"
	"sort"
	"strconv"
	"time"

	"sitecms/api/models"
)

// DefaultSessionGap is the inactivity gap after which a visitor's next event opens a new session.
const DefaultSessionGap = 30 * time.Minute

// AnnotatedEvent is a page view tagged with its visitor, session and dwell estimate.
type AnnotatedEvent struct {
	models.Event
	VisitorKey   string
	SessionID    string
	DwellSeconds float64
}

// Session is a maximal run of one visitor's events with no gap above the threshold.
// It only exists for the duration of a query.
type Session struct {
	ID          string
	VisitorKey  string
	EventIDs    []int64
	ResourceIDs []int64
	StartedAt   time.Time
	EndedAt     time.Time
}

// Sessionize groups events by visitor and splits each visitor's timeline on gaps
// strictly greater than gap. The result is ordered by visitor key and then by
// (occurred_at, id), so every session's events are contiguous.
func Sessionize(ctx context.Context, events []models.Event, gap time.Duration) ([]AnnotatedEvent, error) {
	groups := make(map[string][]models.Event)
	for _, e := range events {
		key := VisitorKey(e)
		groups[key] = append(groups[key], e)
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]AnnotatedEvent, 0, len(events))
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		timeline := groups[key]
		sort.Slice(timeline, func(i, j int) bool { return timeline[i].Before(timeline[j]) })

		index := 0
		var prev time.Time
		for i, e := range timeline {
			if i == 0 || e.OccurredAt.Sub(prev) > gap {
				index++
			}
			prev = e.OccurredAt
			out = append(out, AnnotatedEvent{
				Event:      e,
				VisitorKey: key,
				SessionID:  key + "-" + strconv.Itoa(index),
			})
		}
	}
	return out, nil
}

// Sessions collapses annotated events (as returned by Sessionize) into sessions.
func Sessions(events []AnnotatedEvent) []Session {
	var out []Session
	for _, e := range events {
		if n := len(out); n == 0 || out[n-1].ID != e.SessionID {
			out = append(out, Session{
				ID:         e.SessionID,
				VisitorKey: e.VisitorKey,
				StartedAt:  e.OccurredAt,
			})
		}
		s := &out[len(out)-1]
		s.EventIDs = append(s.EventIDs, e.ID)
		s.EndedAt = e.OccurredAt
		if e.ResourceID != nil && !containsID(s.ResourceIDs, *e.ResourceID) {
			s.ResourceIDs = append(s.ResourceIDs, *e.ResourceID)
		}
	}
	return out
}

// SessionSizes counts events per session id.
func SessionSizes(events []AnnotatedEvent) map[string]int {
	sizes := make(map[string]int)
	for _, e := range events {
		sizes[e.SessionID]++
	}
	return sizes
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
