package models

import (
	"strconv"
	"time"
)

const (
	ActionView       = "view"
	ResourceTypePage = "page"
)

// Event is one row of the append-only activity log.
// Empty IPAddress/UserAgent and nil ResourceID/UserID mean the signal was not recorded.
type Event struct {
	ID           int64     `json:"id"`
	Action       string    `json:"action"`
	ResourceType string    `json:"resource_type"`
	ResourceID   *int64    `json:"resource_id,omitempty"`
	UserID       *int64    `json:"user_id,omitempty"`
	IPAddress    string    `json:"ip_address,omitempty"`
	UserAgent    string    `json:"user_agent,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// IsPageView reports whether the event takes part in session and engagement computation.
func (e Event) IsPageView() bool {
	return e.Action == ActionView && e.ResourceType == ResourceTypePage
}

// Malformed reports why an event cannot be used, or "" when it is well formed.
func (e Event) Malformed() string {
	switch {
	case e.ID <= 0:
		return "missing id"
	case e.Action == "":
		return "missing action"
	case e.ResourceType == "":
		return "missing resource_type"
	case e.OccurredAt.IsZero():
		return "missing or unparseable occurred_at"
	}
	return ""
}

// Before implements the (occurred_at, id) total order.
func (e Event) Before(o Event) bool {
	if e.OccurredAt.Equal(o.OccurredAt) {
		return e.ID < o.ID
	}
	return e.OccurredAt.Before(o.OccurredAt)
}

// TrackRequest is the body accepted by POST /api/track.
type TrackRequest struct {
	Action       string `json:"action" binding:"required,max=64"`
	ResourceType string `json:"resource_type" binding:"required,max=64"`
	ResourceID   *int64 `json:"resource_id,omitempty" binding:"omitempty,min=1"`
}

// Int64Ptr is a small helper for optional ids.
func Int64Ptr(v int64) *int64 { return &v }

// FormatID renders an optional id, "" when absent.
func FormatID(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}
