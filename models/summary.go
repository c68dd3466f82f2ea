package models

import "time"

// EngagementSummary is what the dashboard's Analytics views render.
// Every slice is non-nil so the JSON never carries null.
type EngagementSummary struct {
	Window         Window               `json:"window"`
	Trend          []TrendPoint         `json:"trend"`
	TopResources   []ResourceViews      `json:"top_resources"`
	ActionCounts   []ActionCount        `json:"action_counts"`
	DeviceCounts   []DeviceCount        `json:"device_counts"`
	BrowserCounts  []BrowserCount       `json:"browser_counts"`
	Metrics        EngagementMetrics    `json:"metrics"`
	PerResource    []ResourceEngagement `json:"per_resource"`
	SkippedRecords int                  `json:"skipped_records"`
}

type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type TrendPoint struct {
	Date  string `json:"date"`
	Views int    `json:"views"`
}

type ResourceViews struct {
	ResourceID int64 `json:"resource_id"`
	Views      int   `json:"views"`
}

type ActionCount struct {
	Action string `json:"action"`
	Count  int    `json:"count"`
}

type DeviceCount struct {
	DeviceClass string `json:"device_class"`
	Count       int    `json:"count"`
}

type BrowserCount struct {
	BrowserClass string `json:"browser_class"`
	Count        int    `json:"count"`
}

type EngagementMetrics struct {
	TotalSessions   int     `json:"total_sessions"`
	UniqueVisitors  int     `json:"unique_visitors"`
	TotalEvents     int     `json:"total_events"`
	AvgDwellSeconds float64 `json:"avg_dwell_seconds"`
	BounceRatio     float64 `json:"bounce_ratio"`
}

type ResourceEngagement struct {
	ResourceID      int64   `json:"resource_id"`
	Views           int     `json:"views"`
	UniqueVisitors  int     `json:"unique_visitors"`
	AvgDwellSeconds float64 `json:"avg_dwell_seconds"`
	BounceRatio     float64 `json:"bounce_ratio"`
}

// SessionView is the debug listing shape for reconstructed sessions.
type SessionView struct {
	SessionID   string    `json:"session_id"`
	VisitorKey  string    `json:"visitor_key"`
	EventIDs    []int64   `json:"event_ids"`
	ResourceIDs []int64   `json:"resource_ids"`
	StartedAt   time.Time `json:"started_at"`
	EndedAt     time.Time `json:"ended_at"`
}

// SessionListing is the body of GET /api/stats/sessions.
type SessionListing struct {
	Sessions       []SessionView `json:"sessions"`
	Count          int           `json:"count"`
	SkippedRecords int           `json:"skipped_records"`
}
