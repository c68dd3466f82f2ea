package analytics

import (
	"sort"
	"time"

	"sitecms/api/models"
)

const trendDateLayout = "2006-01-02"

// checkEvery is how many events a loop processes between cancellation checks.
const checkEvery = 1024

// Aggregate computes the engagement metrics of events. sizes maps every session
// id to its full length, which may cover events outside the slice when it was
// restricted to one resource.
func Aggregate(events []AnnotatedEvent, sizes map[string]int) models.EngagementMetrics {
	var m models.EngagementMetrics
	if len(events) == 0 {
		return m
	}

	sessions := make(map[string]struct{})
	visitors := make(map[string]struct{})
	var dwell float64
	for _, e := range events {
		sessions[e.SessionID] = struct{}{}
		visitors[e.VisitorKey] = struct{}{}
		dwell += e.DwellSeconds
	}

	bounces := 0
	for id := range sessions {
		if sizes[id] == 1 {
			bounces++
		}
	}

	m.TotalEvents = len(events)
	m.TotalSessions = len(sessions)
	m.UniqueVisitors = len(visitors)
	m.AvgDwellSeconds = dwell / float64(len(events))
	if m.TotalSessions > 0 {
		m.BounceRatio = float64(bounces) / float64(m.TotalSessions)
	}
	return m
}

// RollupByResource computes per-resource engagement, ranked by views, then by the
// most recently updated resource, then by resource id. Page views without a
// resource id only count towards the global metrics.
func RollupByResource(events []AnnotatedEvent, sizes map[string]int, updatedAt map[int64]time.Time) []models.ResourceEngagement {
	byResource := make(map[int64][]AnnotatedEvent)
	for _, e := range events {
		if e.ResourceID == nil {
			continue
		}
		byResource[*e.ResourceID] = append(byResource[*e.ResourceID], e)
	}

	out := make([]models.ResourceEngagement, 0, len(byResource))
	for id, evs := range byResource {
		m := Aggregate(evs, sizes)
		out = append(out, models.ResourceEngagement{
			ResourceID:      id,
			Views:           m.TotalEvents,
			UniqueVisitors:  m.UniqueVisitors,
			AvgDwellSeconds: m.AvgDwellSeconds,
			BounceRatio:     m.BounceRatio,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Views != b.Views {
			return a.Views > b.Views
		}
		ua, ub := updatedAt[a.ResourceID], updatedAt[b.ResourceID]
		if !ua.Equal(ub) {
			return ua.After(ub)
		}
		return a.ResourceID < b.ResourceID
	})
	return out
}

// TopResources keeps the first n entries of a ranked rollup.
func TopResources(rollup []models.ResourceEngagement, n int) []models.ResourceViews {
	if n > 0 && len(rollup) > n {
		rollup = rollup[:n]
	}
	out := make([]models.ResourceViews, 0, len(rollup))
	for _, r := range rollup {
		out = append(out, models.ResourceViews{ResourceID: r.ResourceID, Views: r.Views})
	}
	return out
}

// DailyTrend counts events per UTC calendar day. Days without events are omitted.
func DailyTrend(events []AnnotatedEvent) []models.TrendPoint {
	counts := make(map[string]int)
	for _, e := range events {
		counts[e.OccurredAt.UTC().Format(trendDateLayout)]++
	}

	out := make([]models.TrendPoint, 0, len(counts))
	for day, n := range counts {
		out = append(out, models.TrendPoint{Date: day, Views: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// CountActions tallies every event by action, most frequent first.
func CountActions(events []models.Event) []models.ActionCount {
	counts := make(map[string]int)
	for _, e := range events {
		counts[e.Action]++
	}

	out := make([]models.ActionCount, 0, len(counts))
	for action, n := range counts {
		out = append(out, models.ActionCount{Action: action, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Action < out[j].Action
	})
	return out
}
