package analytics

import "time"

// MaxDwellCeiling bounds every dwell estimate regardless of configuration.
const MaxDwellCeiling = 30 * time.Minute

// DwellOptions bounds the per-event dwell estimate.
type DwellOptions struct {
	Min time.Duration
	Max time.Duration
	// LastEvent is assigned to the final event of a session, which has no next action to measure against.
	LastEvent time.Duration
}

func DefaultDwellOptions() DwellOptions {
	return DwellOptions{
		Min:       time.Second,
		Max:       MaxDwellCeiling,
		LastEvent: 30 * time.Second,
	}
}

// EstimateDwell sets DwellSeconds on every event in place. events must be in
// Sessionize order: a session's events contiguous and time-ordered.
func EstimateDwell(events []AnnotatedEvent, opts DwellOptions) {
	for i := range events {
		d := opts.LastEvent
		if i+1 < len(events) && events[i+1].SessionID == events[i].SessionID {
			d = events[i+1].OccurredAt.Sub(events[i].OccurredAt)
		}
		events[i].DwellSeconds = clampSeconds(d, opts.Min, opts.Max)
	}
}

func clampSeconds(d, lo, hi time.Duration) float64 {
	if d < lo {
		d = lo
	}
	if d > hi {
		d = hi
	}
	return d.Seconds()
}
