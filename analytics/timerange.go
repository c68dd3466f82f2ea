package analytics

import (
	"fmt"
	"time"
)

// DefaultPreset is used when the caller gives neither a preset nor explicit bounds.
const DefaultPreset = "7d"

var presets = map[string]time.Duration{
	"24h": 24 * time.Hour,
	"7d":  7 * 24 * time.Hour,
	"30d": 30 * 24 * time.Hour,
	"90d": 90 * 24 * time.Hour,
}

// TimeRange is an inclusive [Start, End] window. Preset is set when the window
// was derived from one of the relative presets.
type TimeRange struct {
	Preset string
	Start  time.Time
	End    time.Time
}

// PresetRange resolves a relative preset against now.
func PresetRange(preset string, now time.Time) (TimeRange, error) {
	d, ok := presets[preset]
	if !ok {
		return TimeRange{}, &RangeError{Reason: fmt.Sprintf("unknown range %q (want 24h, 7d, 30d or 90d)", preset)}
	}
	now = now.UTC()
	return TimeRange{Preset: preset, Start: now.Add(-d), End: now}, nil
}

// ExplicitRange validates caller-supplied bounds.
func ExplicitRange(start, end time.Time) (TimeRange, error) {
	r := TimeRange{Start: start.UTC(), End: end.UTC()}
	if err := r.Validate(); err != nil {
		return TimeRange{}, err
	}
	return r, nil
}

// ParseRange builds a range from raw request parameters. start and end are RFC3339.
func ParseRange(preset, start, end string, now time.Time) (TimeRange, error) {
	explicit := start != "" || end != ""
	switch {
	case preset != "" && explicit:
		return TimeRange{}, &RangeError{Reason: "use either range or start/end, not both"}
	case explicit && (start == "" || end == ""):
		return TimeRange{}, &RangeError{Reason: "both start and end are required"}
	case explicit:
		s, err := time.Parse(time.RFC3339, start)
		if err != nil {
			return TimeRange{}, &RangeError{Reason: fmt.Sprintf("start %q is not RFC3339", start)}
		}
		e, err := time.Parse(time.RFC3339, end)
		if err != nil {
			return TimeRange{}, &RangeError{Reason: fmt.Sprintf("end %q is not RFC3339", end)}
		}
		return ExplicitRange(s, e)
	case preset == "":
		preset = DefaultPreset
	}
	return PresetRange(preset, now)
}

// Validate rejects empty and inverted windows.
func (r TimeRange) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() {
		return &RangeError{Reason: "start and end must be set"}
	}
	if !r.Start.Before(r.End) {
		return &RangeError{Reason: fmt.Sprintf("start %s is not before end %s",
			r.Start.Format(time.RFC3339), r.End.Format(time.RFC3339))}
	}
	return nil
}

// Contains reports whether t falls inside the inclusive window.
func (r TimeRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Key identifies the range for caching. Presets key by name so that a moving
// window is shared until the cache TTL expires.
func (r TimeRange) Key() string {
	if r.Preset != "" {
		return r.Preset
	}
	return fmt.Sprintf("%d-%d", r.Start.Unix(), r.End.Unix())
}
