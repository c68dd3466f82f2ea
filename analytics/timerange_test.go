package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRange_Presets(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	for preset, d := range map[string]time.Duration{
		"24h": 24 * time.Hour,
		"7d":  7 * 24 * time.Hour,
		"30d": 30 * 24 * time.Hour,
		"90d": 90 * 24 * time.Hour,
	} {
		r, err := ParseRange(preset, "", "", now)
		require.NoError(t, err, preset)
		assert.Equal(t, now, r.End)
		assert.Equal(t, now.Add(-d), r.Start)
		assert.Equal(t, preset, r.Key())
	}

	r, err := ParseRange("", "", "", now)
	require.NoError(t, err)
	assert.Equal(t, DefaultPreset, r.Preset)
}

func TestParseRange_Explicit(t *testing.T) {
	r, err := ParseRange("", "2025-03-01T00:00:00Z", "2025-03-02T00:00:00+02:00", time.Now())
	require.NoError(t, err)
	assert.True(t, r.Start.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, r.End.Equal(time.Date(2025, 3, 1, 22, 0, 0, 0, time.UTC)))
	assert.Equal(t, time.UTC, r.End.Location())
	assert.Empty(t, r.Preset)
	assert.True(t, r.Contains(r.Start))
	assert.True(t, r.Contains(r.End))
	assert.False(t, r.Contains(r.End.Add(time.Nanosecond)))
}

func TestParseRange_Invalid(t *testing.T) {
	tests := []struct {
		name              string
		preset, from, end string
	}{
		{"unknown preset", "1y", "", ""},
		{"preset and explicit", "7d", "2025-03-01T00:00:00Z", "2025-03-02T00:00:00Z"},
		{"missing end", "", "2025-03-01T00:00:00Z", ""},
		{"missing start", "", "", "2025-03-01T00:00:00Z"},
		{"bad start", "", "yesterday", "2025-03-02T00:00:00Z"},
		{"bad end", "", "2025-03-01T00:00:00Z", "2025-03-02"},
		{"inverted", "", "2025-03-02T00:00:00Z", "2025-03-01T00:00:00Z"},
		{"empty window", "", "2025-03-01T00:00:00Z", "2025-03-01T00:00:00Z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRange(tt.preset, tt.from, tt.end, time.Now())
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidRange)

			var rangeErr *RangeError
			assert.ErrorAs(t, err, &rangeErr)
			assert.NotEmpty(t, rangeErr.Reason)
		})
	}
}
