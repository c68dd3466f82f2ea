package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLog = `{"id":1,"action":"view","resource_type":"page","resource_id":42,"user_id":7,"occurred_at":"2025-03-10T12:00:00Z"}
{"id":2,"action":"view","resource_type":"page","resource_id":42,"ip_address":"10.0.0.1","user_agent":"curl/8.0","occurred_at":"2025-03-10T12:01:40.5Z"}

not json at all
{"id":3,"action":"view","resource_type":"page","occurred_at":"yesterday"}
{"id":4,"action":"click","resource_type":"button","occurred_at":"2025-03-12T00:00:00Z"}
`

func TestReadJSONL(t *testing.T) {
	src, err := ReadJSONL(strings.NewReader(sampleLog))
	require.NoError(t, err)
	assert.Equal(t, 5, src.Len())

	start := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	events, err := src.FetchEvents(context.Background(), start, start.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, events, 4, "two in window plus two malformed")

	assert.Equal(t, int64(1), events[0].ID)
	assert.Equal(t, int64(7), *events[0].UserID)
	assert.Empty(t, events[0].Malformed())

	assert.Equal(t, "10.0.0.1", events[1].IPAddress)
	assert.Equal(t, 500*time.Millisecond, events[1].OccurredAt.Sub(start.Add(12*time.Hour+100*time.Second)))

	assert.NotEmpty(t, events[2].Malformed())
	assert.Equal(t, int64(3), events[3].ID)
	assert.NotEmpty(t, events[3].Malformed())
}

func TestJSONLSource_HonoursCancellation(t *testing.T) {
	src, err := ReadJSONL(strings.NewReader(sampleLog))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = src.FetchEvents(ctx, time.Time{}, time.Now())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpenJSONLSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(sampleLog), 0o600))

	src, err := OpenJSONLSource(path)
	require.NoError(t, err)
	assert.Equal(t, 5, src.Len())

	_, err = OpenJSONLSource(filepath.Join(t.TempDir(), "missing.jsonl"))
	assert.Error(t, err)
}
