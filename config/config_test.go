package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("EVENT_STORE", "")
	t.Setenv("ANALYTICS_SESSION_GAP", "")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, EventStorePostgres, cfg.EventStore)
	assert.Equal(t, 30*time.Minute, cfg.Analytics.SessionGap)
	assert.Equal(t, 30*time.Second, cfg.Analytics.LastEventDwell)
	assert.Equal(t, 10, cfg.Analytics.TopN)

	opts := cfg.EngineOptions()
	assert.Equal(t, 30*time.Minute, opts.SessionGap)
	assert.Equal(t, time.Second, opts.Dwell.Min)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("ANALYTICS_SESSION_GAP", "15m")
	t.Setenv("ANALYTICS_LAST_EVENT_DWELL", "45s")
	t.Setenv("ANALYTICS_TOP_N", "25")
	t.Setenv("EVENT_STORE", "ClickHouse")
	t.Setenv("CLICKHOUSE_HOST", "ch.internal")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, EventStoreClickHouse, cfg.EventStore)

	opts := cfg.EngineOptions()
	assert.Equal(t, 15*time.Minute, opts.SessionGap)
	assert.Equal(t, 45*time.Second, opts.Dwell.LastEvent)
	assert.Equal(t, 25, opts.TopN)
}

func TestFromEnv_ReportsEveryProblem(t *testing.T) {
	t.Setenv("ANALYTICS_SESSION_GAP", "soon")
	t.Setenv("ANALYTICS_TOP_N", "-1")
	t.Setenv("EVENT_STORE", "clickhouse")
	t.Setenv("CLICKHOUSE_HOST", "")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ANALYTICS_SESSION_GAP")
	assert.Contains(t, err.Error(), "ANALYTICS_TOP_N")
	assert.Contains(t, err.Error(), "CLICKHOUSE_HOST")
}

func TestValidate_LastEventDwellWithinMax(t *testing.T) {
	t.Setenv("ANALYTICS_LAST_EVENT_DWELL", "2h")

	_, err := FromEnv()
	assert.ErrorContains(t, err, "ANALYTICS_LAST_EVENT_DWELL")
}

func TestValidate_MaxDwellIsCapped(t *testing.T) {
	t.Setenv("ANALYTICS_MAX_DWELL", "1h")
	t.Setenv("ANALYTICS_SESSION_GAP", "2h")

	_, err := FromEnv()
	assert.ErrorContains(t, err, "ANALYTICS_MAX_DWELL")

	t.Setenv("ANALYTICS_MAX_DWELL", "10m")
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, cfg.EngineOptions().Dwell.Max)
}
