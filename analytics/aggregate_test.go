package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitecms/api/models"
)

// Scenario A.
func TestAggregate_ScenarioA(t *testing.T) {
	annotated := annotate(t, []models.Event{
		view(1, 7, 42, at(0)),
		view(2, 7, 42, at(100)),
		view(3, 7, 42, at(3000)),
	})

	m := Aggregate(annotated, SessionSizes(annotated))
	assert.Equal(t, 2, m.TotalSessions)
	assert.Equal(t, 3, m.TotalEvents)
	assert.Equal(t, 1, m.UniqueVisitors)
	assert.Equal(t, 0.5, m.BounceRatio)
	assert.InDelta(t, 160.0/3.0, m.AvgDwellSeconds, 1e-9)
}

func TestAggregate_EmptyIsAllZero(t *testing.T) {
	assert.Equal(t, models.EngagementMetrics{}, Aggregate(nil, nil))
}

func TestAggregate_BounceRatioBounds(t *testing.T) {
	allBounces := annotate(t, []models.Event{
		view(1, 1, 1, at(0)),
		view(2, 2, 1, at(0)),
	})
	assert.Equal(t, 1.0, Aggregate(allBounces, SessionSizes(allBounces)).BounceRatio)

	noBounces := annotate(t, []models.Event{
		view(1, 1, 1, at(0)),
		view(2, 1, 2, at(10)),
	})
	assert.Equal(t, 0.0, Aggregate(noBounces, SessionSizes(noBounces)).BounceRatio)
}

func TestRollupByResource_RanksByViewsThenUpdatedAt(t *testing.T) {
	annotated := annotate(t, []models.Event{
		view(1, 1, 10, at(0)),
		view(2, 2, 10, at(0)),
		view(3, 3, 20, at(0)),
		view(4, 4, 30, at(0)),
	})
	sizes := SessionSizes(annotated)

	rollup := RollupByResource(annotated, sizes, nil)
	require.Len(t, rollup, 3)
	assert.Equal(t, []int64{10, 20, 30}, resourceOrder(rollup))
	assert.Equal(t, 2, rollup[0].Views)
	assert.Equal(t, 2, rollup[0].UniqueVisitors)

	updated := map[int64]time.Time{20: base, 30: base.Add(time.Hour)}
	rollup = RollupByResource(annotated, sizes, updated)
	assert.Equal(t, []int64{10, 30, 20}, resourceOrder(rollup))
}

func TestRollupByResource_BounceUsesWholeSession(t *testing.T) {
	// Visitor 1 reads page 10 then page 20; visitor 2 only page 10.
	annotated := annotate(t, []models.Event{
		view(1, 1, 10, at(0)),
		view(2, 1, 20, at(60)),
		view(3, 2, 10, at(0)),
	})

	rollup := RollupByResource(annotated, SessionSizes(annotated), nil)
	require.Len(t, rollup, 2)
	page10 := rollup[0]
	assert.Equal(t, int64(10), page10.ResourceID)
	assert.Equal(t, 0.5, page10.BounceRatio)
	assert.Equal(t, 45.0, page10.AvgDwellSeconds)
}

func TestTopResources_Truncates(t *testing.T) {
	rollup := []models.ResourceEngagement{{ResourceID: 1, Views: 3}, {ResourceID: 2, Views: 2}, {ResourceID: 3, Views: 1}}
	assert.Equal(t, []models.ResourceViews{{ResourceID: 1, Views: 3}, {ResourceID: 2, Views: 2}}, TopResources(rollup, 2))
	assert.Len(t, TopResources(rollup, 0), 3)
	assert.NotNil(t, TopResources(nil, 5))
}

func TestDailyTrend_BucketsByUTCDay(t *testing.T) {
	midnight := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)
	annotated := annotate(t, []models.Event{
		view(1, 1, 1, midnight.Add(-time.Minute)),
		view(2, 1, 1, midnight.Add(time.Minute)),
		view(3, 2, 1, midnight.Add(2*time.Hour)),
	})

	assert.Equal(t, []models.TrendPoint{
		{Date: "2025-03-10", Views: 1},
		{Date: "2025-03-11", Views: 2},
	}, DailyTrend(annotated))
	assert.Equal(t, []models.TrendPoint{}, DailyTrend(nil))
}

func TestCountActions_SortedByCount(t *testing.T) {
	click := view(3, 1, 1, at(0))
	click.Action = "click"
	events := []models.Event{view(1, 1, 1, at(0)), view(2, 1, 1, at(1)), click}

	assert.Equal(t, []models.ActionCount{{Action: "view", Count: 2}, {Action: "click", Count: 1}}, CountActions(events))
}

func TestRollupByResource_SkipsViewsWithoutResource(t *testing.T) {
	annotated := annotate(t, []models.Event{view(1, 1, 0, at(0)), view(2, 2, 7, at(0))})

	rollup := RollupByResource(annotated, SessionSizes(annotated), nil)
	assert.Equal(t, []int64{7}, resourceOrder(rollup))
	assert.Equal(t, 2, Aggregate(annotated, SessionSizes(annotated)).TotalEvents)
}

func resourceOrder(rollup []models.ResourceEngagement) []int64 {
	out := make([]int64, 0, len(rollup))
	for _, r := range rollup {
		out = append(out, r.ResourceID)
	}
	return out
}
