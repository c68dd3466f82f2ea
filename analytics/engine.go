package analytics

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"sitecms/api/logging"
	"sitecms/api/metrics"
	"sitecms/api/models"
)

// EventSource reads the activity log. It must return every event with
// start <= occurred_at <= end, of any action or resource type.
type EventSource interface {
	FetchEvents(ctx context.Context, start, end time.Time) ([]models.Event, error)
}

// ResourceCatalog resolves when each content resource was last updated.
// Used only to break ties between equally viewed resources.
type ResourceCatalog interface {
	UpdatedAt(ctx context.Context, ids []int64) (map[int64]time.Time, error)
}

type Options struct {
	SessionGap   time.Duration
	Dwell        DwellOptions
	FetchTimeout time.Duration
	TopN         int
}

func DefaultOptions() Options {
	return Options{
		SessionGap:   DefaultSessionGap,
		Dwell:        DefaultDwellOptions(),
		FetchTimeout: 10 * time.Second,
		TopN:         10,
	}
}

// Query selects the window and scope of one summary.
type Query struct {
	Range TimeRange
	// ResourceID restricts metrics, trend, top list and classification to one page.
	ResourceID         *int64
	TopN               int
	IncludePerResource bool
}

// CacheKey identifies the query's result for a given state of the event log.
func (q Query) CacheKey() string {
	return fmt.Sprintf("%s|resource=%s|top=%d|per_resource=%t",
		q.Range.Key(), models.FormatID(q.ResourceID), q.TopN, q.IncludePerResource)
}

// Engine reconstructs sessions and engagement metrics from the raw event log.
// It keeps no state between calls; concurrent use is safe.
type Engine struct {
	source  EventSource
	catalog ResourceCatalog
	opts    Options
}

// NewEngine builds an engine. catalog may be nil; zero options take their
// defaults. Dwell.Max is capped at MaxDwellCeiling.
func NewEngine(source EventSource, catalog ResourceCatalog, opts Options) *Engine {
	def := DefaultOptions()
	if opts.SessionGap <= 0 {
		opts.SessionGap = def.SessionGap
	}
	if opts.Dwell.Min <= 0 {
		opts.Dwell.Min = def.Dwell.Min
	}
	if opts.Dwell.Max <= 0 || opts.Dwell.Max > MaxDwellCeiling {
		opts.Dwell.Max = def.Dwell.Max
	}
	if opts.Dwell.LastEvent > opts.Dwell.Max {
		opts.Dwell.LastEvent = opts.Dwell.Max
	}
	if opts.Dwell.LastEvent <= 0 {
		opts.Dwell.LastEvent = def.Dwell.LastEvent
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = def.FetchTimeout
	}
	if opts.TopN <= 0 {
		opts.TopN = def.TopN
	}
	return &Engine{source: source, catalog: catalog, opts: opts}
}

// Summarize fetches the query window from the event source and aggregates it.
func (e *Engine) Summarize(ctx context.Context, q Query) (*models.EngagementSummary, error) {
	if err := q.Range.Validate(); err != nil {
		return nil, err
	}
	raw, err := e.fetch(ctx, q.Range)
	if err != nil {
		return nil, err
	}
	return e.SummarizeEvents(ctx, q, raw)
}

// Sessions returns the sessions reconstructed for the window, ordered by visitor
// key, and the number of malformed records skipped.
func (e *Engine) Sessions(ctx context.Context, r TimeRange) ([]Session, int, error) {
	if err := r.Validate(); err != nil {
		return nil, 0, err
	}
	raw, err := e.fetch(ctx, r)
	if err != nil {
		return nil, 0, err
	}
	events, skipped := e.wellFormed(ctx, r, raw)
	annotated, err := Sessionize(ctx, pageViews(events), e.opts.SessionGap)
	if err != nil {
		return nil, 0, err
	}
	return Sessions(annotated), skipped, nil
}

func (e *Engine) fetch(ctx context.Context, r TimeRange) ([]models.Event, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, e.opts.FetchTimeout)
	defer cancel()

	events, err := e.source.FetchEvents(fetchCtx, r.Start, r.End)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	metrics.EventsScanned.Add(float64(len(events)))
	return events, nil
}

// SummarizeEvents aggregates an already fetched event set. Events outside the
// query window are ignored; malformed events are skipped and counted.
func (e *Engine) SummarizeEvents(ctx context.Context, q Query, raw []models.Event) (*models.EngagementSummary, error) {
	if err := q.Range.Validate(); err != nil {
		return nil, err
	}
	topN := q.TopN
	if topN <= 0 {
		topN = e.opts.TopN
	}

	events, skipped := e.wellFormed(ctx, q.Range, raw)
	views := pageViews(events)
	scopedViews := views
	scopedEvents := events
	if q.ResourceID != nil {
		scopedViews = onResource(views, *q.ResourceID)
		scopedEvents = onResource(events, *q.ResourceID)
	}

	var (
		annotated []AnnotatedEvent
		devices   []models.DeviceCount
		browsers  []models.BrowserCount
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a, err := Sessionize(gctx, views, e.opts.SessionGap)
		if err != nil {
			return err
		}
		EstimateDwell(a, e.opts.Dwell)
		annotated = a
		return nil
	})
	g.Go(func() error {
		var err error
		devices, browsers, err = ClassCounts(gctx, scopedViews)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sizes := SessionSizes(annotated)
	scoped := annotated
	if q.ResourceID != nil {
		scoped = make([]AnnotatedEvent, 0, len(scopedViews))
		for _, a := range annotated {
			if a.ResourceID != nil && *a.ResourceID == *q.ResourceID {
				scoped = append(scoped, a)
			}
		}
	}

	rollup := RollupByResource(scoped, sizes, e.updatedAt(ctx, scoped))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	summary := &models.EngagementSummary{
		Window:         models.Window{Start: q.Range.Start.UTC(), End: q.Range.End.UTC()},
		Trend:          DailyTrend(scoped),
		TopResources:   TopResources(rollup, topN),
		ActionCounts:   CountActions(scopedEvents),
		DeviceCounts:   devices,
		BrowserCounts:  browsers,
		Metrics:        Aggregate(scoped, sizes),
		PerResource:    []models.ResourceEngagement{},
		SkippedRecords: skipped,
	}
	if q.IncludePerResource {
		summary.PerResource = rollup
	}
	return summary, nil
}

// wellFormed drops malformed events and events outside the window.
func (e *Engine) wellFormed(ctx context.Context, r TimeRange, raw []models.Event) ([]models.Event, int) {
	out := make([]models.Event, 0, len(raw))
	skipped := 0
	for _, ev := range raw {
		if reason := ev.Malformed(); reason != "" {
			skipped++
			logging.Ctx(ctx).Debug().Int64("event_id", ev.ID).Str("reason", reason).Msg("skipping malformed event")
			continue
		}
		if !r.Contains(ev.OccurredAt) {
			continue
		}
		out = append(out, ev)
	}
	if skipped > 0 {
		metrics.MalformedRecords.Add(float64(skipped))
		logging.Ctx(ctx).Warn().Int("skipped", skipped).Int("total", len(raw)).Msg("malformed events excluded from summary")
	}
	return out, skipped
}

func (e *Engine) updatedAt(ctx context.Context, events []AnnotatedEvent) map[int64]time.Time {
	if e.catalog == nil || len(events) == 0 {
		return nil
	}
	seen := make(map[int64]struct{})
	ids := make([]int64, 0)
	for _, ev := range events {
		if ev.ResourceID == nil {
			continue
		}
		if _, ok := seen[*ev.ResourceID]; !ok {
			seen[*ev.ResourceID] = struct{}{}
			ids = append(ids, *ev.ResourceID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	updated, err := e.catalog.UpdatedAt(ctx, ids)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("content catalog lookup failed; ranking ties by resource id")
		return nil
	}
	return updated
}

func pageViews(events []models.Event) []models.Event {
	out := make([]models.Event, 0, len(events))
	for _, e := range events {
		if e.IsPageView() {
			out = append(out, e)
		}
	}
	return out
}

func onResource(events []models.Event, id int64) []models.Event {
	out := make([]models.Event, 0)
	for _, e := range events {
		if e.ResourceType == models.ResourceTypePage && e.ResourceID != nil && *e.ResourceID == id {
			out = append(out, e)
		}
	}
	return out
}

// SessionView converts a session for JSON output.
func SessionView(s Session) models.SessionView {
	v := models.SessionView{
		SessionID:   s.ID,
		VisitorKey:  s.VisitorKey,
		EventIDs:    s.EventIDs,
		ResourceIDs: s.ResourceIDs,
		StartedAt:   s.StartedAt.UTC(),
		EndedAt:     s.EndedAt.UTC(),
	}
	if v.ResourceIDs == nil {
		v.ResourceIDs = []int64{}
	}
	return v
}

func resourceLabel(id *int64) string {
	if id == nil {
		return "all"
	}
	return strconv.FormatInt(*id, 10)
}
