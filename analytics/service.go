package analytics

import (
	"context"
	"errors"
	"time"

	"sitecms/api/logging"
	"sitecms/api/metrics"
	"sitecms/api/models"
)

// SummaryCache stores computed summaries. Implementations must drop every entry
// when Invalidate is called and must not serve entries older than their TTL.
//
// Get resolves key against the current cache state and returns the slot a
// freshly computed summary belongs in. A summary Set into a slot resolved
// before an Invalidate must never be served.
type SummaryCache interface {
	Get(ctx context.Context, key string) (summary *models.EngagementSummary, slot string, err error)
	Set(ctx context.Context, slot string, summary *models.EngagementSummary) error
	Invalidate(ctx context.Context) error
}

// Service is what the HTTP and CLI layers call. The cache is optional.
type Service struct {
	engine *Engine
	cache  SummaryCache
}

func NewService(engine *Engine, cache SummaryCache) *Service {
	return &Service{engine: engine, cache: cache}
}

func (s *Service) Summary(ctx context.Context, q Query) (*models.EngagementSummary, error) {
	started := time.Now()
	summary, err := s.summary(ctx, q)
	metrics.SummaryDuration.Observe(time.Since(started).Seconds())
	metrics.SummaryQueries.WithLabelValues(Outcome(err)).Inc()

	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).
			Str("range", q.Range.Key()).
			Str("resource", resourceLabel(q.ResourceID)).
			Msg("engagement summary failed")
		return nil, err
	}
	logging.Ctx(ctx).Debug().
		Str("range", q.Range.Key()).
		Str("resource", resourceLabel(q.ResourceID)).
		Int("events", summary.Metrics.TotalEvents).
		Int("sessions", summary.Metrics.TotalSessions).
		Dur("took", time.Since(started)).
		Msg("engagement summary computed")
	return summary, nil
}

func (s *Service) summary(ctx context.Context, q Query) (*models.EngagementSummary, error) {
	if err := q.Range.Validate(); err != nil {
		return nil, err
	}
	if s.cache == nil {
		return s.engine.Summarize(ctx, q)
	}

	cached, slot, err := s.cache.Get(ctx, q.CacheKey())
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("summary cache read failed")
	}
	if cached != nil {
		metrics.SummaryCacheHits.Inc()
		return cached, nil
	}
	metrics.SummaryCacheMisses.Inc()

	summary, err := s.engine.Summarize(ctx, q)
	if err != nil {
		return nil, err
	}
	if slot == "" {
		return summary, nil
	}
	if err := s.cache.Set(ctx, slot, summary); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("summary cache write failed")
	}
	return summary, nil
}

// Sessions lists the reconstructed sessions of r and how many malformed records were skipped.
func (s *Service) Sessions(ctx context.Context, r TimeRange) (*models.SessionListing, error) {
	sessions, skipped, err := s.engine.Sessions(ctx, r)
	if err != nil {
		return nil, err
	}
	out := &models.SessionListing{
		Sessions:       make([]models.SessionView, 0, len(sessions)),
		SkippedRecords: skipped,
	}
	for _, sess := range sessions {
		out.Sessions = append(out.Sessions, SessionView(sess))
	}
	out.Count = len(out.Sessions)
	return out, nil
}

// EventsRecorded drops cached summaries once new events land in the log. Every
// action counts: action_counts covers clicks and logins as well as page views.
func (s *Service) EventsRecorded(ctx context.Context, events []models.Event) {
	if s.cache == nil || len(events) == 0 {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		logging.Ctx(ctx).Error().Err(err).Int("events", len(events)).Msg("failed to invalidate summary cache")
	}
}

// Outcome labels an error for metrics.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidRange):
		return "invalid_range"
	case errors.Is(err, ErrSourceUnavailable):
		return "source_unavailable"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "error"
	}
}
