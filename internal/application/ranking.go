package application

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/abeaupre/go-classement/internal/domain"
	"github.com/abeaupre/go-classement/internal/ports"
)

// RankingService computes the personalized instructor ranking for one
// course under one profile. Every query recomputes from a fresh store
// scan; there is no cached aggregate to invalidate, and a result may be
// stale by the time it is displayed, which is an accepted property.
type RankingService struct {
	store      ports.ReviewStore
	aggregator *Aggregator
	scorer     *Scorer
	metrics    ports.MetricsCollector
	tracer     trace.Tracer
}

// NewRankingService wires the ranking pipeline over the given store and
// profile catalog. metrics may be nil.
func NewRankingService(
	store ports.ReviewStore,
	scale domain.Scale,
	profiles map[string]domain.Profile,
	metrics ports.MetricsCollector,
) (*RankingService, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: ranking service requires a store", domain.ErrInvalidConfiguration)
	}
	scorer, err := NewScorer(scale, profiles)
	if err != nil {
		return nil, err
	}
	return &RankingService{
		store:      store,
		aggregator: NewAggregator(scale),
		scorer:     scorer,
		metrics:    metrics,
		tracer:     otel.Tracer("ranking-service"),
	}, nil
}

// Profiles returns the available profile names in sorted order.
func (s *RankingService) Profiles() []string { return s.scorer.Profiles() }

// Rank produces the full ordered list and top highlight slice for the
// course under the named profile. An unknown profile fails with
// domain.ErrUnknownProfile; "ranking unavailable" is the caller's
// surface for it, never a silently substituted profile.
func (s *RankingService) Rank(ctx context.Context, course, profile string) (Ranking, error) {
	ctx, span := s.tracer.Start(ctx, "RankingService.Rank",
		trace.WithAttributes(
			attribute.String("ranking.course", course),
			attribute.String("ranking.profile", profile),
		),
	)
	defer span.End()

	start := time.Now()

	reviews, err := s.store.ScanAll(ctx)
	if err != nil {
		span.RecordError(err)
		return Ranking{}, fmt.Errorf("scan reviews: %w", err)
	}

	records := s.aggregator.Aggregate(reviews, course)
	scored, err := s.scorer.Score(records, profile)
	if err != nil {
		span.RecordError(err)
		return Ranking{}, err
	}

	ranking := Rank(course, profile, scored)

	span.SetAttributes(
		attribute.Int("ranking.reviews_scanned", len(reviews)),
		attribute.Int("ranking.instructors", len(ranking.Records)),
		attribute.Int64("ranking.latency_ms", time.Since(start).Milliseconds()),
	)
	if s.metrics != nil {
		s.metrics.RecordRanking(profile)
		s.metrics.RecordLatency("rank", time.Since(start).Seconds())
	}
	return ranking, nil
}
