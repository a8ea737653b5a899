package counters

import (
	"context"

	"bolao/internal/models"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("bolao/internal/counters")

// Source reads the three aggregate counts from the pool backend.
type Source interface {
	CountUsers(ctx context.Context) (int64, error)
	CountPools(ctx context.Context) (int64, error)
	CountGuesses(ctx context.Context) (int64, error)
}

type Aggregator struct {
	source Source
}

func NewAggregator(source Source) *Aggregator {
	return &Aggregator{source: source}
}

// Snapshot reads the three counters concurrently. A counter whose read fails
// is reported as 0 without affecting the others, so Snapshot never fails.
func (a *Aggregator) Snapshot(ctx context.Context) models.CounterSnapshot {
	ctx, span := tracer.Start(ctx, "counters.Snapshot")
	defer span.End()

	var snapshot models.CounterSnapshot

	// Tasks never return an error: one failing counter must not cancel the others.
	var g errgroup.Group
	g.Go(func() error {
		snapshot.Users = a.read(ctx, "users", a.source.CountUsers)
		return nil
	})
	g.Go(func() error {
		snapshot.Pools = a.read(ctx, "pools", a.source.CountPools)
		return nil
	})
	g.Go(func() error {
		snapshot.Guesses = a.read(ctx, "guesses", a.source.CountGuesses)
		return nil
	})
	_ = g.Wait()

	span.SetAttributes(
		attribute.Int64("counters.users", snapshot.Users),
		attribute.Int64("counters.pools", snapshot.Pools),
		attribute.Int64("counters.guesses", snapshot.Guesses),
	)

	return snapshot
}

func (a *Aggregator) read(
	ctx context.Context,
	counter string,
	fetch func(context.Context) (int64, error),
) int64 {
	value, err := fetch(ctx)
	if err != nil {
		trace.SpanFromContext(ctx).RecordError(err, trace.WithAttributes(attribute.String("counter", counter)))
		trace.SpanFromContext(ctx).SetStatus(codes.Error, "counter unavailable")
		zap.L().Warn("Counter unavailable, defaulting to zero", zap.String("counter", counter), zap.Error(err))
		return 0
	}
	if value < 0 {
		return 0
	}
	return value
}
