package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"bolao/internal/configuration"
	"bolao/internal/core"
	"bolao/internal/counters"
	"bolao/internal/landing"
	"bolao/internal/poolservice"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	zap.ReplaceGlobals(zap.Must(zap.NewProduction()))

	config := configuration.Read()
	core.NewLogger(config.App.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := core.NewTracerProvider(ctx, config.Tracing)
	if err != nil {
		zap.L().Fatal("Failed to initialize tracing", zap.Error(err))
	}

	if profiler := core.StartProfiler(config.Profiling); profiler != nil {
		defer func() { _ = profiler.Stop() }()
	}

	cache := core.NewCache(config.Cache)
	defer func() { _ = cache.Close() }()

	appIdentity := uuid.New().String()

	backend := poolservice.NewClient(config.Backend)
	aggregator := counters.NewAggregator(backend)
	snapshots := landing.NewSnapshotStore(cache, aggregator, config.App.Revalidate(), appIdentity)
	controller := landing.NewController(backend, aggregator, snapshots)

	core.StartHTTPServer(ctx, config, cache, controller)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err = shutdownTracing(shutdownCtx); err != nil {
		zap.L().Error("Failed to flush traces", zap.Error(err))
	}
	_ = zap.L().Sync()
}
