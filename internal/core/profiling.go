package core

import (
	"bolao/internal/models"

	"github.com/grafana/pyroscope-go"
	"go.uber.org/zap"
)

// StartProfiler pushes continuous profiles to Pyroscope. It returns nil when
// profiling is disabled.
func StartProfiler(config models.ProfilingConfiguration) *pyroscope.Profiler {
	if !config.Enabled {
		return nil
	}

	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: config.ApplicationName,
		ServerAddress:   config.ServerAddress,
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
		},
	})
	if err != nil {
		zap.L().Error("Failed to start profiler", zap.Error(err))
		return nil
	}

	zap.L().Info("Profiler started", zap.String("server", config.ServerAddress))
	return profiler
}
