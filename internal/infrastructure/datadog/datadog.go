package datadog

import (
	"fmt"

	"github.com/DataDog/datadog-go/v5/statsd"
	"github.com/sirupsen/logrus"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
	"gopkg.in/DataDog/dd-trace-go.v1/profiler"

	"github.com/kanehiroyuu/hero-tour/internal/config"
)

// Start starts the Datadog tracer and, when enabled, the profiler. The
// returned function stops both. When tracing is disabled spans still work
// against the no-op tracer and Start returns a no-op stop.
func Start(cfg config.DatadogConfig, service string, logger *logrus.Logger) func() {
	if !cfg.Enabled {
		return func() {}
	}
	if service == "" {
		service = cfg.Service
	}

	// Spans are flushed to the agent (default localhost:8126) on Finish
	opts := []tracer.StartOption{
		tracer.WithEnv(cfg.Env),
		tracer.WithService(service),
		tracer.WithServiceVersion(cfg.Version),
		tracer.WithLogStartup(false),
	}
	if cfg.AgentHost != "" {
		opts = append(opts, tracer.WithAgentAddr(cfg.AgentHost+":8126"))
	}
	tracer.Start(opts...)

	if !cfg.Profiling {
		return tracer.Stop
	}

	err := profiler.Start(
		profiler.WithService(service),
		profiler.WithEnv(cfg.Env),
		profiler.WithVersion(cfg.Version),
		profiler.WithProfileTypes(
			profiler.CPUProfile,
			profiler.HeapProfile,
		),
	)
	if err != nil {
		logger.WithError(err).Warn("Failed to start profiler")
		return tracer.Stop
	}

	return func() {
		profiler.Stop()
		tracer.Stop()
	}
}

// NewStatsd creates a DogStatsD client tagged with env and service. It returns
// nil without error when no agent host is configured.
func NewStatsd(cfg config.DatadogConfig, service string) (*statsd.Client, error) {
	addr := cfg.StatsdAddr()
	if addr == "" {
		return nil, nil
	}
	if service == "" {
		service = cfg.Service
	}

	client, err := statsd.New(addr, statsd.WithTags([]string{
		"env:" + cfg.Env,
		"service:" + service,
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize statsd client: %w", err)
	}
	return client, nil
}
