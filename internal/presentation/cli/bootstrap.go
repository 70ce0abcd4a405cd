package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	redistrace "gopkg.in/DataDog/dd-trace-go.v1/contrib/redis/go-redis.v9"

	"github.com/kanehiroyuu/hero-tour/internal/common/logging"
	"github.com/kanehiroyuu/hero-tour/internal/config"
	"github.com/kanehiroyuu/hero-tour/internal/infrastructure/datadog"
	"github.com/kanehiroyuu/hero-tour/internal/infrastructure/httpclient"
	"github.com/kanehiroyuu/hero-tour/internal/infrastructure/messages"
	"github.com/kanehiroyuu/hero-tour/internal/infrastructure/metrics"
	infraredis "github.com/kanehiroyuu/hero-tour/internal/infrastructure/redis"
	"github.com/kanehiroyuu/hero-tour/internal/infrastructure/tracing"
	"github.com/kanehiroyuu/hero-tour/internal/usecase"
	"github.com/kanehiroyuu/hero-tour/internal/usecase/port"
)

// Bootstrap loads the configuration and wires a HeroService with its
// transport, message sinks and observers
func Bootstrap(ctx context.Context, cfgFile string) (*Services, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("cannot load config: %w", err)
	}

	// stdout carries command output
	logger := logging.New(cfg.Logger.Level)
	logger.SetOutput(os.Stderr)

	closers := []func(){datadog.Start(cfg.Datadog, cfg.HeroAPI.ServiceName, logger)}
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	client, err := httpclient.New(cfg.HeroAPI)
	if err != nil {
		closeAll()
		return nil, err
	}
	transport := tracing.NewHeroTransportTracer(client)

	collected := messages.NewService(cfg.Messages.Capacity)
	sink := messages.Tee{collected}
	var history MessageHistory

	switch cfg.Messages.Sink {
	case config.SinkRedis:
		redisClient := redistrace.NewClient(&redis.Options{Addr: cfg.Redis.Addr}, redistrace.WithServiceName("redis"))
		closers = append(closers, func() { _ = redisClient.Close() })
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.WithError(err).Warn("Redis unreachable, messages will not be persisted")
		}
		messageLog := infraredis.NewMessageLog(redisClient, cfg.Redis.Key, cfg.Redis.Capacity, cfg.Redis.TTL, logger)
		sink = append(sink, messageLog)
		history = messageLog
	case config.SinkLog:
		sink = append(sink, &messages.LogSink{Logger: logger, Source: "HeroService"})
	}

	observers := usecase.Observers{&metrics.EventLogger{Logger: logger}}
	statsdClient, err := datadog.NewStatsd(cfg.Datadog, cfg.HeroAPI.ServiceName)
	if err != nil {
		logger.WithError(err).Warn("Metrics disabled")
	} else if statsdClient != nil {
		closers = append(closers, func() { _ = statsdClient.Close() })
		observers = append(observers, metrics.NewStatsdObserver(statsdClient))
	}

	logger.WithFields(logrus.Fields{
		"base_url": cfg.HeroAPI.BaseURL,
		"sink":     cfg.Messages.Sink,
	}).Debug("Hero service configured")

	return &Services{
		Heroes:   usecase.NewHeroService(transport, port.MessageSink(sink), usecase.WithObserver(observers)),
		Messages: collected.Messages,
		History:  history,
		Close:    closeAll,
	}, nil
}
