package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	sqltrace "gopkg.in/DataDog/dd-trace-go.v1/contrib/database/sql"

	appcontext "github.com/kanehiroyuu/hero-tour/internal/common/context"
	"github.com/kanehiroyuu/hero-tour/internal/common/logging"
	"github.com/kanehiroyuu/hero-tour/internal/config"
	"github.com/kanehiroyuu/hero-tour/internal/domain"
	"github.com/kanehiroyuu/hero-tour/internal/infrastructure/datadog"
	"github.com/kanehiroyuu/hero-tour/internal/infrastructure/memory"
	"github.com/kanehiroyuu/hero-tour/internal/infrastructure/metrics"
	"github.com/kanehiroyuu/hero-tour/internal/infrastructure/mysql"
	"github.com/kanehiroyuu/hero-tour/internal/infrastructure/tracing"
	"github.com/kanehiroyuu/hero-tour/internal/presentation/interface-adapter/handler"
	"github.com/kanehiroyuu/hero-tour/internal/presentation/router"
)

const shutdownTimeout = 10 * time.Second

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("cannot load config: %w", err)
	}

	logger := logging.New(cfg.Logger.Level)

	stopDatadog := datadog.Start(cfg.Datadog, cfg.Datadog.Service, logger)
	defer stopDatadog()

	statsdClient, err := datadog.NewStatsd(cfg.Datadog, cfg.Datadog.Service)
	if err != nil {
		return err
	}
	var metricsClient metrics.Client
	if statsdClient != nil {
		defer statsdClient.Close()
		metricsClient = statsdClient
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	heroRepo, closeStore, err := SetupRepository(ctx, cfg.Store, logger)
	if err != nil {
		return err
	}
	defer closeStore.Close()

	repoLocator := &appcontext.RepoLocator{HeroRepo: heroRepo}
	e := SetupRouter(logger, repoLocator, router.Options{
		ServiceName:  cfg.Datadog.Service,
		AllowOrigins: cfg.Server.AllowOrigins,
		Metrics:      metricsClient,
	})

	errCh := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{"port": cfg.Server.Port, "store": cfg.Store.Driver}).Info("Starting server")
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Warn("Signal received, shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("Server exited")
	return nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// SetupRepository opens the configured hero store and wraps it with tracing
func SetupRepository(ctx context.Context, cfg config.StoreConfig, logger *logrus.Logger) (domain.HeroRepository, io.Closer, error) {
	switch cfg.Driver {
	case config.StoreMySQL:
		db, err := sqltrace.Open("mysql", cfg.DSN, sqltrace.WithServiceName("mysql"))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to MySQL: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to ping MySQL: %w", err)
		}
		logger.Info("Successfully connected to MySQL")

		repo := mysql.NewHeroRepository(mysql.NewLoggingDB(db, logger), logger)
		if err := repo.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return tracing.NewHeroRepositoryTracer(repo, config.StoreMySQL), db, nil

	default:
		repo := memory.NewHeroRepository(memory.SeedHeroes())
		return tracing.NewHeroRepositoryTracer(repo, config.StoreMemory), nopCloser{}, nil
	}
}

// SetupRouter creates and configures the application router with all handlers
func SetupRouter(logger *logrus.Logger, repoLocator *appcontext.RepoLocator, opts router.Options) *echo.Echo {
	heroHandler := handler.NewHeroHandler()
	healthHandler := handler.NewHealthHandler()

	return router.Setup(heroHandler, healthHandler, logger, repoLocator, opts)
}
