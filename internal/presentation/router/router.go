package router

import (
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	echotrace "gopkg.in/DataDog/dd-trace-go.v1/contrib/labstack/echo.v4"

	appcontext "github.com/kanehiroyuu/hero-tour/internal/common/context"
	"github.com/kanehiroyuu/hero-tour/internal/infrastructure/metrics"
	"github.com/kanehiroyuu/hero-tour/internal/presentation/interface-adapter/handler"
	"github.com/kanehiroyuu/hero-tour/internal/presentation/middleware"
)

// Options configures the router
type Options struct {
	// ServiceName tags the request spans
	ServiceName string
	// AllowOrigins restricts CORS; empty allows every origin
	AllowOrigins []string
	// Metrics receives per-request counts and timings; nil disables them
	Metrics metrics.Client
}

// Setup configures all routes with Datadog tracing
func Setup(heroHandler *handler.HeroHandler, healthHandler *handler.HealthHandler, logger *logrus.Logger, repoLocator *appcontext.RepoLocator, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	traceOpts := []echotrace.Option{}
	if opts.ServiceName != "" {
		traceOpts = append(traceOpts, echotrace.WithServiceName(opts.ServiceName))
	}

	// Order matters: the interactor middleware reads the logger and locator
	e.Use(echotrace.Middleware(traceOpts...))
	e.Use(middleware.EchoMetricsMiddleware(opts.Metrics))
	e.Use(middleware.EchoLoggerMiddleware(logger))
	e.Use(middleware.EchoRecoveryMiddleware())
	e.Use(middleware.EchoCORSMiddleware(opts.AllowOrigins...))
	e.Use(middleware.EchoRepoLocatorMiddleware(repoLocator))
	e.Use(middleware.EchoInteractorMiddleware())

	// Health endpoints
	e.GET("/", healthHandler.HealthCheck)
	e.GET("/health", healthHandler.HealthCheck)

	// Hero endpoints; the trailing-slash list route serves name searches
	e.GET("/api/heroes", heroHandler.ListHeroes)
	e.GET("/api/heroes/", heroHandler.ListHeroes)
	e.GET("/api/heroes/:id", heroHandler.GetHero)
	e.POST("/api/heroes", heroHandler.CreateHero)
	e.PUT("/api/heroes", heroHandler.UpdateHero)
	e.DELETE("/api/heroes/:id", heroHandler.DeleteHero)

	return e
}
