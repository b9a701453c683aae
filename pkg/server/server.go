package server

import (
	"time"

	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/Ramsey-B/marigold/config"
	"github.com/Ramsey-B/marigold/internal/repositories/celebrity"
	"github.com/Ramsey-B/marigold/pkg/database"
	"github.com/Ramsey-B/marigold/pkg/fragments"
	"github.com/Ramsey-B/marigold/pkg/inject"
	"github.com/Ramsey-B/marigold/pkg/middleware"
	celebrityroutes "github.com/Ramsey-B/marigold/pkg/routes/celebrity"
	"github.com/Ramsey-B/marigold/pkg/routes/health"
	"github.com/Ramsey-B/marigold/pkg/web"
)

const pageTitle = "Celebrity Finder"

// New assembles the echo server: middleware, fragment renderer, search
// routes, health checks, the page and, when enabled, /metrics.
func New(cfg *config.Config, logger ectologger.Logger, store database.Store, checker *health.Checker) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	renderer, err := fragments.NewRenderer()
	if err != nil {
		return nil, err
	}
	e.Renderer = renderer
	e.HTTPErrorHandler = middleware.Error(logger, renderer)

	e.Server.ReadTimeout = time.Duration(cfg.HttpServerReadTimeoutSeconds) * time.Second
	e.Server.WriteTimeout = time.Duration(cfg.HttpServerWriteTimeoutSeconds) * time.Second
	e.Server.IdleTimeout = time.Duration(cfg.HttpServerIdleTimeoutSeconds) * time.Second
	e.Server.ReadHeaderTimeout = time.Duration(cfg.ReadHeaderTimeoutSeconds) * time.Second
	e.Server.MaxHeaderBytes = cfg.MaxHeaderBytes

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: cfg.AllowMethods,
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderXRequestID, middleware.HeaderForm},
	}))
	if cfg.TracingEnabled {
		e.Use(otelecho.Middleware(cfg.AppName))
	}
	e.Use(middleware.Context())
	e.Use(middleware.Logger(logger))
	if cfg.MetricsEnabled {
		e.Use(middleware.Metrics())
		e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	}

	container, err := inject.NewContainer(logger)
	if err != nil {
		return nil, err
	}
	if err := ectoinject.RegisterInstance[celebrity.CelebrityRepository](container, celebrity.NewRepository(store, logger)); err != nil {
		return nil, err
	}
	e.Use(middleware.Container(container.GetContainerID()))

	celebrityroutes.Register(e)

	if checker != nil {
		checker.RegisterRoutes(e)
	}

	if err := web.Register(e, pageTitle); err != nil {
		return nil, err
	}

	return e, nil
}
