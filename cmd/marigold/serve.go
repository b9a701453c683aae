package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/Ramsey-B/marigold/pkg/database"
	"github.com/Ramsey-B/marigold/pkg/routes/health"
	"github.com/Ramsey-B/marigold/pkg/server"
	"github.com/Ramsey-B/marigold/pkg/startup"
	"github.com/Ramsey-B/marigold/pkg/tracing"
	"github.com/Ramsey-B/marigold/pkg/tracing/exporters"
)

func serveCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the search page and fragment endpoints",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	cfg, logger := a.cfg, a.logger

	store, err := database.Open(database.Config{
		Path:            cfg.DatabasePath,
		ReadOnly:        true,
		BusyTimeoutMs:   cfg.DatabaseBusyTimeoutMs,
		MaxOpenConns:    cfg.DatabaseMaxOpenConns,
		MaxIdleConns:    cfg.DatabaseMaxIdleConns,
		ConnMaxLifetime: cfg.DatabaseConnMaxLifetime,
	}, logger)
	if err != nil {
		return err
	}

	checker := health.NewChecker(store, cfg.Version)
	serverErr := make(chan error, 1)
	var (
		e        *echo.Echo
		provider *sdktrace.TracerProvider
	)

	s := startup.NewStartup(logger, cfg.StartupMaxAttempts)
	s.AddDependency(&startup.Dependency{
		Name: "tracing",
		StartFunc: func(ctx context.Context) error {
			if !cfg.TracingEnabled {
				return nil
			}
			exporter, err := exporters.NewOTLPExporter(ctx, exporters.OTLPConfig{
				Endpoint: cfg.TracingEndpoint,
				Protocol: cfg.TracingProtocol,
				Insecure: cfg.TracingInsecure,
			})
			if err != nil {
				return err
			}
			provider = tracing.NewProvider(cfg.AppName, cfg.Version, exporter)
			return nil
		},
		StopFunc: func(ctx context.Context) error {
			if provider == nil {
				return nil
			}
			return provider.Shutdown(ctx)
		},
	})
	s.AddDependency(&startup.Dependency{
		Name: "database",
		StartFunc: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, startupTimeout)
			defer cancel()
			return store.PingContext(ctx)
		},
		StopFunc: func(context.Context) error { return store.Close() },
	})
	s.AddDependency(&startup.Dependency{
		Name:     "http",
		Requires: []string{"tracing", "database"},
		StartFunc: func(context.Context) error {
			srv, err := server.New(cfg, logger, store, checker)
			if err != nil {
				return err
			}
			e = srv
			go func() {
				addr := fmt.Sprintf(":%d", cfg.Port)
				logger.Infof("Listening on %s", addr)
				if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()
			return nil
		},
		StopFunc: func(ctx context.Context) error {
			return e.Shutdown(ctx)
		},
	})

	if err := s.Start(ctx); err != nil {
		_ = s.Stop(context.Background())
		if s.Status("database") != startup.StartupStatusStopped {
			_ = store.Close()
		}
		return err
	}
	checker.SetReady(true)

	select {
	case <-ctx.Done():
		logger.Info("Shutting down")
	case err = <-serverErr:
		logger.WithError(err).Error("HTTP server failed")
	}

	checker.SetReady(false)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()
	if stopErr := s.Stop(shutdownCtx); stopErr != nil {
		return errors.Join(err, stopErr)
	}
	return err
}

// startupTimeout bounds a single store ping during startup.
const startupTimeout = 5 * time.Second
