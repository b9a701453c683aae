// Package health reports whether the celebrity database can be searched.
package health

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/marigold/pkg/database"
)

type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
)

type CheckResult struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

type Response struct {
	Status     Status                 `json:"status"`
	Version    string                 `json:"version,omitempty"`
	Uptime     string                 `json:"uptime,omitempty"`
	Checks     map[string]CheckResult `json:"checks,omitempty"`
	ReportedAt time.Time              `json:"reported_at"`
}

const countCelebrities = "SELECT COUNT(*) FROM celebrities"

type Checker struct {
	store   database.Store
	started time.Time
	version string
	timeout time.Duration
	ready   atomic.Bool
}

// NewChecker creates a new health checker for store
func NewChecker(store database.Store, version string) *Checker {
	return &Checker{
		store:   store,
		started: time.Now(),
		version: version,
		timeout: 5 * time.Second,
	}
}

// SetReady is flipped by the serve command once startup has finished and
// back off during shutdown.
func (c *Checker) SetReady(ready bool) { c.ready.Store(ready) }

// IsReady reports whether SetReady(true) has been called
func (c *Checker) IsReady() bool { return c.ready.Load() }

// Liveness reports that the process is serving requests
func (c *Checker) Liveness(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, c.response(StatusHealthy, nil))
}

// Readiness is unhealthy until startup has finished, then reports Health
func (c *Checker) Readiness(ctx echo.Context) error {
	if !c.IsReady() {
		return ctx.JSON(http.StatusServiceUnavailable, c.response(StatusUnhealthy, map[string]CheckResult{
			"startup": {Status: StatusUnhealthy, Message: "service is still starting up"},
		}))
	}
	return c.Health(ctx)
}

// Health pings the file and then counts the catalog. The count only runs
// when the ping succeeds.
func (c *Checker) Health(ctx echo.Context) error {
	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), c.timeout)
	defer cancel()

	checks := map[string]CheckResult{"database": c.ping(reqCtx)}
	if checks["database"].Status == StatusHealthy {
		checks["catalog"] = c.catalog(reqCtx)
	}

	status, code := StatusHealthy, http.StatusOK
	for _, check := range checks {
		if check.Status == StatusUnhealthy {
			status, code = StatusUnhealthy, http.StatusServiceUnavailable
			break
		}
	}
	return ctx.JSON(code, c.response(status, checks))
}

func (c *Checker) ping(ctx context.Context) CheckResult {
	if c.store == nil {
		return CheckResult{Status: StatusUnhealthy, Message: "database not configured"}
	}
	start := time.Now()
	if err := c.store.PingContext(ctx); err != nil {
		return CheckResult{Status: StatusUnhealthy, Message: err.Error(), Latency: since(start)}
	}
	return CheckResult{Status: StatusHealthy, Latency: since(start)}
}

// catalog fails when the schema is missing, which a ping alone cannot see.
func (c *Checker) catalog(ctx context.Context) CheckResult {
	start := time.Now()
	var counts []int
	if err := c.store.Select(ctx, &counts, countCelebrities); err != nil {
		return CheckResult{Status: StatusUnhealthy, Message: err.Error(), Latency: since(start)}
	}

	n := 0
	if len(counts) > 0 {
		n = counts[0]
	}
	return CheckResult{Status: StatusHealthy, Message: fmt.Sprintf("%d celebrities", n), Latency: since(start)}
}

func (c *Checker) response(status Status, checks map[string]CheckResult) Response {
	return Response{
		Status:     status,
		Version:    c.version,
		Uptime:     time.Since(c.started).Round(time.Second).String(),
		Checks:     checks,
		ReportedAt: time.Now(),
	}
}

func since(t time.Time) string { return time.Since(t).String() }

// RegisterRoutes registers the health routes under /api/v1/health
func (c *Checker) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1/health")
	g.GET("", c.Health)
	g.GET("/live", c.Liveness)
	g.GET("/ready", c.Readiness)
}
