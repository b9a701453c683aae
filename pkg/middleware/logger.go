package middleware

import (
	"strconv"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/marigold/pkg/context"
	"github.com/Ramsey-B/marigold/pkg/metrics"
)

// Logger writes one access log entry per request. Handler errors are passed
// to the echo error handler first so the logged status is the one sent.
func Logger(logger ectologger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			start := time.Now()
			if err = next(c); err != nil {
				c.Error(err)
			}

			req, res := c.Request(), c.Response()
			ctx := req.Context()

			// filters travel in the query string and are not sensitive
			logger.WithContext(ctx).WithFields(map[string]any{
				"request_id": context.GetRequestID(ctx),
				"form":       context.GetForm(ctx),
				"method":     req.Method,
				"route":      c.Path(),
				"query":      req.URL.RawQuery,
				"status":     res.Status,
				"remote_ip":  context.GetRemoteIP(ctx),
				"user_agent": req.UserAgent(),
				"latency":    time.Since(start).String(),
				"bytes":      strconv.FormatInt(res.Size, 10),
			}).Info("Request")

			return nil
		}
	}
}

// Metrics records request counts and latency per route. It must run inside
// Logger so errors are already rendered when the status is read.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			metrics.RecordHTTPRequest(c.Request().Method, route, c.Response().Status, time.Since(start))
			return nil
		}
	}
}
