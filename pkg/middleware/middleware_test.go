package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/Ramsey-B/marigold/pkg/context"
	"github.com/Ramsey-B/marigold/pkg/fragments"
	"github.com/Ramsey-B/marigold/pkg/logging"
	"github.com/Ramsey-B/marigold/pkg/middleware"
)

func newEcho(logger ectologger.Logger) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = middleware.Error(logger, fragments.MustNewRenderer())
	e.Use(middleware.Context())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.Metrics())
	return e
}

func TestContext_PropagatesRequestIDAndForm(t *testing.T) {
	e := newEcho(logging.Nop())
	e.GET("/ctx", func(c echo.Context) error {
		ctx := c.Request().Context()
		return c.String(http.StatusOK, context.GetRequestID(ctx)+"|"+context.GetForm(ctx)+"|"+context.GetRoute(ctx))
	})

	req := httptest.NewRequest(http.MethodGet, "/ctx", nil)
	req.Header.Set(echo.HeaderXRequestID, "req-42")
	req.Header.Set(middleware.HeaderForm, "matchmaking")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-42|matchmaking|/ctx", rec.Body.String())
	assert.Equal(t, "req-42", rec.Header().Get(echo.HeaderXRequestID))
}

func TestContext_GeneratesRequestID(t *testing.T) {
	e := newEcho(logging.Nop())
	e.GET("/ctx", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ctx", nil))

	assert.Len(t, rec.Header().Get(echo.HeaderXRequestID), 36)
}

func TestError_RendersFragment(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{name: "http error", err: httperror.NewHTTPError(http.StatusServiceUnavailable, "store unavailable"), code: http.StatusServiceUnavailable, message: "store unavailable"},
		{name: "echo error", err: echo.NewHTTPError(http.StatusBadRequest, "bad filter"), code: http.StatusBadRequest, message: "bad filter"},
		{name: "plain error", err: errors.New("secret detail"), code: http.StatusInternalServerError, message: "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEcho(logging.Nop())
			e.GET("/fail", func(c echo.Context) error { return tt.err })

			req := httptest.NewRequest(http.MethodGet, "/fail", nil)
			req.Header.Set(echo.HeaderXRequestID, "req-7")
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.code, rec.Code)
			assert.Contains(t, rec.Header().Get(echo.HeaderContentType), echo.MIMETextHTML)
			assert.Contains(t, rec.Body.String(), "<div class='error-message'><p>"+tt.message+"</p>")
			assert.Contains(t, rec.Body.String(), "Request ID: req-7")
		})
	}
}

func TestError_NotFound(t *testing.T) {
	e := newEcho(logging.Nop())

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "error-message")
}

func TestLogger_LogsOneEntryPerRequest(t *testing.T) {
	entries := 0
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {
		entries++
	})

	e := newEcho(logger)
	e.GET("/ok", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, entries)
}
