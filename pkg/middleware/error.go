package middleware

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/marigold/pkg/context"
	"github.com/Ramsey-B/marigold/pkg/fragments"
	"github.com/Ramsey-B/marigold/pkg/tracing"
)

// Error renders every failure as the escaped error fragment. Only the
// fragment is written, never a partial result.
func Error(logger ectologger.Logger, renderer *fragments.Renderer) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		ctx := c.Request().Context()
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := "Internal Server Error"

		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if msg, ok := he.Message.(string); ok {
				message = msg
			} else {
				message = http.StatusText(code)
			}
		}

		if httperror.IsHTTPError(err) {
			code = httperror.GetStatusCode(err)
			message = httperror.ToHTTPError(err).Message
		}

		entry := logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"status":   code,
			"trace_id": tracing.GetTraceID(ctx),
		})
		if code >= http.StatusInternalServerError {
			entry.Error("api is returning an error")
		} else {
			entry.Warn("api is rejecting a request")
		}

		body, rerr := renderer.RenderString(fragments.Error, fragments.ErrorData{
			Message:   message,
			RequestID: context.GetRequestID(ctx),
		})
		if rerr != nil {
			logger.WithContext(ctx).WithError(rerr).Error("failed to render error fragment")
			_ = c.String(code, message)
			return
		}

		_ = c.HTML(code, body)
	}
}
