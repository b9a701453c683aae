package middleware

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/marigold/pkg/context"
)

// HeaderForm names the search form that issued a request
const HeaderForm = "X-Form"

// Context copies request metadata into the request context and echoes the request id
func Context() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			req := c.Request()

			requestID := req.Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = uuid.New().String()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, requestID)

			ctx := req.Context()
			ctx = context.SetRequestID(ctx, requestID)
			ctx = context.SetRoute(ctx, req.URL.Path)
			ctx = context.SetRemoteIP(ctx, c.RealIP())
			ctx = context.SetForm(ctx, req.Header.Get(HeaderForm))

			c.SetRequest(req.WithContext(ctx))

			return next(c)
		}
	}
}

// Container makes the dependency container with the given id active on the
// request context so handlers can resolve from it.
func Container(id string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			ctx, err := ectoinject.SetActiveContainer(req.Context(), id)
			if err != nil {
				return httperror.NewHTTPError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
			}
			c.SetRequest(req.WithContext(ctx))
			return next(c)
		}
	}
}
