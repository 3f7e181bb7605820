package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// BodyLimit rejects requests whose declared or actual body size exceeds
// maxBytes with a 413 response. Reads through an http.MaxBytesReader so
// chunked requests without Content-Length are still bounded.
func BodyLimit(maxBytes int64) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			if req.ContentLength > maxBytes {
				return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "request body too large")
			}

			req.Body = http.MaxBytesReader(c.Response(), req.Body, maxBytes)
			return next(c)
		}
	}
}
