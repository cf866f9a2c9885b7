package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RequestIDHeader carries the correlation ID used in error envelopes and logs
const RequestIDHeader = "X-Request-ID"

// RequestID ensures every request carries an X-Request-ID.
// A client supplied ID is kept, otherwise a new UUID is generated.
// The ID is written back on the response and stored in the echo context.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			id := req.Header.Get(RequestIDHeader)
			if id == "" || len(id) > 128 {
				id = uuid.NewString()
				req.Header.Set(RequestIDHeader, id)
			}

			c.Response().Header().Set(RequestIDHeader, id)
			c.Set("request_id", id)

			return next(c)
		}
	}
}

// GetRequestID returns the ID stored by RequestID, falling back to the header
func GetRequestID(c echo.Context) string {
	if id, ok := c.Get("request_id").(string); ok && id != "" {
		return id
	}
	return c.Request().Header.Get(RequestIDHeader)
}
