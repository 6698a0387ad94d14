package http

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	headerRequestID = "X-Request-Id"
	ctxRequestID    = "request_id"
)

// RequestIDMiddleware propagates X-Request-Id, minting a UUID when absent.
func RequestIDMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(headerRequestID)
			if id == "" || len(id) > 128 {
				id = uuid.NewString()
			}
			c.Response().Header().Set(headerRequestID, id)
			c.Set(ctxRequestID, id)
			return next(c)
		}
	}
}

// RequestID returns the id set by RequestIDMiddleware, or "".
func RequestID(c echo.Context) string {
	id, _ := c.Get(ctxRequestID).(string)
	return id
}

// LoggingMiddleware logs one line per request. Client errors log at warn,
// server errors at error.
func LoggingMiddleware(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			res := c.Response()
			level := slog.LevelInfo
			switch {
			case res.Status >= 500:
				level = slog.LevelError
			case res.Status >= 400:
				level = slog.LevelWarn
			}
			attrs := []any{
				"request_id", RequestID(c),
				"method", c.Request().Method,
				"route", c.Path(),
				"status", res.Status,
				"bytes", res.Size,
				"latency_ms", time.Since(start).Milliseconds(),
			}
			if f := c.QueryParam("format"); f != "" {
				attrs = append(attrs, "format", f)
			}
			logger.Log(c.Request().Context(), level, "request", attrs...)
			return nil
		}
	}
}
