package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// RequestRecorder receives one observation per finished request.
type RequestRecorder interface {
	RecordRequest(method, route string, status int, d time.Duration)
}

// RequestLog logs every request through log and, when rec is non-nil,
// records it as a metric.  A returned error is rendered here with c.Error
// so the logged status is the one the client sees.
func RequestLog(log zerolog.Logger, rec RequestRecorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			elapsed := time.Since(start)
			status := c.Response().Status
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}

			ev := log.Info()
			switch {
			case status >= 500:
				ev = log.Error()
			case status >= 400:
				ev = log.Warn()
			}
			ev.Str("method", c.Request().Method).
				Str("route", route).
				Str("uri", c.Request().RequestURI).
				Int("status", status).
				Dur("latency", elapsed).
				Str("ip", c.RealIP()).
				Str("user_id", userKey(c)).
				Msg("request")

			if rec != nil {
				rec.RecordRequest(c.Request().Method, route, status, elapsed)
			}
			return nil
		}
	}
}
