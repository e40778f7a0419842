package middleware

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// quietPrefixes are paths whose successful requests are logged at debug level.
var quietPrefixes = []string{"/health", "/swagger"}

// RequestLogger returns middleware that logs HTTP requests.
// It logs on request completion with method, route, status, duration, and client info.
// Page session routes also carry the session ID.
func RequestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				// Let Echo's error handler write the response
				c.Error(err)
			}

			duration := time.Since(start)
			req := c.Request()
			res := c.Response()
			status := res.Status

			var event *zerolog.Event
			switch {
			case status >= 500:
				event = log.Error()
			case status >= 400:
				event = log.Warn()
			case isQuiet(req.URL.Path):
				event = log.Debug()
			default:
				event = log.Info()
			}

			if id := c.Param("id"); id != "" {
				event = event.Str("session_id", id)
			}
			if region := c.Param("region"); region != "" {
				event = event.Str("region", region)
			}

			event.
				Str("request_id", GetRequestID(c)).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Str("route", c.Path()).
				Str("query", req.URL.RawQuery).
				Int("status", status).
				Int64("duration_ms", duration.Milliseconds()).
				Int64("bytes_out", res.Size).
				Str("client_ip", c.RealIP()).
				Str("user_agent", req.UserAgent()).
				Msg("HTTP request")

			return nil
		}
	}
}

func isQuiet(path string) bool {
	for _, prefix := range quietPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
