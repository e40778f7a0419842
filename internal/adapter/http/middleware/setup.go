package middleware

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

// Config configures the middleware chain.
type Config struct {
	Recovery RecoveryConfig

	// BodyLimit caps request bodies (e.g., "64K"); empty disables the limit
	BodyLimit string

	// AllowOrigins enables CORS for the listed origins; empty disables CORS
	AllowOrigins []string
}

// DefaultConfig returns the default middleware configuration.
func DefaultConfig() Config {
	return Config{
		Recovery:  DefaultRecoveryConfig(),
		BodyLimit: "64K",
	}
}

// Setup registers all middleware on the Echo instance in the correct order.
// The order is important:
//  1. RequestID - First, to generate/propagate request ID for all subsequent logging
//  2. RequestLogger - Second, logs all requests with request ID
//  3. Recover - Third, catches panics and returns 500 (wraps handlers)
//  4. ContextLogger - Attaches the request-scoped logger for handlers
//
// This function should be called before registering routes.
func Setup(e *echo.Echo, log zerolog.Logger) {
	SetupWithConfig(e, log, DefaultConfig())
}

// SetupWithConfig registers middleware with a custom configuration.
func SetupWithConfig(e *echo.Echo, log zerolog.Logger, cfg Config) {
	for _, mw := range ChainWithConfig(log, cfg) {
		e.Use(mw)
	}
}

// Chain returns all middleware as a slice for use with route groups.
// Useful when you want to apply middleware to specific route groups only.
func Chain(log zerolog.Logger) []echo.MiddlewareFunc {
	return ChainWithConfig(log, DefaultConfig())
}

// ChainWithConfig returns the configured middleware in registration order.
func ChainWithConfig(log zerolog.Logger, cfg Config) []echo.MiddlewareFunc {
	chain := []echo.MiddlewareFunc{
		RequestID(),
		RequestLogger(log),
		RecoverWithConfig(log, cfg.Recovery),
		ContextLogger(log),
	}
	if len(cfg.AllowOrigins) > 0 {
		chain = append(chain, echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins: cfg.AllowOrigins,
			ExposeHeaders: []string{
				RequestIDHeader,
				echo.HeaderLocation,
			},
		}))
	}
	if cfg.BodyLimit != "" {
		chain = append(chain, echomw.BodyLimit(cfg.BodyLimit))
	}
	return chain
}
