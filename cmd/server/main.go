// Package main is the entry point for the travel listing service.
//
//	@title						Travel Listings API
//	@version					1.0.0
//	@description				Server-driven travel deal and destination listings. Each page session holds its filters, pagination and navigation history, and loads its listing regions concurrently.
//
//	@contact.name				API Support
//	@contact.url				https://github.com/wanderlust/travel-listing-service/issues
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	// Import generated docs for swagger
	_ "github.com/wanderlust/travel-listing-service/docs"

	// Application layers
	listinghttp "github.com/wanderlust/travel-listing-service/internal/adapter/http"
	"github.com/wanderlust/travel-listing-service/internal/adapter/http/middleware"
	"github.com/wanderlust/travel-listing-service/internal/adapter/source/cache"
	"github.com/wanderlust/travel-listing-service/internal/adapter/source/fixture"
	"github.com/wanderlust/travel-listing-service/internal/adapter/source/remote"
	"github.com/wanderlust/travel-listing-service/internal/config"
	"github.com/wanderlust/travel-listing-service/internal/infrastructure/logger"
	"github.com/wanderlust/travel-listing-service/internal/infrastructure/notify"
	"github.com/wanderlust/travel-listing-service/internal/infrastructure/retry"
	"github.com/wanderlust/travel-listing-service/internal/infrastructure/timeutil"
	"github.com/wanderlust/travel-listing-service/internal/usecase"
)

const (
	shutdownTimeout = 10 * time.Second
)

func main() {
	// Load configuration
	cfg := config.MustLoad()

	// Initialize logger with config
	logger.Init(logger.Config{
		Level:        cfg.Logging.Level,
		Format:       cfg.Logging.Format,
		EnableCaller: cfg.Logging.Caller,
		ServiceName:  cfg.App.Name,
	})
	log := logger.Global.Logger

	logger.Info().
		Str("env", cfg.App.Env).
		Int("port", cfg.Server.Port).
		Str("source_mode", cfg.Source.Mode).
		Bool("cache", cfg.Cache.Enabled).
		Msg("Configuration loaded")

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	// Data sources, optionally behind the redis cache
	sources, redisClient, err := setupSources(rootCtx, cfg, log)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to set up data sources")
	}

	// Page sessions
	store := usecase.NewSessionStore(timeutil.NewRealClock(), cfg.Session.TTL, log)
	go store.RunSweeper(rootCtx, cfg.Session.SweepInterval)

	ucConfig := &usecase.Config{
		FetchTimeout:  cfg.Timeouts.Fetch,
		SettleTimeout: cfg.Timeouts.Settle,
		SessionTTL:    cfg.Session.TTL,
	}
	pageService := usecase.NewPageService(sources, store, notify.NewLogNotifier(log), log, ucConfig)
	listingService := usecase.NewListingService(sources, ucConfig)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Configure server timeouts from config
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	middleware.SetupWithConfig(e, log, middleware.Config{
		Recovery:     middleware.RecoveryConfig{DisablePrintStack: cfg.IsProduction()},
		BodyLimit:    cfg.Server.BodyLimit,
		AllowOrigins: cfg.Server.AllowOrigins,
	})

	listinghttp.RegisterRoutes(e,
		listinghttp.NewListingHandler(listingService, sourceNames(sources)...),
		listinghttp.NewPageHandler(pageService),
	)

	// Swagger documentation endpoint
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Start server with graceful shutdown
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	go func() {
		logger.Info().Str("address", addr).Msg("Starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	gracefulShutdown(e, stop, store, redisClient)
}

// setupSources builds one data source per page kind. The returned redis
// client is nil when caching is disabled.
func setupSources(ctx context.Context, cfg *config.Config, log zerolog.Logger) (usecase.Sources, *redis.Client, error) {
	sources := make(usecase.Sources, 2)

	switch cfg.Source.Mode {
	case config.SourceRemote:
		retryCfg := retry.SourceConfig.WithMaxAttempts(cfg.Source.RetryAttempts)
		for _, kind := range []usecase.PageKind{usecase.PageDeals, usecase.PageDestinations} {
			src, err := remote.NewSource(cfg.Source.BaseURL, string(kind),
				remote.WithRetry(retryCfg),
				remote.WithLogger(log),
			)
			if err != nil {
				return nil, nil, fmt.Errorf("remote %s source: %w", kind, err)
			}
			sources[kind] = src
		}
	default:
		opts := []fixture.Option{
			fixture.WithDelay(cfg.Source.Delay),
			fixture.WithFailureRate(cfg.Source.FailureRate),
			fixture.WithPageSize(cfg.Source.PageSize),
			fixture.WithLogger(log),
		}
		if cfg.Source.Seed != 0 {
			opts = append(opts, fixture.WithSeed(cfg.Source.Seed))
		}
		deals, err := fixture.NewDealsSource(opts...)
		if err != nil {
			return nil, nil, fmt.Errorf("fixture deals source: %w", err)
		}
		sources[usecase.PageDeals] = deals
		sources[usecase.PageDestinations] = fixture.NewDestinationsSource(opts...)
	}

	if !cfg.Cache.Enabled {
		return sources, nil, nil
	}

	client, err := cache.NewClient(ctx, cache.ClientConfig{
		Addr:        cfg.Cache.Addr,
		Password:    cfg.Cache.Password,
		DB:          cfg.Cache.DB,
		DialTimeout: cfg.Cache.DialTimeout,
	})
	if err != nil {
		return nil, nil, err
	}
	for kind, src := range sources {
		sources[kind] = cache.New(src, client,
			cache.WithTTL(cfg.Cache.TTL),
			cache.WithKeyPrefix(cfg.Cache.KeyPrefix),
			cache.WithOpTimeout(cfg.Cache.OpTimeout),
			cache.WithLogger(log),
		)
	}
	log.Info().Str("addr", cfg.Cache.Addr).Dur("ttl", cfg.Cache.TTL).Msg("Listing cache enabled")
	return sources, client, nil
}

func sourceNames(sources usecase.Sources) []string {
	names := make([]string, 0, len(sources))
	for _, kind := range []usecase.PageKind{usecase.PageDeals, usecase.PageDestinations} {
		if src, ok := sources[kind]; ok {
			names = append(names, src.Name())
		}
	}
	return names
}

// gracefulShutdown handles graceful server shutdown on interrupt signals.
func gracefulShutdown(e *echo.Echo, stop context.CancelFunc, store *usecase.SessionStore, redisClient *redis.Client) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logger.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Error during server shutdown")
	}

	// Stop the sweeper and cancel any in-flight region loads
	stop()
	store.CloseAll()

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("Error closing redis client")
		}
	}

	logger.Info().Msg("Server stopped")
}
