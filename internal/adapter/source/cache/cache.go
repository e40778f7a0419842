// Package cache provides a redis read-through cache in front of a DataSource.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/wanderlust/travel-listing-service/internal/domain"
	"github.com/wanderlust/travel-listing-service/internal/infrastructure/logger"
)

// Defaults for the cache.
const (
	DefaultTTL         = time.Minute
	DefaultKeyPrefix   = "listings"
	DefaultOpTimeout   = 100 * time.Millisecond
	DefaultDialTimeout = 200 * time.Millisecond
)

// ClientConfig holds redis connection settings.
type ClientConfig struct {
	Addr     string
	Password string
	DB       int

	// DialTimeout bounds each connection attempt. Zero means DefaultDialTimeout.
	DialTimeout time.Duration
}

// NewClient creates a redis client and verifies connectivity.
// The client gives up quickly so a lost redis degrades to cache misses
// instead of stalling fetches.
func NewClient(ctx context.Context, cfg ClientConfig) (*redis.Client, error) {
	dialTimeout := cfg.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = DefaultDialTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  dialTimeout,
		ReadTimeout:  dialTimeout,
		WriteTimeout: dialTimeout,
		MaxRetries:   -1,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("unable to ping redis at %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// Option configures a Source.
type Option func(*Source)

// WithTTL sets how long a fetched page stays cached.
func WithTTL(ttl time.Duration) Option {
	return func(s *Source) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithKeyPrefix sets the redis key prefix.
func WithKeyPrefix(prefix string) Option {
	return func(s *Source) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// WithOpTimeout bounds every single redis read or write.
func WithOpTimeout(d time.Duration) Option {
	return func(s *Source) {
		if d > 0 {
			s.opTimeout = d
		}
	}
}

// WithLogger sets the cache logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Source) {
		s.log = l
	}
}

// Source caches successful fetches of the wrapped DataSource in redis.
// Identical concurrent misses share one upstream fetch. When redis is
// unreachable every fetch goes to the wrapped source.
type Source struct {
	next      domain.DataSource
	client    redis.Cmdable
	ttl       time.Duration
	prefix    string
	opTimeout time.Duration
	log       zerolog.Logger
	group     singleflight.Group
}

// New wraps next with a redis cache.
func New(next domain.DataSource, client redis.Cmdable, opts ...Option) *Source {
	s := &Source{
		next:      next,
		client:    client,
		ttl:       DefaultTTL,
		prefix:    DefaultKeyPrefix,
		opTimeout: DefaultOpTimeout,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = logger.ForSource(s.log, s.Name())
	return s
}

// Name returns the wrapped source name.
func (s *Source) Name() string {
	return s.next.Name()
}

// Key returns the cache key of one fetch.
func (s *Source) Key(filters domain.FilterSet, page int, variant domain.FetchVariant) string {
	return s.prefix + ":" + s.next.Name() + ":" + string(variant) + ":" + strconv.Itoa(page) + ":" + filters.Encode()
}

// FetchPage returns a cached page or fetches and caches it.
func (s *Source) FetchPage(ctx context.Context, filters domain.FilterSet, page int, variant domain.FetchVariant) (*domain.ListingResult, error) {
	key := s.Key(filters, page, variant)

	if result, ok := s.lookup(ctx, key); ok {
		return result, nil
	}

	ch := s.group.DoChan(key, func() (interface{}, error) {
		result, err := s.next.FetchPage(ctx, filters, page, variant)
		if err != nil {
			return nil, err
		}
		s.store(ctx, key, result)
		return result, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*domain.ListingResult), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// lookup reads key from redis. Any redis failure counts as a miss.
func (s *Source) lookup(ctx context.Context, key string) (*domain.ListingResult, bool) {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	raw, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn().Err(err).Msg("Cache read failed, fetching from source")
		}
		return nil, false
	}

	var result domain.ListingResult
	if err := json.Unmarshal(raw, &result); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("Discarding corrupt cache entry")
		_ = s.client.Del(ctx, key).Err()
		return nil, false
	}

	s.log.Debug().Str("key", key).Msg("Cache hit")
	return domain.NewListingResult(result.Items, result.Page), true
}

func (s *Source) store(ctx context.Context, key string, result *domain.ListingResult) {
	raw, err := json.Marshal(result)
	if err != nil {
		s.log.Warn().Err(err).Msg("Encoding cache entry failed")
		return
	}
	// The page is already fetched; a caller leaving now should not lose it.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opTimeout)
	defer cancel()

	if err := s.client.Set(ctx, key, raw, s.ttl).Err(); err != nil {
		s.log.Warn().Err(err).Msg("Cache write failed")
	}
}

// Ensure Source implements domain.DataSource at compile time.
var _ domain.DataSource = (*Source)(nil)
