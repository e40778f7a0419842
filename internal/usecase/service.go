// Package usecase contains the listing pipeline: rendering, pagination, the
// per-region load state machine and the page sessions that drive it.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/wanderlust/travel-listing-service/internal/domain"
	"github.com/wanderlust/travel-listing-service/internal/infrastructure/timeutil"
)

// Default timeout values.
const (
	DefaultSettleTimeout = 3 * time.Second
)

// Config contains configuration options for the page and listing services.
type Config struct {
	// FetchTimeout bounds every data source call
	FetchTimeout time.Duration

	// SettleTimeout bounds how long a page operation waits for its regions
	// before returning a snapshot that may still show loading regions
	SettleTimeout time.Duration

	// SessionTTL is the idle lifetime of a page session
	SessionTTL time.Duration
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		FetchTimeout:  DefaultFetchTimeout,
		SettleTimeout: DefaultSettleTimeout,
		SessionTTL:    DefaultSessionTTL,
	}
}

func (c *Config) withDefaults() Config {
	cfg := DefaultConfig()
	if c == nil {
		return cfg
	}
	if c.FetchTimeout > 0 {
		cfg.FetchTimeout = c.FetchTimeout
	}
	if c.SettleTimeout > 0 {
		cfg.SettleTimeout = c.SettleTimeout
	}
	if c.SessionTTL > 0 {
		cfg.SessionTTL = c.SessionTTL
	}
	return cfg
}

// Sources maps each page kind to its data source.
type Sources map[PageKind]domain.DataSource

// FilterChange describes a filter form submission. When Params is set, only
// the listed parameters change; otherwise Query replaces the whole set.
type FilterChange struct {
	Query  string
	Params map[string]string
}

// PageService drives page sessions. Every method that changes a page waits
// (bounded by the settle timeout) for the affected regions before returning.
type PageService interface {
	Open(ctx context.Context, kind, query string) (*PageView, error)
	Get(ctx context.Context, id string, wait bool) (*PageView, error)
	ApplyFilters(ctx context.Context, id string, change FilterChange) (*PageView, error)
	SetPage(ctx context.Context, id, region string, page int) (*PageView, error)
	Retry(ctx context.Context, id, region string) (*PageView, error)
	Back(ctx context.Context, id string) (*PageView, error)
	Forward(ctx context.Context, id string) (*PageView, error)
	Pop(ctx context.Context, id, query string) (*PageView, error)
	Close(ctx context.Context, id string) error
}

// ListingService serves single listing pages straight from a data source.
// It backs the public data source endpoint.
type ListingService interface {
	Fetch(ctx context.Context, kind, query string, page int, variant string) (*domain.ListingResult, error)
}

type pageService struct {
	sources  Sources
	store    *SessionStore
	notifier domain.Notifier
	log      zerolog.Logger
	cfg      Config
}

// NewPageService creates a PageService. If config is nil, defaults are used.
func NewPageService(sources Sources, store *SessionStore, notifier domain.Notifier, log zerolog.Logger, config *Config) PageService {
	cfg := config.withDefaults()
	if store == nil {
		store = NewSessionStore(timeutil.NewRealClock(), cfg.SessionTTL, log)
	}
	return &pageService{
		sources:  sources,
		store:    store,
		notifier: notifier,
		log:      log,
		cfg:      cfg,
	}
}

// Open creates a page session from a query string and loads it.
func (s *pageService) Open(ctx context.Context, kind, query string) (*PageView, error) {
	layout, err := LayoutFor(kind)
	if err != nil {
		return nil, err
	}
	source, ok := s.sources[layout.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: no data source for %q", domain.ErrUnknownKind, kind)
	}

	opts := []ControllerOption{WithFetchTimeout(s.cfg.FetchTimeout)}
	if s.notifier != nil {
		opts = append(opts, WithNotifier(s.notifier))
	}

	session := NewPageSession(s.store.NewID(), layout, source, query, s.log, opts...)
	s.store.Put(session)
	session.Start()

	return s.settle(ctx, session)
}

// Get returns the current snapshot, optionally waiting for loading regions.
func (s *pageService) Get(ctx context.Context, id string, wait bool) (*PageView, error) {
	session, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	if wait {
		return s.settle(ctx, session)
	}
	view := session.Snapshot()
	return &view, nil
}

// ApplyFilters applies a filter form submission.
func (s *pageService) ApplyFilters(ctx context.Context, id string, change FilterChange) (*PageView, error) {
	session, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}

	if change.Params == nil {
		session.ApplyQuery(change.Query)
		return s.settle(ctx, session)
	}

	filters := session.Filters()
	schema := session.Layout().Schema
	for param, value := range change.Params {
		spec, ok := schema.SpecByParam(param)
		if !ok {
			continue
		}
		filters = filters.With(spec.Key, value)
	}
	session.Apply(filters)
	return s.settle(ctx, session)
}

// SetPage changes the page of a region.
func (s *pageService) SetPage(ctx context.Context, id, region string, page int) (*PageView, error) {
	session, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	if err := session.SetPage(region, page); err != nil {
		return nil, err
	}
	return s.settle(ctx, session)
}

// Retry re-issues a region's last request.
func (s *pageService) Retry(ctx context.Context, id, region string) (*PageView, error) {
	session, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	if err := session.Retry(region); err != nil {
		return nil, err
	}
	return s.settle(ctx, session)
}

// Back navigates one history entry back.
func (s *pageService) Back(ctx context.Context, id string) (*PageView, error) {
	session, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	if err := session.Back(); err != nil {
		return nil, err
	}
	return s.settle(ctx, session)
}

// Forward navigates one history entry forward.
func (s *pageService) Forward(ctx context.Context, id string) (*PageView, error) {
	session, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	if err := session.Forward(); err != nil {
		return nil, err
	}
	return s.settle(ctx, session)
}

// Pop restores the page from a history-pop location.
func (s *pageService) Pop(ctx context.Context, id, query string) (*PageView, error) {
	session, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	session.Pop(query)
	return s.settle(ctx, session)
}

// Close ends a page session.
func (s *pageService) Close(_ context.Context, id string) error {
	return s.store.Delete(id)
}

// settle waits for the session's regions, up to the settle timeout. A region
// still loading after the timeout is reported as loading, not as an error.
func (s *pageService) settle(ctx context.Context, session *PageSession) (*PageView, error) {
	waitCtx, cancel := context.WithTimeout(ctx, s.cfg.SettleTimeout)
	defer cancel()

	if err := session.Wait(waitCtx); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		s.log.Debug().Str("session_id", session.ID()).Msg("Regions still loading after settle timeout")
	}

	view := session.Snapshot()
	return &view, nil
}

type listingService struct {
	sources Sources
	timeout time.Duration
}

// NewListingService creates a ListingService. If config is nil, defaults are used.
func NewListingService(sources Sources, config *Config) ListingService {
	cfg := config.withDefaults()
	return &listingService{sources: sources, timeout: cfg.FetchTimeout}
}

// Fetch parses the filters with the page schema and fetches one page.
func (s *listingService) Fetch(ctx context.Context, kind, query string, page int, variant string) (*domain.ListingResult, error) {
	layout, err := LayoutFor(kind)
	if err != nil {
		return nil, err
	}
	source, ok := s.sources[layout.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: no data source for %q", domain.ErrUnknownKind, kind)
	}

	fallback := layout.Regions[0].Fetch
	if layout.Supports(domain.VariantAll) {
		fallback = domain.VariantAll
	}
	v, err := domain.ParseFetchVariant(variant, fallback)
	if err != nil {
		return nil, err
	}
	if !layout.Supports(v) {
		return nil, fmt.Errorf("%w: %q is not served on the %s page", domain.ErrUnknownVariant, variant, kind)
	}
	if page < 1 {
		page = 1
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	filters := domain.ParseFilters(layout.Schema, query)
	result, err := source.FetchPage(ctx, filters, page, v)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, domain.NewFetchTimeoutError(source.Name())
		}
		return nil, err
	}
	return result, nil
}

// Ensure implementations satisfy their interfaces at compile time.
var (
	_ PageService    = (*pageService)(nil)
	_ ListingService = (*listingService)(nil)
)
