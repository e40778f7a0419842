// Package fixture provides in-process data sources backed by a generated
// travel catalog. They stand in for the listings backend in development and tests.
package fixture

import (
	"cmp"
	"context"
	"fmt"
	"math/rand"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/wanderlust/travel-listing-service/internal/domain"
	"github.com/wanderlust/travel-listing-service/internal/infrastructure/logger"
)

// Source names.
const (
	DealsSourceName        = "fixture_deals"
	DestinationsSourceName = "fixture_destinations"
)

// Defaults for the fixture sources.
const (
	DefaultPageSize     = 6
	DefaultFeaturedSize = 3
)

// Option configures a fixture source.
type Option func(*base)

// WithDelay simulates backend latency on every fetch.
func WithDelay(d time.Duration) Option {
	return func(b *base) {
		b.delay = d
	}
}

// WithFailureRate makes the given fraction of fetches fail with
// ErrSourceUnavailable. The rate is clamped to [0, 1].
func WithFailureRate(rate float64) Option {
	return func(b *base) {
		b.failureRate = min(max(rate, 0), 1)
	}
}

// WithSeed seeds the failure injection so failures are reproducible.
func WithSeed(seed int64) Option {
	return func(b *base) {
		b.rng = rand.New(rand.NewSource(seed))
	}
}

// WithPageSize sets the number of deals per page.
func WithPageSize(n int) Option {
	return func(b *base) {
		if n > 0 {
			b.pageSize = n
		}
	}
}

// WithLogger sets the source logger.
func WithLogger(l zerolog.Logger) Option {
	return func(b *base) {
		b.log = l
	}
}

// base holds the simulation settings shared by both sources.
type base struct {
	name        string
	delay       time.Duration
	failureRate float64
	pageSize    int
	log         zerolog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

func newBase(name string, opts []Option) *base {
	b := &base{
		name:     name,
		pageSize: DefaultPageSize,
		log:      zerolog.Nop(),
		rng:      rand.New(rand.NewSource(1)),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.log = logger.ForSource(b.log, name)
	return b
}

// simulate applies the artificial delay and failure injection.
func (b *base) simulate(ctx context.Context) error {
	if b.delay > 0 {
		timer := time.NewTimer(b.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return domain.NewFetchError(b.name, ctx.Err())
		}
	} else if err := ctx.Err(); err != nil {
		return domain.NewFetchError(b.name, err)
	}

	if b.failureRate > 0 {
		b.mu.Lock()
		roll := b.rng.Float64()
		b.mu.Unlock()
		if roll < b.failureRate {
			b.log.Debug().Msg("Injected failure")
			return domain.NewSourceUnavailableError(b.name)
		}
	}
	return nil
}

// finish validates items before they leave the source.
func (b *base) finish(items []domain.Item, page domain.Page) (*domain.ListingResult, error) {
	if err := domain.ValidateItems(items); err != nil {
		return nil, domain.NewFetchError(b.name, err)
	}
	return domain.NewListingResult(items, page), nil
}

// DealsSource serves the deals catalog with filtering, sorting and pagination.
type DealsSource struct {
	*base
	catalog []dealRecord
}

// NewDealsSource creates the deals fixture source.
func NewDealsSource(opts ...Option) (*DealsSource, error) {
	catalog, err := buildDeals()
	if err != nil {
		return nil, fmt.Errorf("building deals catalog: %w", err)
	}
	return &DealsSource{base: newBase(DealsSourceName, opts), catalog: catalog}, nil
}

// Name returns the source name.
func (s *DealsSource) Name() string {
	return s.name
}

// FetchPage returns featured deals or one page of all deals matching filters.
func (s *DealsSource) FetchPage(ctx context.Context, filters domain.FilterSet, page int, variant domain.FetchVariant) (*domain.ListingResult, error) {
	if variant != domain.VariantFeatured && variant != domain.VariantAll {
		return nil, fmt.Errorf("%w: %q for deals", domain.ErrUnknownVariant, variant)
	}
	if err := s.simulate(ctx); err != nil {
		return nil, err
	}

	matches := s.match(filters, variant == domain.VariantFeatured)

	if variant == domain.VariantFeatured {
		if len(matches) > DefaultFeaturedSize {
			matches = matches[:DefaultFeaturedSize]
		}
		return s.finish(matches, domain.NewPage(1, 1, len(matches)))
	}

	if len(matches) == 0 {
		return s.finish(nil, domain.NewPage(1, 1, 0))
	}
	p := domain.PageFor(page, s.pageSize, len(matches))
	start := (p.Current - 1) * s.pageSize
	end := min(start+s.pageSize, len(matches))
	return s.finish(matches[start:end], p)
}

func (s *DealsSource) match(filters domain.FilterSet, featuredOnly bool) []domain.Item {
	items := make([]domain.Item, 0, len(s.catalog))
	for _, rec := range s.catalog {
		if featuredOnly && !rec.item.Featured {
			continue
		}
		if !accepts(filters, domain.FilterCategory, rec.item.Category) ||
			!accepts(filters, domain.FilterDestination, rec.slug) ||
			!accepts(filters, domain.FilterPriceRange, rec.priceRange) ||
			!accepts(filters, domain.FilterMonth, rec.month) {
			continue
		}
		items = append(items, rec.item)
	}
	sortDeals(items, filters.Get(domain.FilterSort))
	return items
}

// accepts reports whether value passes the filter on key. Keys missing from
// the filter set do not filter.
func accepts(filters domain.FilterSet, key domain.FilterKey, value string) bool {
	want := filters.Get(key)
	return want == "" || filters.IsAll(key) || want == value
}

// sortDeals orders deals in place. Ties keep catalog (popularity) order.
func sortDeals(items []domain.Item, order string) {
	var less func(a, b domain.Item) int
	switch order {
	case domain.SortPriceAsc:
		less = func(a, b domain.Item) int { return cmp.Compare(a.Price.Final, b.Price.Final) }
	case domain.SortPriceDesc:
		less = func(a, b domain.Item) int { return cmp.Compare(b.Price.Final, a.Price.Final) }
	case domain.SortDiscount:
		less = func(a, b domain.Item) int { return cmp.Compare(b.Price.Discount, a.Price.Discount) }
	case domain.SortDuration:
		less = func(a, b domain.Item) int { return cmp.Compare(a.Duration.Days, b.Duration.Days) }
	default:
		less = func(a, b domain.Item) int { return cmp.Compare(a.Rank, b.Rank) }
	}
	slices.SortStableFunc(items, less)
}

// DestinationsSource serves top, trending and seasonal destinations per region.
type DestinationsSource struct {
	*base
}

// NewDestinationsSource creates the destinations fixture source.
func NewDestinationsSource(opts ...Option) *DestinationsSource {
	return &DestinationsSource{base: newBase(DestinationsSourceName, opts)}
}

// Name returns the source name.
func (s *DestinationsSource) Name() string {
	return s.name
}

// FetchPage returns the destination list of the requested variant for the
// region filter. Destination lists are never paginated.
func (s *DestinationsSource) FetchPage(ctx context.Context, filters domain.FilterSet, _ int, variant domain.FetchVariant) (*domain.ListingResult, error) {
	switch variant {
	case domain.VariantTop, domain.VariantTrending, domain.VariantSeasonal:
	default:
		return nil, fmt.Errorf("%w: %q for destinations", domain.ErrUnknownVariant, variant)
	}
	if err := s.simulate(ctx); err != nil {
		return nil, err
	}

	items := buildDestinations(filters.Get(domain.FilterRegion), variant)
	return s.finish(items, domain.NewPage(1, 1, len(items)))
}

// Ensure sources implement domain.DataSource at compile time.
var (
	_ domain.DataSource = (*DealsSource)(nil)
	_ domain.DataSource = (*DestinationsSource)(nil)
)
