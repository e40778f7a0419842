package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/wanderlust/travel-listing-service/internal/domain"
	"github.com/wanderlust/travel-listing-service/internal/infrastructure/logger"
)

// PageKind identifies a listing page.
type PageKind string

// Page kinds.
const (
	PageDeals        PageKind = "deals"
	PageDestinations PageKind = "destinations"
)

// PageLayout is the static description of a page: its filters and regions.
type PageLayout struct {
	Kind    PageKind
	Schema  *domain.FilterSchema
	Regions []RegionConfig

	// Title derives the page heading from the filters; nil means no heading.
	Title func(filters domain.FilterSet) string
}

// DealsLayout has a featured grid and a paginated list of all deals.
var DealsLayout = PageLayout{
	Kind:   PageDeals,
	Schema: domain.DealsSchema,
	Regions: []RegionConfig{
		{Name: "featured", Noun: "featured deals", Fetch: domain.VariantFeatured, Card: CardGrid},
		{Name: "all", Noun: "deals", Fetch: domain.VariantAll, Card: CardHorizontal, Paginated: true},
	},
}

// DestinationsLayout has ranked top destinations, trending and seasonal grids.
var DestinationsLayout = PageLayout{
	Kind:   PageDestinations,
	Schema: domain.DestinationsSchema,
	Regions: []RegionConfig{
		{Name: "top", Noun: "destinations", Fetch: domain.VariantTop, Card: CardRanked},
		{Name: "trending", Noun: "trending destinations", Fetch: domain.VariantTrending, Card: CardGrid},
		{Name: "seasonal", Noun: "seasonal destinations", Fetch: domain.VariantSeasonal, Card: CardGrid},
	},
	Title: func(filters domain.FilterSet) string {
		return domain.RegionTitle(filters.Get(domain.FilterRegion))
	},
}

// LayoutFor returns the layout of a page kind.
func LayoutFor(kind string) (PageLayout, error) {
	switch PageKind(kind) {
	case PageDeals:
		return DealsLayout, nil
	case PageDestinations:
		return DestinationsLayout, nil
	default:
		return PageLayout{}, fmt.Errorf("%w: %q", domain.ErrUnknownKind, kind)
	}
}

// Supports reports whether the layout requests variant from its source.
func (l PageLayout) Supports(variant domain.FetchVariant) bool {
	for _, r := range l.Regions {
		if r.Fetch == variant {
			return true
		}
	}
	return false
}

// HistoryView summarizes the navigation history of a page.
type HistoryView struct {
	Entries    int  `json:"entries"`
	Cursor     int  `json:"cursor"`
	CanBack    bool `json:"canBack"`
	CanForward bool `json:"canForward"`
}

// PageView is a snapshot of a whole page.
type PageView struct {
	ID       string            `json:"id"`
	Kind     PageKind          `json:"kind"`
	Location string            `json:"location"`
	Title    string            `json:"title,omitempty"`
	Filters  map[string]string `json:"filters"`
	History  HistoryView       `json:"history"`
	Regions  []View            `json:"regions"`
}

// PageSession is one open listing page. It owns the current filter set, the
// navigation history of serialized filter sets, and one ListingController per
// region. Regions never share state, so one failing does not affect another.
type PageSession struct {
	id     string
	layout PageLayout
	log    zerolog.Logger

	regions map[string]*ListingController

	// nav serializes navigation so every region loads the same filters.
	nav sync.Mutex

	mu      sync.Mutex
	filters domain.FilterSet
	history []string
	cursor  int
}

// NewPageSession creates a session whose initial filters are parsed from query.
// Invalid filter values are corrected silently. Regions stay idle until Start.
func NewPageSession(id string, layout PageLayout, source domain.DataSource, query string, log zerolog.Logger, opts ...ControllerOption) *PageSession {
	log = logger.ForSession(log, id, string(layout.Kind))

	filters, err := domain.ParseFiltersStrict(layout.Schema, query)
	if err != nil {
		log.Debug().Err(err).Msg("Corrected invalid filters")
	}

	s := &PageSession{
		id:      id,
		layout:  layout,
		log:     log,
		regions: make(map[string]*ListingController, len(layout.Regions)),
		filters: filters,
		history: []string{filters.Encode()},
	}

	regionOpts := append([]ControllerOption{WithLogger(log)}, opts...)
	for _, cfg := range layout.Regions {
		s.regions[cfg.Name] = NewListingController(cfg, source, regionOpts...)
	}
	return s
}

// ID returns the session identifier.
func (s *PageSession) ID() string {
	return s.id
}

// Layout returns the page layout.
func (s *PageSession) Layout() PageLayout {
	return s.layout
}

// Filters returns the current filter set.
func (s *PageSession) Filters() domain.FilterSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters
}

// Location returns the current serialized query string.
func (s *PageSession) Location() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters.Encode()
}

// Start loads every region with the current filters.
func (s *PageSession) Start() {
	s.nav.Lock()
	defer s.nav.Unlock()
	s.loadAll(s.Filters())
}

// Apply makes filters current: it pushes a history entry (dropping forward
// entries), resets every region to page 1 and reloads them.
// Re-applying the current filters reloads without a new entry.
func (s *PageSession) Apply(filters domain.FilterSet) {
	s.nav.Lock()
	defer s.nav.Unlock()

	s.mu.Lock()
	encoded := filters.Encode()
	if encoded != s.history[s.cursor] {
		s.history = append(s.history[:s.cursor+1], encoded)
		s.cursor++
	}
	s.filters = filters
	s.mu.Unlock()

	s.log.Info().Str("location", encoded).Msg("Filters applied")
	s.loadAll(filters)
}

// ApplyQuery parses query with the page schema and applies the result.
func (s *PageSession) ApplyQuery(query string) {
	filters, err := domain.ParseFiltersStrict(s.layout.Schema, query)
	if err != nil {
		s.log.Debug().Err(err).Msg("Corrected invalid filters")
	}
	s.Apply(filters)
}

// Back moves one entry back in history and reloads if the filters changed.
func (s *PageSession) Back() error {
	return s.step(-1)
}

// Forward moves one entry forward in history and reloads if the filters changed.
func (s *PageSession) Forward() error {
	return s.step(1)
}

func (s *PageSession) step(delta int) error {
	s.nav.Lock()
	defer s.nav.Unlock()

	s.mu.Lock()
	next := s.cursor + delta
	if next < 0 || next >= len(s.history) {
		s.mu.Unlock()
		return domain.ErrNoHistory
	}
	s.cursor = next
	query := s.history[next]
	s.mu.Unlock()

	s.restore(query)
	return nil
}

// Pop handles a history-pop notification carrying the location's query.
// The query is re-parsed and the regions reload without adding a history entry.
func (s *PageSession) Pop(query string) {
	s.nav.Lock()
	defer s.nav.Unlock()

	filters := domain.ParseFilters(s.layout.Schema, query)
	encoded := filters.Encode()

	s.mu.Lock()
	for i := len(s.history) - 1; i >= 0; i-- {
		if s.history[i] == encoded {
			s.cursor = i
			break
		}
	}
	s.mu.Unlock()

	s.restore(encoded)
}

func (s *PageSession) restore(query string) {
	filters := domain.ParseFilters(s.layout.Schema, query)

	s.mu.Lock()
	changed := !filters.Equal(s.filters)
	s.filters = filters
	s.mu.Unlock()

	if !changed {
		return
	}
	s.log.Info().Str("location", query).Msg("History restored")
	s.loadAll(filters)
}

// SetPage changes the page of a paginated region. It is serialized with
// filter and history changes so the page always belongs to the current filters.
func (s *PageSession) SetPage(region string, page int) error {
	s.nav.Lock()
	defer s.nav.Unlock()

	c, err := s.region(region)
	if err != nil {
		return err
	}
	_, err = c.SetPage(page)
	return err
}

// Retry re-issues the last request of a region.
func (s *PageSession) Retry(region string) error {
	s.nav.Lock()
	defer s.nav.Unlock()

	c, err := s.region(region)
	if err != nil {
		return err
	}
	_, err = c.Retry()
	return err
}

// Region returns the controller of a region.
func (s *PageSession) Region(name string) (*ListingController, error) {
	return s.region(name)
}

func (s *PageSession) region(name string) (*ListingController, error) {
	c, ok := s.regions[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q on %s page", domain.ErrUnknownRegion, name, s.layout.Kind)
	}
	return c, nil
}

func (s *PageSession) loadAll(filters domain.FilterSet) {
	for _, cfg := range s.layout.Regions {
		s.regions[cfg.Name].Load(filters)
	}
}

// Wait blocks until every region has settled or ctx ends.
func (s *PageSession) Wait(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, cfg := range s.layout.Regions {
		c := s.regions[cfg.Name]
		g.Go(func() error {
			return c.Wait(ctx)
		})
	}
	return g.Wait()
}

// Snapshot returns the current view of the whole page.
func (s *PageSession) Snapshot() PageView {
	s.mu.Lock()
	view := PageView{
		ID:       s.id,
		Kind:     s.layout.Kind,
		Location: s.filters.Encode(),
		Filters:  s.filters.Map(),
		History: HistoryView{
			Entries:    len(s.history),
			Cursor:     s.cursor,
			CanBack:    s.cursor > 0,
			CanForward: s.cursor < len(s.history)-1,
		},
	}
	if s.layout.Title != nil {
		view.Title = s.layout.Title(s.filters)
	}
	s.mu.Unlock()

	view.Regions = make([]View, 0, len(s.layout.Regions))
	for _, cfg := range s.layout.Regions {
		view.Regions = append(view.Regions, s.regions[cfg.Name].View())
	}
	return view
}

// Close cancels every outstanding fetch.
func (s *PageSession) Close() {
	for _, c := range s.regions {
		c.Close()
	}
}
