package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/wanderlust/travel-listing-service/internal/domain"
	"github.com/wanderlust/travel-listing-service/internal/infrastructure/logger"
)

// DefaultFetchTimeout bounds a single fetch when no timeout is configured.
const DefaultFetchTimeout = 5 * time.Second

// RegionState is the state of a listing region.
type RegionState string

// Region states. Idle is left on the first load and never re-entered.
const (
	StateIdle    RegionState = "idle"
	StateLoading RegionState = "loading"
	StateReady   RegionState = "ready"
	StateFailed  RegionState = "failed"
)

// RegionConfig describes one listing region of a page.
type RegionConfig struct {
	// Name identifies the region within its page (e.g., "featured")
	Name string

	// Noun is used in user-facing messages (e.g., "deals")
	Noun string

	// Fetch is the variant requested from the data source
	Fetch domain.FetchVariant

	// Card is the rendering mode of the region's items
	Card CardVariant

	// Paginated regions render a pagination bar and accept page changes
	Paginated bool
}

// Request is the exact set of parameters of one fetch.
type Request struct {
	Filters domain.FilterSet
	Page    int
}

// Message is a plain text panel.
type Message struct {
	Text string `json:"text"`
}

// RetryAction re-issues the failed request with identical parameters.
type RetryAction struct {
	Label string `json:"label"`
	Query string `json:"query"`
	Page  int    `json:"page"`
}

// ErrorPanel is shown when a region failed to load.
type ErrorPanel struct {
	Message string      `json:"message"`
	Retry   RetryAction `json:"retry"`
}

// View is the complete, immutable rendering of a region at one point in time.
// Exactly one of Placeholder, Items/Empty, or Error describes the content.
type View struct {
	Region string      `json:"region"`
	State  RegionState `json:"state"`

	// Seq is the request sequence number this view belongs to
	Seq uint64 `json:"seq"`

	Query string `json:"query"`
	Page  int    `json:"page"`

	Placeholder *Message     `json:"placeholder,omitempty"`
	Items       []Fragment   `json:"items,omitempty"`
	Empty       *Message     `json:"empty,omitempty"`
	Error       *ErrorPanel  `json:"error,omitempty"`
	Pagination  *Pagination  `json:"pagination,omitempty"`
	Result      *domain.Page `json:"result,omitempty"`
}

// Mounter receives every new view of a region. It is called with the
// region's lock held, in request order, and must not call back into the controller.
type Mounter interface {
	Mount(view View)
}

// MounterFunc adapts a function to the Mounter interface.
type MounterFunc func(view View)

// Mount calls f(view).
func (f MounterFunc) Mount(view View) {
	f(view)
}

// ControllerOption configures a ListingController.
type ControllerOption func(*ListingController)

// WithFetchTimeout sets the deadline applied to every fetch.
func WithFetchTimeout(d time.Duration) ControllerOption {
	return func(c *ListingController) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithMounter sets the view sink.
func WithMounter(m Mounter) ControllerOption {
	return func(c *ListingController) {
		c.mounter = m
	}
}

// WithNotifier sets the transient message sink used on failures.
func WithNotifier(n domain.Notifier) ControllerOption {
	return func(c *ListingController) {
		c.notifier = n
	}
}

// WithLogger sets the controller logger.
func WithLogger(l zerolog.Logger) ControllerOption {
	return func(c *ListingController) {
		c.log = l
	}
}

// ListingController runs the load state machine of a single region:
//
//	Idle -> Loading -> Ready | Failed
//	Ready | Failed -> Loading  (filter change, page change, retry)
//
// Every transition to Loading issues exactly one fetch tagged with a new
// sequence number. A response is applied only if its sequence number is still
// the latest, so the last request wins regardless of response order.
type ListingController struct {
	cfg      RegionConfig
	source   domain.DataSource
	timeout  time.Duration
	mounter  Mounter
	notifier domain.Notifier
	log      zerolog.Logger

	base   context.Context
	cancel context.CancelFunc

	mu   sync.Mutex
	seq  uint64
	req  Request
	view View
	done chan struct{}

	// known is the page of the last successful result, for knownQuery
	known      *domain.Page
	knownQuery string
}

// NewListingController creates an idle controller for one region.
func NewListingController(cfg RegionConfig, source domain.DataSource, opts ...ControllerOption) *ListingController {
	if cfg.Card == "" {
		cfg.Card = CardGrid
	}
	if cfg.Noun == "" {
		cfg.Noun = "items"
	}

	c := &ListingController{
		cfg:     cfg,
		source:  source,
		timeout: DefaultFetchTimeout,
		log:     zerolog.Nop(),
		view:    View{Region: cfg.Name, State: StateIdle},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = logger.ForRegion(c.log, cfg.Name)
	c.base, c.cancel = context.WithCancel(context.Background())
	return c
}

// Config returns the region configuration.
func (c *ListingController) Config() RegionConfig {
	return c.cfg
}

// Load starts loading page 1 for the given filters.
// It is used both for the first load and for every filter or sort change.
func (c *ListingController) Load(filters domain.FilterSet) uint64 {
	return c.begin(Request{Filters: filters, Page: 1})
}

// SetPage starts loading another page with the current filters.
// The page is clamped to [1, max(totalPages, 1)] of the last successful result
// for those filters, even when a later request failed.
func (c *ListingController) SetPage(page int) (uint64, error) {
	if !c.cfg.Paginated {
		return 0, domain.WrapInvalidRequest("region %q is not paginated", c.cfg.Name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.seq == 0 {
		return 0, domain.WrapInvalidRequest("region %q has not been loaded", c.cfg.Name)
	}

	req := c.req
	upper := page
	if c.known != nil && c.knownQuery == req.Filters.Encode() {
		upper = max(c.known.TotalPages, 1)
	}
	req.Page = clamp(page, 1, upper)
	return c.beginLocked(req), nil
}

// Retry re-issues the current request with identical parameters.
func (c *ListingController) Retry() (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.seq == 0 {
		return 0, domain.WrapInvalidRequest("region %q has not been loaded", c.cfg.Name)
	}
	return c.beginLocked(c.req), nil
}

// View returns the current view.
func (c *ListingController) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// Request returns the parameters of the latest request.
func (c *ListingController) Request() Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.req
}

// Wait blocks until the latest request has settled, following newer requests
// started while waiting. It returns ctx.Err() if ctx ends first.
func (c *ListingController) Wait(ctx context.Context) error {
	for {
		c.mu.Lock()
		done, seq := c.done, c.seq
		c.mu.Unlock()

		if done == nil {
			return nil
		}

		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}

		c.mu.Lock()
		latest := c.seq
		c.mu.Unlock()
		if latest == seq {
			return nil
		}
	}
}

// Close cancels outstanding fetches. Their responses are discarded and the
// last view is kept.
func (c *ListingController) Close() {
	c.cancel()
}

func (c *ListingController) begin(req Request) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.beginLocked(req)
}

// beginLocked starts req as the latest request. Callers hold c.mu.
func (c *ListingController) beginLocked(req Request) uint64 {
	c.seq++
	seq := c.seq
	c.req = req
	done := make(chan struct{})
	c.done = done

	c.setView(View{
		Region:      c.cfg.Name,
		State:       StateLoading,
		Seq:         seq,
		Query:       req.Filters.Encode(),
		Page:        req.Page,
		Placeholder: &Message{Text: fmt.Sprintf("Loading %s...", c.cfg.Noun)},
	})

	c.log.Debug().
		Uint64("seq", seq).
		Str("query", req.Filters.Encode()).
		Int("page", req.Page).
		Msg("Loading region")

	go c.fetch(seq, req, done)
	return seq
}

func (c *ListingController) fetch(seq uint64, req Request, done chan struct{}) {
	defer close(done)

	ctx, cancel := context.WithTimeout(c.base, c.timeout)
	defer cancel()

	start := time.Now()
	result, err := c.safeFetch(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.base.Err() != nil {
		return
	}
	if seq != c.seq {
		c.log.Debug().
			Uint64("seq", seq).
			Uint64("latest", c.seq).
			Msg("Discarding stale response")
		return
	}

	base := View{
		Region: c.cfg.Name,
		Seq:    seq,
		Query:  req.Filters.Encode(),
		Page:   req.Page,
	}

	if err != nil {
		c.log.Warn().
			Err(err).
			Uint64("seq", seq).
			Dur("latency", time.Since(start)).
			Msg("Region failed to load")

		msg := fmt.Sprintf("Failed to load %s. Please try again later.", c.cfg.Noun)
		base.State = StateFailed
		base.Error = &ErrorPanel{
			Message: msg,
			Retry:   RetryAction{Label: "Retry", Query: base.Query, Page: req.Page},
		}
		c.setView(base)
		if c.notifier != nil {
			c.notifier.Notify(msg, domain.NotifyError)
		}
		return
	}

	page := result.Page
	c.known, c.knownQuery = &page, base.Query
	base.State = StateReady
	base.Result = &page
	if result.IsEmpty() {
		base.Empty = &Message{Text: fmt.Sprintf("No %s match your filters.", c.cfg.Noun)}
	} else {
		base.Items = RenderAll(result.Items, c.cfg.Card)
	}
	if c.cfg.Paginated {
		p := BuildPagination(page)
		base.Pagination = &p
	}

	c.log.Debug().
		Uint64("seq", seq).
		Int("items", len(result.Items)).
		Dur("latency", time.Since(start)).
		Msg("Region ready")

	c.setView(base)
}

// safeFetch calls the data source and converts every failure mode (error,
// panic, missing result, expired deadline) into a FetchError.
func (c *ListingController) safeFetch(ctx context.Context, req Request) (result *domain.ListingResult, err error) {
	name := c.source.Name()

	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = domain.NewFetchError(name, fmt.Errorf("source panic: %v", r))
		}
	}()

	result, err = c.source.FetchPage(ctx, req.Filters, req.Page, c.cfg.Fetch)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
			return nil, domain.NewFetchTimeoutError(name)
		}
		if domain.IsFetchError(err) {
			return nil, err
		}
		return nil, domain.NewFetchError(name, err)
	}
	if result == nil {
		return nil, domain.NewFetchError(name, errors.New("source returned no result"))
	}

	// Never trust the source's page arithmetic.
	if result.Page.Validate() != nil {
		fixed := domain.NewPage(result.Page.Current, result.Page.TotalPages, result.Page.TotalItems)
		result = domain.NewListingResult(result.Items, fixed)
	}
	return result, nil
}

// setView replaces the view and mounts it. Callers hold c.mu.
func (c *ListingController) setView(v View) {
	c.view = v
	if c.mounter != nil {
		c.mounter.Mount(v)
	}
}
