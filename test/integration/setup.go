// Package integration provides helpers and integration tests for the listing service.
// Integration tests verify that components work together correctly, including
// HTTP handlers, middleware, page sessions and data sources.
package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	httpAdapter "github.com/wanderlust/travel-listing-service/internal/adapter/http"
	"github.com/wanderlust/travel-listing-service/internal/adapter/http/middleware"
	"github.com/wanderlust/travel-listing-service/internal/adapter/http/response"
	"github.com/wanderlust/travel-listing-service/internal/domain"
	"github.com/wanderlust/travel-listing-service/internal/infrastructure/timeutil"
	"github.com/wanderlust/travel-listing-service/internal/usecase"
	"github.com/wanderlust/travel-listing-service/test/mock"
)

// TestServer wraps an Echo instance and provides helper methods for integration testing.
type TestServer struct {
	Echo  *echo.Echo
	Pages usecase.PageService
	Store *usecase.SessionStore
}

// NewTestServer creates a test server over the given sources with the full
// middleware chain.
func NewTestServer(sources usecase.Sources, cfg *usecase.Config) *TestServer {
	return NewTestServerWithNotifier(sources, cfg, nil)
}

// NewTestServerWithNotifier is NewTestServer with a notifier for failed regions.
func NewTestServerWithNotifier(sources usecase.Sources, cfg *usecase.Config, notifier domain.Notifier) *TestServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	log := zerolog.Nop()
	middleware.Setup(e, log)

	store := usecase.NewSessionStore(timeutil.NewRealClock(), time.Minute, log)
	pages := usecase.NewPageService(sources, store, notifier, log, cfg)
	listings := usecase.NewListingService(sources, cfg)

	httpAdapter.RegisterRoutes(e,
		httpAdapter.NewListingHandler(listings, "deals", "destinations"),
		httpAdapter.NewPageHandler(pages),
	)

	return &TestServer{
		Echo:  e,
		Pages: pages,
		Store: store,
	}
}

// Request represents a test HTTP request configuration.
type Request struct {
	Method string
	Path   string
	Body   interface{}
}

// Response represents a test HTTP response.
type Response struct {
	Code    int
	Body    []byte
	Headers http.Header
}

// Do executes a test request and returns the response.
func (ts *TestServer) Do(req Request) Response {
	var bodyReader *bytes.Reader
	if req.Body != nil {
		bodyBytes, _ := json.Marshal(req.Body)
		bodyReader = bytes.NewReader(bodyBytes)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	httpReq := httptest.NewRequest(req.Method, req.Path, bodyReader)
	if req.Body != nil {
		httpReq.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	rec := httptest.NewRecorder()
	ts.Echo.ServeHTTP(rec, httpReq)

	return Response{
		Code:    rec.Code,
		Body:    rec.Body.Bytes(),
		Headers: rec.Header(),
	}
}

// OpenPage opens a page session.
func (ts *TestServer) OpenPage(kind, query string) Response {
	return ts.Do(Request{
		Method: http.MethodPost,
		Path:   "/api/v1/pages",
		Body:   map[string]string{"kind": kind, "query": query},
	})
}

// GetPage fetches a page snapshot, waiting for loading regions.
func (ts *TestServer) GetPage(id string) Response {
	return ts.Do(Request{Method: http.MethodGet, Path: "/api/v1/pages/" + id + "?wait=true"})
}

// ApplyQuery submits the filter form as a whole query string.
func (ts *TestServer) ApplyQuery(id, query string) Response {
	return ts.Do(Request{
		Method: http.MethodPut,
		Path:   "/api/v1/pages/" + id + "/filters",
		Body:   map[string]string{"query": query},
	})
}

// ApplyParams submits only the changed filter parameters.
func (ts *TestServer) ApplyParams(id string, params map[string]string) Response {
	return ts.Do(Request{
		Method: http.MethodPut,
		Path:   "/api/v1/pages/" + id + "/filters",
		Body:   map[string]interface{}{"params": params},
	})
}

// SetPage activates a pagination control of a region.
func (ts *TestServer) SetPage(id, region string, page int) Response {
	return ts.Do(Request{
		Method: http.MethodPut,
		Path:   "/api/v1/pages/" + id + "/regions/" + region + "/page",
		Body:   map[string]int{"page": page},
	})
}

// Retry re-issues a region's last request.
func (ts *TestServer) Retry(id, region string) Response {
	return ts.Do(Request{Method: http.MethodPost, Path: "/api/v1/pages/" + id + "/regions/" + region + "/retry"})
}

// History navigates back or forward.
func (ts *TestServer) History(id, direction string) Response {
	return ts.Do(Request{Method: http.MethodPost, Path: "/api/v1/pages/" + id + "/history/" + direction})
}

// Pop restores a popped location.
func (ts *TestServer) Pop(id, query string) Response {
	return ts.Do(Request{
		Method: http.MethodPost,
		Path:   "/api/v1/pages/" + id + "/history/pop",
		Body:   map[string]string{"query": query},
	})
}

// ClosePage ends a page session.
func (ts *TestServer) ClosePage(id string) Response {
	return ts.Do(Request{Method: http.MethodDelete, Path: "/api/v1/pages/" + id})
}

// Listing fetches a page straight from the data source endpoint.
func (ts *TestServer) Listing(kind, query string) Response {
	path := "/api/v1/listings/" + kind
	if query != "" {
		path += "?" + query
	}
	return ts.Do(Request{Method: http.MethodGet, Path: path})
}

// HealthRequest makes a health check request.
func (ts *TestServer) HealthRequest() Response {
	return ts.Do(Request{Method: http.MethodGet, Path: "/health"})
}

// ParseView parses the response body as a page view.
func (r *Response) ParseView() (*usecase.PageView, error) {
	var view usecase.PageView
	if err := json.Unmarshal(r.Body, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// ParseListing parses the response body as a listing result.
func (r *Response) ParseListing() (*domain.ListingResult, error) {
	var result domain.ListingResult
	if err := json.Unmarshal(r.Body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ParseError parses the response body as an error detail.
func (r *Response) ParseError() (*response.ErrorDetail, error) {
	var detail response.ErrorDetail
	if err := json.Unmarshal(r.Body, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// DealsSource returns a mock deals source with 3 featured and 20 total deals.
func DealsSource() *mock.Source {
	all := mock.SampleDeals("mock", 20)
	return mock.NewSource("mock_deals").
		WithItems(domain.VariantFeatured, all[:3]).
		WithItems(domain.VariantAll, all)
}

// DestinationsSource returns a mock destinations source.
func DestinationsSource() *mock.Source {
	return mock.NewSource("mock_destinations").
		WithItems(domain.VariantTop, mock.SampleDestinations("top", 5)).
		WithItems(domain.VariantTrending, mock.SampleDestinations("trending", 4)).
		WithItems(domain.VariantSeasonal, mock.SampleDestinations("seasonal", 3))
}

// Sources maps page kinds to the given sources.
func Sources(deals, destinations domain.DataSource) usecase.Sources {
	return usecase.Sources{
		usecase.PageDeals:        deals,
		usecase.PageDestinations: destinations,
	}
}

// FastConfig returns short timeouts so failure paths finish quickly.
func FastConfig() *usecase.Config {
	return &usecase.Config{
		FetchTimeout:  500 * time.Millisecond,
		SettleTimeout: 2 * time.Second,
		SessionTTL:    time.Minute,
	}
}
