package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderlust/travel-listing-service/internal/adapter/http/response"
	"github.com/wanderlust/travel-listing-service/internal/domain"
	"github.com/wanderlust/travel-listing-service/internal/usecase"
)

// mockListingService is a mock implementation of usecase.ListingService.
type mockListingService struct {
	fetchFunc func(ctx context.Context, kind, query string, page int, variant string) (*domain.ListingResult, error)
}

func (m *mockListingService) Fetch(ctx context.Context, kind, query string, page int, variant string) (*domain.ListingResult, error) {
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, kind, query, page, variant)
	}
	return domain.NewListingResult(nil, domain.NewPage(1, 0, 0)), nil
}

// mockPageService is a mock implementation of usecase.PageService. Unset
// functions return a snapshot of a deals page with the given ID.
type mockPageService struct {
	openFunc    func(ctx context.Context, kind, query string) (*usecase.PageView, error)
	getFunc     func(ctx context.Context, id string, wait bool) (*usecase.PageView, error)
	applyFunc   func(ctx context.Context, id string, change usecase.FilterChange) (*usecase.PageView, error)
	setPageFunc func(ctx context.Context, id, region string, page int) (*usecase.PageView, error)
	retryFunc   func(ctx context.Context, id, region string) (*usecase.PageView, error)
	backFunc    func(ctx context.Context, id string) (*usecase.PageView, error)
	forwardFunc func(ctx context.Context, id string) (*usecase.PageView, error)
	popFunc     func(ctx context.Context, id, query string) (*usecase.PageView, error)
	closeFunc   func(ctx context.Context, id string) error
}

func stubView(id string) *usecase.PageView {
	return &usecase.PageView{ID: id, Kind: usecase.PageDeals, Filters: map[string]string{}}
}

func (m *mockPageService) Open(ctx context.Context, kind, query string) (*usecase.PageView, error) {
	if m.openFunc != nil {
		return m.openFunc(ctx, kind, query)
	}
	return stubView("page-1"), nil
}

func (m *mockPageService) Get(ctx context.Context, id string, wait bool) (*usecase.PageView, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id, wait)
	}
	return stubView(id), nil
}

func (m *mockPageService) ApplyFilters(ctx context.Context, id string, change usecase.FilterChange) (*usecase.PageView, error) {
	if m.applyFunc != nil {
		return m.applyFunc(ctx, id, change)
	}
	return stubView(id), nil
}

func (m *mockPageService) SetPage(ctx context.Context, id, region string, page int) (*usecase.PageView, error) {
	if m.setPageFunc != nil {
		return m.setPageFunc(ctx, id, region, page)
	}
	return stubView(id), nil
}

func (m *mockPageService) Retry(ctx context.Context, id, region string) (*usecase.PageView, error) {
	if m.retryFunc != nil {
		return m.retryFunc(ctx, id, region)
	}
	return stubView(id), nil
}

func (m *mockPageService) Back(ctx context.Context, id string) (*usecase.PageView, error) {
	if m.backFunc != nil {
		return m.backFunc(ctx, id)
	}
	return stubView(id), nil
}

func (m *mockPageService) Forward(ctx context.Context, id string) (*usecase.PageView, error) {
	if m.forwardFunc != nil {
		return m.forwardFunc(ctx, id)
	}
	return stubView(id), nil
}

func (m *mockPageService) Pop(ctx context.Context, id, query string) (*usecase.PageView, error) {
	if m.popFunc != nil {
		return m.popFunc(ctx, id, query)
	}
	return stubView(id), nil
}

func (m *mockPageService) Close(ctx context.Context, id string) error {
	if m.closeFunc != nil {
		return m.closeFunc(ctx, id)
	}
	return nil
}

// setupTestServer creates a test Echo instance with every route registered.
func setupTestServer(ls usecase.ListingService, ps usecase.PageService) *echo.Echo {
	e := echo.New()
	RegisterRoutes(e, NewListingHandler(ls, "fixture_deals"), NewPageHandler(ps))
	return e
}

// makeRequest is a helper to make test requests.
func makeRequest(e *echo.Echo, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reqBody []byte
	switch b := body.(type) {
	case nil:
	case string:
		reqBody = []byte(b)
	default:
		reqBody, _ = json.Marshal(b)
	}

	req := httptest.NewRequest(method, path, bytes.NewBuffer(reqBody))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) response.ErrorDetail {
	t.Helper()
	var detail response.ErrorDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	return detail
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) usecase.PageView {
	t.Helper()
	var view usecase.PageView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	return view
}

// =====================================================
// Listing Handler Tests
// =====================================================

func TestGetListing_Success(t *testing.T) {
	price, err := domain.NewPrice(1000, 10)
	require.NoError(t, err)

	var gotKind, gotQuery, gotVariant string
	var gotPage int
	ls := &mockListingService{
		fetchFunc: func(ctx context.Context, kind, query string, page int, variant string) (*domain.ListingResult, error) {
			gotKind, gotQuery, gotPage, gotVariant = kind, query, page, variant
			return domain.NewListingResult([]domain.Item{{
				ID: "deal-01", Kind: domain.KindDeal, Title: "Paris Luxury hotel", Price: &price,
			}}, domain.PageFor(2, 6, 18)), nil
		},
	}
	e := setupTestServer(ls, &mockPageService{})

	rec := makeRequest(e, http.MethodGet, "/api/v1/listings/deals?dealType=hotel&page=2&variant=all&sortBy=price_asc", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "deals", gotKind)
	assert.Equal(t, "dealType=hotel&sortBy=price_asc", gotQuery)
	assert.Equal(t, 2, gotPage)
	assert.Equal(t, "all", gotVariant)

	var result domain.ListingResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, domain.Page{Current: 2, TotalPages: 3, TotalItems: 18}, result.Page)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "deal-01", result.Items[0].ID)
}

func TestGetListing_Validation(t *testing.T) {
	called := false
	ls := &mockListingService{
		fetchFunc: func(ctx context.Context, kind, query string, page int, variant string) (*domain.ListingResult, error) {
			called = true
			return nil, nil
		},
	}
	e := setupTestServer(ls, &mockPageService{})

	tests := []struct {
		name      string
		path      string
		wantField string
	}{
		{name: "page below one", path: "/api/v1/listings/deals?page=0", wantField: ""},
		{name: "negative page", path: "/api/v1/listings/deals?page=-2", wantField: "page"},
		{name: "unknown variant", path: "/api/v1/listings/deals?variant=cheapest", wantField: "variant"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called = false
			rec := makeRequest(e, http.MethodGet, tt.path, nil)
			if tt.wantField == "" {
				// page=0 is the zero value and counts as absent
				assert.Equal(t, http.StatusOK, rec.Code)
				assert.True(t, called)
				return
			}
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, called)
			detail := decodeError(t, rec)
			assert.Equal(t, response.CodeValidationError, detail.Code)
			assert.Contains(t, detail.Details, tt.wantField)
		})
	}
}

func TestGetListing_UnparseablePage(t *testing.T) {
	e := setupTestServer(&mockListingService{}, &mockPageService{})

	rec := makeRequest(e, http.MethodGet, "/api/v1/listings/deals?page=two", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, response.CodeInvalidRequest, decodeError(t, rec).Code)
}

func TestGetListing_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "unknown kind",
			err:        domain.ErrUnknownKind,
			wantStatus: http.StatusBadRequest,
			wantCode:   response.CodeInvalidRequest,
		},
		{
			name:       "unknown variant",
			err:        domain.ErrUnknownVariant,
			wantStatus: http.StatusBadRequest,
			wantCode:   response.CodeInvalidRequest,
		},
		{
			name:       "fetch timeout",
			err:        domain.NewFetchTimeoutError("fixture_deals"),
			wantStatus: http.StatusGatewayTimeout,
			wantCode:   response.CodeTimeout,
		},
		{
			name:       "context deadline",
			err:        context.DeadlineExceeded,
			wantStatus: http.StatusGatewayTimeout,
			wantCode:   response.CodeTimeout,
		},
		{
			name:       "context cancelled",
			err:        context.Canceled,
			wantStatus: http.StatusGatewayTimeout,
			wantCode:   response.CodeTimeout,
		},
		{
			name:       "source unavailable",
			err:        domain.NewSourceUnavailableError("fixture_deals"),
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   response.CodeServiceUnavailable,
		},
		{
			name:       "generic fetch error",
			err:        domain.NewFetchError("remote_deals", errors.New("bad payload")),
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   response.CodeServiceUnavailable,
		},
		{
			name:       "unexpected error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   response.CodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ls := &mockListingService{
				fetchFunc: func(ctx context.Context, kind, query string, page int, variant string) (*domain.ListingResult, error) {
					return nil, tt.err
				},
			}
			e := setupTestServer(ls, &mockPageService{})

			rec := makeRequest(e, http.MethodGet, "/api/v1/listings/deals", nil)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode, decodeError(t, rec).Code)
		})
	}
}

func TestHealth(t *testing.T) {
	e := setupTestServer(&mockListingService{}, &mockPageService{})

	rec := makeRequest(e, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	var result response.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "ok", result.Status)
	assert.Equal(t, []string{"fixture_deals"}, result.Sources)
}

// =====================================================
// Page Handler Tests
// =====================================================

func TestOpenPage_Success(t *testing.T) {
	ps := &mockPageService{
		openFunc: func(ctx context.Context, kind, query string) (*usecase.PageView, error) {
			assert.Equal(t, "destinations", kind)
			assert.Equal(t, "region=asia", query)
			view := stubView("abc123")
			view.Kind = usecase.PageDestinations
			view.Location = query
			return view, nil
		},
	}
	e := setupTestServer(&mockListingService{}, ps)

	rec := makeRequest(e, http.MethodPost, "/api/v1/pages", OpenPageRequest{Kind: "destinations", Query: "region=asia"})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/api/v1/pages/abc123", rec.Header().Get(echo.HeaderLocation))
	view := decodeView(t, rec)
	assert.Equal(t, "abc123", view.ID)
	assert.Equal(t, usecase.PageDestinations, view.Kind)
	assert.Equal(t, "region=asia", view.Location)
}

func TestOpenPage_Validation(t *testing.T) {
	tests := []struct {
		name      string
		body      interface{}
		wantCode  string
		wantField string
	}{
		{name: "missing kind", body: map[string]string{"query": "dealType=hotel"}, wantCode: response.CodeValidationError, wantField: "kind"},
		{name: "unknown kind", body: map[string]string{"kind": "cruises"}, wantCode: response.CodeValidationError, wantField: "kind"},
		{name: "malformed body", body: `{"kind": `, wantCode: response.CodeInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps := &mockPageService{
				openFunc: func(ctx context.Context, kind, query string) (*usecase.PageView, error) {
					t.Fatal("service must not be called")
					return nil, nil
				},
			}
			e := setupTestServer(&mockListingService{}, ps)

			rec := makeRequest(e, http.MethodPost, "/api/v1/pages", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			detail := decodeError(t, rec)
			assert.Equal(t, tt.wantCode, detail.Code)
			if tt.wantField != "" {
				assert.Contains(t, detail.Details, tt.wantField)
			}
		})
	}
}

func TestGetPage(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		wantWait bool
	}{
		{name: "snapshot", path: "/api/v1/pages/p1", wantWait: false},
		{name: "wait for regions", path: "/api/v1/pages/p1?wait=true", wantWait: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps := &mockPageService{
				getFunc: func(ctx context.Context, id string, wait bool) (*usecase.PageView, error) {
					assert.Equal(t, "p1", id)
					assert.Equal(t, tt.wantWait, wait)
					return stubView(id), nil
				},
			}
			e := setupTestServer(&mockListingService{}, ps)

			rec := makeRequest(e, http.MethodGet, tt.path, nil)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "p1", decodeView(t, rec).ID)
		})
	}
}

func TestGetPage_BadWait(t *testing.T) {
	e := setupTestServer(&mockListingService{}, &mockPageService{})

	rec := makeRequest(e, http.MethodGet, "/api/v1/pages/p1?wait=maybe", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPageRoutes_SessionNotFound(t *testing.T) {
	notFound := func() error { return domain.ErrSessionNotFound }
	ps := &mockPageService{
		getFunc: func(context.Context, string, bool) (*usecase.PageView, error) { return nil, notFound() },
		applyFunc: func(context.Context, string, usecase.FilterChange) (*usecase.PageView, error) {
			return nil, notFound()
		},
		setPageFunc: func(context.Context, string, string, int) (*usecase.PageView, error) { return nil, notFound() },
		retryFunc:   func(context.Context, string, string) (*usecase.PageView, error) { return nil, notFound() },
		backFunc:    func(context.Context, string) (*usecase.PageView, error) { return nil, notFound() },
		forwardFunc: func(context.Context, string) (*usecase.PageView, error) { return nil, notFound() },
		popFunc:     func(context.Context, string, string) (*usecase.PageView, error) { return nil, notFound() },
		closeFunc:   func(context.Context, string) error { return notFound() },
	}
	e := setupTestServer(&mockListingService{}, ps)

	tests := []struct {
		method string
		path   string
		body   interface{}
	}{
		{method: http.MethodGet, path: "/api/v1/pages/gone"},
		{method: http.MethodPut, path: "/api/v1/pages/gone/filters", body: ApplyFiltersRequest{Query: "dealType=hotel"}},
		{method: http.MethodPut, path: "/api/v1/pages/gone/regions/all/page", body: SetPageRequest{Page: 2}},
		{method: http.MethodPost, path: "/api/v1/pages/gone/regions/all/retry"},
		{method: http.MethodPost, path: "/api/v1/pages/gone/history/back"},
		{method: http.MethodPost, path: "/api/v1/pages/gone/history/forward"},
		{method: http.MethodPost, path: "/api/v1/pages/gone/history/pop", body: PopRequest{Query: ""}},
		{method: http.MethodDelete, path: "/api/v1/pages/gone"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := makeRequest(e, tt.method, tt.path, tt.body)

			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.Equal(t, response.CodeNotFound, decodeError(t, rec).Code)
		})
	}
}

func TestApplyFilters(t *testing.T) {
	tests := []struct {
		name       string
		body       ApplyFiltersRequest
		wantChange usecase.FilterChange
	}{
		{
			name:       "whole query",
			body:       ApplyFiltersRequest{Query: "destination=paris&priceRange=1000-2000"},
			wantChange: usecase.FilterChange{Query: "destination=paris&priceRange=1000-2000"},
		},
		{
			name:       "changed params",
			body:       ApplyFiltersRequest{Params: map[string]string{"sortBy": "price_desc"}},
			wantChange: usecase.FilterChange{Params: map[string]string{"sortBy": "price_desc"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps := &mockPageService{
				applyFunc: func(ctx context.Context, id string, change usecase.FilterChange) (*usecase.PageView, error) {
					assert.Equal(t, "p1", id)
					assert.Equal(t, tt.wantChange, change)
					return stubView(id), nil
				},
			}
			e := setupTestServer(&mockListingService{}, ps)

			rec := makeRequest(e, http.MethodPut, "/api/v1/pages/p1/filters", tt.body)

			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}

func TestApplyFilters_ParamsWireFormat(t *testing.T) {
	var got usecase.FilterChange
	ps := &mockPageService{
		applyFunc: func(ctx context.Context, id string, change usecase.FilterChange) (*usecase.PageView, error) {
			got = change
			return stubView(id), nil
		},
	}
	e := setupTestServer(&mockListingService{}, ps)

	rec := makeRequest(e, http.MethodPut, "/api/v1/pages/p1/filters", `{"params": {"sortBy": "price_asc", "priceRange": "bogus"}}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, got.Query)
	assert.Equal(t, map[string]string{"sortBy": "price_asc", "priceRange": "bogus"}, got.Params)
}

func TestApplyFilters_EmptyParamKey(t *testing.T) {
	e := setupTestServer(&mockListingService{}, &mockPageService{})

	rec := makeRequest(e, http.MethodPut, "/api/v1/pages/p1/filters", `{"params": {"": "hotel"}}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, response.CodeValidationError, decodeError(t, rec).Code)
}

func TestSetRegionPage(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ps := &mockPageService{
			setPageFunc: func(ctx context.Context, id, region string, page int) (*usecase.PageView, error) {
				assert.Equal(t, "p1", id)
				assert.Equal(t, "all", region)
				assert.Equal(t, 3, page)
				return stubView(id), nil
			},
		}
		e := setupTestServer(&mockListingService{}, ps)

		rec := makeRequest(e, http.MethodPut, "/api/v1/pages/p1/regions/all/page", SetPageRequest{Page: 3})
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("page must be positive", func(t *testing.T) {
		e := setupTestServer(&mockListingService{}, &mockPageService{})

		rec := makeRequest(e, http.MethodPut, "/api/v1/pages/p1/regions/all/page", SetPageRequest{Page: 0})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeError(t, rec).Details, "page")
	})

	t.Run("unpaginated region", func(t *testing.T) {
		ps := &mockPageService{
			setPageFunc: func(ctx context.Context, id, region string, page int) (*usecase.PageView, error) {
				return nil, domain.WrapInvalidRequest("region %q is not paginated", region)
			},
		}
		e := setupTestServer(&mockListingService{}, ps)

		rec := makeRequest(e, http.MethodPut, "/api/v1/pages/p1/regions/featured/page", SetPageRequest{Page: 2})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeError(t, rec).Message, "not paginated")
	})
}

func TestRetryRegion_UnknownRegion(t *testing.T) {
	ps := &mockPageService{
		retryFunc: func(ctx context.Context, id, region string) (*usecase.PageView, error) {
			assert.Equal(t, "sidebar", region)
			return nil, domain.ErrUnknownRegion
		},
	}
	e := setupTestServer(&mockListingService{}, ps)

	rec := makeRequest(e, http.MethodPost, "/api/v1/pages/p1/regions/sidebar/retry", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHistory(t *testing.T) {
	var calls []string
	ps := &mockPageService{
		backFunc: func(ctx context.Context, id string) (*usecase.PageView, error) {
			calls = append(calls, "back")
			return stubView(id), nil
		},
		forwardFunc: func(ctx context.Context, id string) (*usecase.PageView, error) {
			calls = append(calls, "forward")
			return nil, domain.ErrNoHistory
		},
		popFunc: func(ctx context.Context, id, query string) (*usecase.PageView, error) {
			calls = append(calls, "pop:"+query)
			return stubView(id), nil
		},
	}
	e := setupTestServer(&mockListingService{}, ps)

	rec := makeRequest(e, http.MethodPost, "/api/v1/pages/p1/history/back", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = makeRequest(e, http.MethodPost, "/api/v1/pages/p1/history/forward", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, response.CodeConflict, decodeError(t, rec).Code)

	rec = makeRequest(e, http.MethodPost, "/api/v1/pages/p1/history/pop", PopRequest{Query: "destination=bali"})
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, []string{"back", "forward", "pop:destination=bali"}, calls)
}

func TestClosePage(t *testing.T) {
	closed := ""
	ps := &mockPageService{
		closeFunc: func(ctx context.Context, id string) error {
			closed = id
			return nil
		},
	}
	e := setupTestServer(&mockListingService{}, ps)

	rec := makeRequest(e, http.MethodDelete, "/api/v1/pages/p9", nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "p9", closed)
}

func TestPageRoutes_RegionFailureIsNotAnHTTPError(t *testing.T) {
	ps := &mockPageService{
		retryFunc: func(ctx context.Context, id, region string) (*usecase.PageView, error) {
			view := stubView(id)
			view.Regions = []usecase.View{{
				Region: region,
				State:  usecase.StateFailed,
				Error: &usecase.ErrorPanel{
					Message: "Failed to load deals. Please try again.",
					Retry:   usecase.RetryAction{Label: "Retry", Page: 1},
				},
			}}
			return view, nil
		},
	}
	e := setupTestServer(&mockListingService{}, ps)

	rec := makeRequest(e, http.MethodPost, "/api/v1/pages/p1/regions/all/retry", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	view := decodeView(t, rec)
	require.Len(t, view.Regions, 1)
	assert.Equal(t, usecase.StateFailed, view.Regions[0].State)
	require.NotNil(t, view.Regions[0].Error)
	assert.Equal(t, "Retry", view.Regions[0].Error.Retry.Label)
}
