package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPage(t *testing.T) {
	tests := []struct {
		name                       string
		current, pages, items      int
		wantCurrent, wantPages     int
	}{
		{name: "in range", current: 2, pages: 3, items: 18, wantCurrent: 2, wantPages: 3},
		{name: "current above total clamps", current: 9, pages: 3, items: 18, wantCurrent: 3, wantPages: 3},
		{name: "current below one clamps", current: 0, pages: 3, items: 18, wantCurrent: 1, wantPages: 3},
		{name: "no pages keeps current at one", current: 4, pages: 0, items: 0, wantCurrent: 1, wantPages: 0},
		{name: "negative totals", current: 1, pages: -2, items: -7, wantCurrent: 1, wantPages: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPage(tt.current, tt.pages, tt.items)
			assert.Equal(t, tt.wantCurrent, p.Current)
			assert.Equal(t, tt.wantPages, p.TotalPages)
			assert.GreaterOrEqual(t, p.TotalItems, 0)
			assert.NoError(t, p.Validate())
		})
	}
}

func TestPageFor(t *testing.T) {
	assert.Equal(t, Page{Current: 1, TotalPages: 3, TotalItems: 18}, PageFor(1, 6, 18))
	assert.Equal(t, Page{Current: 3, TotalPages: 3, TotalItems: 13}, PageFor(3, 6, 13))
	assert.Equal(t, Page{Current: 1, TotalPages: 0, TotalItems: 0}, PageFor(2, 6, 0))
}

func TestPage_Validate(t *testing.T) {
	assert.Error(t, Page{Current: 0, TotalPages: 1}.Validate())
	assert.Error(t, Page{Current: 4, TotalPages: 3}.Validate())
	assert.NoError(t, Page{Current: 1, TotalPages: 0}.Validate())
}

func TestParseFetchVariant(t *testing.T) {
	tests := []struct {
		in       string
		fallback FetchVariant
		want     FetchVariant
		wantErr  bool
	}{
		{in: "featured", fallback: VariantAll, want: VariantFeatured},
		{in: "trending", fallback: VariantAll, want: VariantTrending},
		{in: "", fallback: VariantAll, want: VariantAll},
		{in: "", fallback: VariantTop, want: VariantTop},
		{in: "everything", fallback: VariantAll, wantErr: true},
		{in: "ALL", fallback: VariantAll, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in+"/"+string(tt.fallback), func(t *testing.T) {
			got, err := ParseFetchVariant(tt.in, tt.fallback)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownVariant)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewListingResult(t *testing.T) {
	r := NewListingResult(nil, NewPage(1, 1, 0))
	assert.NotNil(t, r.Items)
	assert.True(t, r.IsEmpty())

	var nilResult *ListingResult
	assert.True(t, nilResult.IsEmpty())
}

func TestFetchError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewRetryableFetchError("remote", cause)

	assert.True(t, errors.Is(err, ErrFetch))
	assert.True(t, errors.Is(err, cause))
	assert.True(t, IsFetchError(err))
	assert.True(t, IsRetryable(err))
	assert.Contains(t, err.Error(), "remote")

	timeout := NewFetchTimeoutError("fixture")
	assert.True(t, errors.Is(timeout, ErrFetchTimeout))
	assert.True(t, errors.Is(timeout, ErrFetch))

	plain := NewFetchError("fixture", cause)
	assert.False(t, IsRetryable(plain))
	assert.False(t, IsFetchError(cause))
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("priceRange", "unrecognized value")
	err.Add("sortBy", "unrecognized value")

	assert.True(t, err.HasErrors())
	assert.Equal(t, "priceRange: unrecognized value; sortBy: unrecognized value", err.Error())
	assert.Equal(t, map[string]string{
		"priceRange": "unrecognized value",
		"sortBy":     "unrecognized value",
	}, err.ToMap())

	assert.Equal(t, "validation failed", (&ValidationError{}).Error())
}

func TestWrapInvalidRequest(t *testing.T) {
	err := WrapInvalidRequest("page must be at least %d", 1)
	assert.True(t, IsInvalidRequest(err))
	assert.Contains(t, err.Error(), "page must be at least 1")
}
