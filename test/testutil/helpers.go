// Package testutil provides test helper functions for unit and integration tests.
package testutil

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/wanderlust/travel-listing-service/internal/domain"
	"github.com/wanderlust/travel-listing-service/internal/usecase"
)

// DecodeJSON unmarshals body into a T.
// It fails the test if decoding fails.
func DecodeJSON[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		t.Fatalf("Failed to decode %s: %v", string(body), err)
	}
	return v
}

// MustParseQuery parses a URL query string.
// It fails the test if parsing fails.
func MustParseQuery(t *testing.T, query string) url.Values {
	t.Helper()
	values, err := url.ParseQuery(query)
	if err != nil {
		t.Fatalf("Failed to parse query %q: %v", query, err)
	}
	return values
}

// MustPrice builds a consistent price.
// It fails the test if the inputs are out of range.
func MustPrice(t *testing.T, original, discount float64) domain.Price {
	t.Helper()
	price, err := domain.NewPrice(original, discount)
	if err != nil {
		t.Fatalf("Failed to build price %v/%v%%: %v", original, discount, err)
	}
	return price
}

// Region returns the view of a named region.
// It fails the test if the page has no such region.
func Region(t *testing.T, view usecase.PageView, name string) usecase.View {
	t.Helper()
	for _, r := range view.Regions {
		if r.Region == name {
			return r
		}
	}
	t.Fatalf("Region %q not in page %s", name, view.ID)
	return usecase.View{}
}

// FragmentIDs returns the ids of the rendered items of a region.
func FragmentIDs(view usecase.View) []string {
	ids := make([]string, len(view.Items))
	for i, f := range view.Items {
		ids[i] = f.ID
	}
	return ids
}

// ItemIDs returns the ids of items, in order.
func ItemIDs(items []domain.Item) []string {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}

// Ptr returns a pointer to the given value.
// Useful for creating pointers to literals in tests.
func Ptr[T any](v T) *T {
	return &v
}
