package domain

import (
	"context"
	"fmt"
)

//go:generate mockgen -source=listing.go -destination=mock_listing.go -package=domain

// FetchVariant selects which slice of a listing a source returns.
type FetchVariant string

// Fetch variants. Deals pages use featured and all; destinations pages use
// top, trending and seasonal.
const (
	VariantFeatured FetchVariant = "featured"
	VariantAll      FetchVariant = "all"
	VariantTop      FetchVariant = "top"
	VariantTrending FetchVariant = "trending"
	VariantSeasonal FetchVariant = "seasonal"
)

// IsValid checks if the variant is a known value.
func (v FetchVariant) IsValid() bool {
	switch v {
	case VariantFeatured, VariantAll, VariantTop, VariantTrending, VariantSeasonal:
		return true
	default:
		return false
	}
}

// ParseFetchVariant converts a string to a FetchVariant. An empty string
// yields fallback; an unknown one is an ErrUnknownVariant.
func ParseFetchVariant(s string, fallback FetchVariant) (FetchVariant, error) {
	if s == "" {
		return fallback, nil
	}
	v := FetchVariant(s)
	if !v.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownVariant, s)
	}
	return v, nil
}

// Page describes where a listing result sits in the full result set.
type Page struct {
	// Current is the 1-based page number
	Current int `json:"currentPage"`

	// TotalPages is the number of pages available (0 when there are no items)
	TotalPages int `json:"totalPages"`

	// TotalItems is the number of items across all pages
	TotalItems int `json:"totalItems"`
}

// NewPage builds a Page that satisfies Current <= max(TotalPages, 1).
// Negative totals are treated as zero and Current is clamped into range.
func NewPage(current, totalPages, totalItems int) Page {
	if totalPages < 0 {
		totalPages = 0
	}
	if totalItems < 0 {
		totalItems = 0
	}
	upper := totalPages
	if upper < 1 {
		upper = 1
	}
	if current < 1 {
		current = 1
	}
	if current > upper {
		current = upper
	}
	return Page{Current: current, TotalPages: totalPages, TotalItems: totalItems}
}

// PageFor computes the Page for a 1-based page number over totalItems items.
func PageFor(current, perPage, totalItems int) Page {
	if perPage < 1 {
		perPage = 1
	}
	totalPages := (totalItems + perPage - 1) / perPage
	return NewPage(current, totalPages, totalItems)
}

// Validate checks the Page invariants.
func (p Page) Validate() error {
	upper := p.TotalPages
	if upper < 1 {
		upper = 1
	}
	if p.Current < 1 || p.Current > upper || p.TotalPages < 0 || p.TotalItems < 0 {
		return fmt.Errorf("%w: page %d of %d (%d items)", ErrInvalidRequest, p.Current, p.TotalPages, p.TotalItems)
	}
	return nil
}

// ListingResult is one fetched page of items. It is built fresh on every
// fetch and never mutated afterwards.
type ListingResult struct {
	Items []Item `json:"items"`
	Page  Page   `json:"pagination"`
}

// NewListingResult creates a ListingResult, normalizing a nil item slice.
func NewListingResult(items []Item, page Page) *ListingResult {
	if items == nil {
		items = []Item{}
	}
	return &ListingResult{Items: items, Page: page}
}

// IsEmpty reports whether the result has no items.
func (r *ListingResult) IsEmpty() bool {
	return r == nil || len(r.Items) == 0
}

// DataSource supplies pages of items. It is the seam where a real backend
// replaces the fixture catalog. Implementations must honor ctx cancellation.
type DataSource interface {
	// Name returns the source's identifier for logs and errors.
	Name() string

	// FetchPage returns one page of items for the given filters and variant.
	FetchPage(ctx context.Context, filters FilterSet, page int, variant FetchVariant) (*ListingResult, error)
}

// NotifyLevel is the severity of a transient user-facing message.
type NotifyLevel string

// Notify levels.
const (
	NotifyInfo    NotifyLevel = "info"
	NotifySuccess NotifyLevel = "success"
	NotifyWarning NotifyLevel = "warning"
	NotifyError   NotifyLevel = "danger"
)

// Notifier displays a transient message. There is no contract beyond that.
type Notifier interface {
	Notify(message string, level NotifyLevel)
}
