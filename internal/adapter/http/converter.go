package http

import (
	"maps"
	"net/url"
	"slices"

	"github.com/wanderlust/travel-listing-service/internal/usecase"
)

// reservedParams are listing query parameters that are not filters.
var reservedParams = []string{"page", "variant"}

// FilterQuery returns the filter part of a listing request query.
func FilterQuery(values url.Values) string {
	filters := make(url.Values, len(values))
	for key, vals := range values {
		if slices.Contains(reservedParams, key) {
			continue
		}
		filters[key] = vals
	}
	return filters.Encode()
}

// ToFilterChange converts a filter form submission to a usecase.FilterChange.
func ToFilterChange(req *ApplyFiltersRequest) usecase.FilterChange {
	change := usecase.FilterChange{Query: req.Query}
	if req.Params != nil {
		change.Params = maps.Clone(req.Params)
	}
	return change
}

// PageLocation returns the resource path of a page session.
func PageLocation(id string) string {
	return "/api/v1/pages/" + url.PathEscape(id)
}
