package http

import (
	"context"
	"errors"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/wanderlust/travel-listing-service/internal/adapter/http/response"
	"github.com/wanderlust/travel-listing-service/internal/domain"
	"github.com/wanderlust/travel-listing-service/internal/usecase"
)

// ListingHandler serves listing pages straight from the data sources.
type ListingHandler struct {
	listings usecase.ListingService
	sources  []string
}

// NewListingHandler creates a new ListingHandler. sources are the data source
// names reported by the health check.
func NewListingHandler(listings usecase.ListingService, sources ...string) *ListingHandler {
	return &ListingHandler{
		listings: listings,
		sources:  sources,
	}
}

// GetListing handles GET /api/v1/listings/:kind
//
// @Summary Fetch a listing page
// @Description Fetch one page of deals or destinations. Every query parameter except page and variant is a filter.
// @Tags listings
// @Produce json
// @Param kind path string true "Listing kind" Enums(deals, destinations)
// @Param page query int false "1-based page number" minimum(1)
// @Param variant query string false "Fetch variant" Enums(featured, all, top, trending, seasonal)
// @Param dealType query string false "Deal type filter (deals)"
// @Param destination query string false "Destination filter (deals)"
// @Param priceRange query string false "Price range filter (deals)"
// @Param travelMonth query string false "Travel month filter (deals)"
// @Param sortBy query string false "Sort order (deals)"
// @Param region query string false "Region filter (destinations)"
// @Success 200 {object} domain.ListingResult
// @Failure 400 {object} response.ErrorDetail "Validation error"
// @Failure 503 {object} response.ErrorDetail "Data source unavailable"
// @Failure 504 {object} response.ErrorDetail "Data source timeout"
// @Router /api/v1/listings/{kind} [get]
func (h *ListingHandler) GetListing(c echo.Context) error {
	var req ListingRequest
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &req); err != nil {
		return response.BadRequest(c, "Failed to parse query parameters")
	}
	if err := validateRequest(&req); err != nil {
		return handleValidationError(c, err)
	}

	query := FilterQuery(c.QueryParams())
	if len(query) > maxQueryLength {
		return response.ValidationErrorWithMessage(c, "filter query is too long")
	}

	result, err := h.listings.Fetch(c.Request().Context(), c.Param("kind"), query, req.Page, req.Variant)
	if err != nil {
		return handleError(c, err)
	}
	return response.Listing(c, result)
}

// Health handles GET /health
// Simple health check endpoint.
func (h *ListingHandler) Health(c echo.Context) error {
	return response.Health(c, h.sources...)
}

// handleValidationError handles validation errors and returns a 400 response.
func handleValidationError(c echo.Context, err error) error {
	var validationErrs *ValidationErrors
	if errors.As(err, &validationErrs) {
		return response.ValidationError(c, validationErrs.ToMap())
	}

	// Fallback for non-structured validation errors
	return response.ValidationErrorWithMessage(c, err.Error())
}

// handleError maps domain errors to appropriate HTTP responses.
func handleError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return response.SessionNotFound(c)

	case errors.Is(err, domain.ErrNoHistory):
		return response.Conflict(c, err.Error())

	case errors.Is(err, domain.ErrUnknownKind),
		errors.Is(err, domain.ErrUnknownRegion),
		errors.Is(err, domain.ErrUnknownVariant),
		errors.Is(err, domain.ErrInvalidRequest):
		return response.BadRequest(c, err.Error())

	case errors.Is(err, domain.ErrFetchTimeout), errors.Is(err, context.DeadlineExceeded):
		return response.GatewayTimeout(c)

	case errors.Is(err, context.Canceled):
		return response.RequestCancelled(c)

	case errors.Is(err, domain.ErrSourceUnavailable), errors.Is(err, domain.ErrFetch):
		return response.ServiceUnavailable(c)
	}

	zerolog.Ctx(c.Request().Context()).Error().Err(err).Msg("Unhandled error")
	return response.InternalServerError(c)
}
