package http

import (
	"github.com/labstack/echo/v4"

	"github.com/wanderlust/travel-listing-service/internal/adapter/http/response"
	"github.com/wanderlust/travel-listing-service/internal/usecase"
)

// PageHandler handles HTTP requests for page sessions.
type PageHandler struct {
	pages usecase.PageService
}

// NewPageHandler creates a new PageHandler with the given service.
func NewPageHandler(pages usecase.PageService) *PageHandler {
	return &PageHandler{
		pages: pages,
	}
}

// OpenPage handles POST /api/v1/pages
//
// @Summary Open a page session
// @Description Open a deals or destinations page. Invalid filter values in the query are corrected silently and every region starts loading.
// @Tags pages
// @Accept json
// @Produce json
// @Param request body OpenPageRequest true "Page kind and initial location query"
// @Success 201 {object} usecase.PageView
// @Failure 400 {object} response.ErrorDetail "Validation error"
// @Router /api/v1/pages [post]
func (h *PageHandler) OpenPage(c echo.Context) error {
	var req OpenPageRequest
	if err := c.Bind(&req); err != nil {
		return response.InvalidRequestBody(c)
	}
	if err := validateRequest(&req); err != nil {
		return handleValidationError(c, err)
	}

	view, err := h.pages.Open(c.Request().Context(), req.Kind, req.Query)
	if err != nil {
		return handleError(c, err)
	}
	return response.PageOpened(c, PageLocation(view.ID), view)
}

// GetPage handles GET /api/v1/pages/:id
//
// @Summary Get a page snapshot
// @Tags pages
// @Produce json
// @Param id path string true "Page session ID"
// @Param wait query bool false "Wait for loading regions to settle"
// @Success 200 {object} usecase.PageView
// @Failure 404 {object} response.ErrorDetail "Session not found"
// @Router /api/v1/pages/{id} [get]
func (h *PageHandler) GetPage(c echo.Context) error {
	var req GetPageRequest
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &req); err != nil {
		return response.BadRequest(c, "wait must be a boolean")
	}

	view, err := h.pages.Get(c.Request().Context(), c.Param("id"), req.Wait)
	if err != nil {
		return handleError(c, err)
	}
	return response.OK(c, view)
}

// ApplyFilters handles PUT /api/v1/pages/:id/filters
//
// @Summary Apply filters
// @Description Submit the filter form. Every region reloads from page 1 and the new location is pushed onto the history.
// @Tags pages
// @Accept json
// @Produce json
// @Param id path string true "Page session ID"
// @Param request body ApplyFiltersRequest true "Filter query or changed parameters"
// @Success 200 {object} usecase.PageView
// @Failure 400 {object} response.ErrorDetail "Validation error"
// @Failure 404 {object} response.ErrorDetail "Session not found"
// @Router /api/v1/pages/{id}/filters [put]
func (h *PageHandler) ApplyFilters(c echo.Context) error {
	var req ApplyFiltersRequest
	if err := c.Bind(&req); err != nil {
		return response.InvalidRequestBody(c)
	}
	if err := validateRequest(&req); err != nil {
		return handleValidationError(c, err)
	}

	view, err := h.pages.ApplyFilters(c.Request().Context(), c.Param("id"), ToFilterChange(&req))
	if err != nil {
		return handleError(c, err)
	}
	return response.OK(c, view)
}

// SetRegionPage handles PUT /api/v1/pages/:id/regions/:region/page
//
// @Summary Change a region's page
// @Description Activate a pagination control. The page is clamped to the region's last known page count.
// @Tags pages
// @Accept json
// @Produce json
// @Param id path string true "Page session ID"
// @Param region path string true "Region name" Enums(featured, all, top, trending, seasonal)
// @Param request body SetPageRequest true "Target page"
// @Success 200 {object} usecase.PageView
// @Failure 400 {object} response.ErrorDetail "Validation error or unpaginated region"
// @Failure 404 {object} response.ErrorDetail "Session not found"
// @Router /api/v1/pages/{id}/regions/{region}/page [put]
func (h *PageHandler) SetRegionPage(c echo.Context) error {
	var req SetPageRequest
	if err := c.Bind(&req); err != nil {
		return response.InvalidRequestBody(c)
	}
	if err := validateRequest(&req); err != nil {
		return handleValidationError(c, err)
	}

	view, err := h.pages.SetPage(c.Request().Context(), c.Param("id"), c.Param("region"), req.Page)
	if err != nil {
		return handleError(c, err)
	}
	return response.OK(c, view)
}

// RetryRegion handles POST /api/v1/pages/:id/regions/:region/retry
//
// @Summary Retry a region
// @Description Re-issue the region's last request with identical parameters.
// @Tags pages
// @Produce json
// @Param id path string true "Page session ID"
// @Param region path string true "Region name"
// @Success 200 {object} usecase.PageView
// @Failure 400 {object} response.ErrorDetail "Unknown region"
// @Failure 404 {object} response.ErrorDetail "Session not found"
// @Router /api/v1/pages/{id}/regions/{region}/retry [post]
func (h *PageHandler) RetryRegion(c echo.Context) error {
	view, err := h.pages.Retry(c.Request().Context(), c.Param("id"), c.Param("region"))
	if err != nil {
		return handleError(c, err)
	}
	return response.OK(c, view)
}

// Back handles POST /api/v1/pages/:id/history/back
//
// @Summary Navigate back
// @Tags history
// @Produce json
// @Param id path string true "Page session ID"
// @Success 200 {object} usecase.PageView
// @Failure 404 {object} response.ErrorDetail "Session not found"
// @Failure 409 {object} response.ErrorDetail "No history entry"
// @Router /api/v1/pages/{id}/history/back [post]
func (h *PageHandler) Back(c echo.Context) error {
	view, err := h.pages.Back(c.Request().Context(), c.Param("id"))
	if err != nil {
		return handleError(c, err)
	}
	return response.OK(c, view)
}

// Forward handles POST /api/v1/pages/:id/history/forward
//
// @Summary Navigate forward
// @Tags history
// @Produce json
// @Param id path string true "Page session ID"
// @Success 200 {object} usecase.PageView
// @Failure 404 {object} response.ErrorDetail "Session not found"
// @Failure 409 {object} response.ErrorDetail "No history entry"
// @Router /api/v1/pages/{id}/history/forward [post]
func (h *PageHandler) Forward(c echo.Context) error {
	view, err := h.pages.Forward(c.Request().Context(), c.Param("id"))
	if err != nil {
		return handleError(c, err)
	}
	return response.OK(c, view)
}

// Pop handles POST /api/v1/pages/:id/history/pop
//
// @Summary Restore a popped location
// @Description Re-parse the location query the client navigated to and reload without adding a history entry.
// @Tags history
// @Accept json
// @Produce json
// @Param id path string true "Page session ID"
// @Param request body PopRequest true "Location query"
// @Success 200 {object} usecase.PageView
// @Failure 404 {object} response.ErrorDetail "Session not found"
// @Router /api/v1/pages/{id}/history/pop [post]
func (h *PageHandler) Pop(c echo.Context) error {
	var req PopRequest
	if err := c.Bind(&req); err != nil {
		return response.InvalidRequestBody(c)
	}
	if err := validateRequest(&req); err != nil {
		return handleValidationError(c, err)
	}

	view, err := h.pages.Pop(c.Request().Context(), c.Param("id"), req.Query)
	if err != nil {
		return handleError(c, err)
	}
	return response.OK(c, view)
}

// ClosePage handles DELETE /api/v1/pages/:id
//
// @Summary Close a page session
// @Description Cancel outstanding fetches and discard the session.
// @Tags pages
// @Param id path string true "Page session ID"
// @Success 204
// @Failure 404 {object} response.ErrorDetail "Session not found"
// @Router /api/v1/pages/{id} [delete]
func (h *PageHandler) ClosePage(c echo.Context) error {
	if err := h.pages.Close(c.Request().Context(), c.Param("id")); err != nil {
		return handleError(c, err)
	}
	return response.NoContent(c)
}
