package http

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers all listings API routes.
// It creates a versioned API group and attaches the handler methods.
func RegisterRoutes(e *echo.Echo, lh *ListingHandler, ph *PageHandler) {
	RegisterRoutesWithMiddleware(e, lh, ph)
}

// RegisterRoutesWithMiddleware registers routes with middleware applied to the
// API group only.
func RegisterRoutesWithMiddleware(e *echo.Echo, lh *ListingHandler, ph *PageHandler, middleware ...echo.MiddlewareFunc) {
	// Health check endpoint (no version prefix, no middleware)
	e.GET("/health", lh.Health)

	api := e.Group("/api/v1", middleware...)

	api.GET("/listings/:kind", lh.GetListing)

	pages := api.Group("/pages")
	pages.POST("", ph.OpenPage)
	pages.GET("/:id", ph.GetPage)
	pages.DELETE("/:id", ph.ClosePage)
	pages.PUT("/:id/filters", ph.ApplyFilters)
	pages.PUT("/:id/regions/:region/page", ph.SetRegionPage)
	pages.POST("/:id/regions/:region/retry", ph.RetryRegion)

	history := pages.Group("/:id/history")
	history.POST("/back", ph.Back)
	history.POST("/forward", ph.Forward)
	history.POST("/pop", ph.Pop)
}
