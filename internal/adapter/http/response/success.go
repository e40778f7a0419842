package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`

	// Sources lists the configured data source names
	Sources []string `json:"sources,omitempty"`
}

// Health writes a health check response.
func Health(c echo.Context, sources ...string) error {
	return c.JSON(http.StatusOK, &HealthResponse{
		Status:  "ok",
		Sources: sources,
	})
}

// Listing writes a 200 OK response with one listing page.
func Listing(c echo.Context, result interface{}) error {
	return OK(c, result)
}

// PageOpened writes a 201 Created response for a new page session and points
// Location at the session resource.
func PageOpened(c echo.Context, location string, view interface{}) error {
	c.Response().Header().Set(echo.HeaderLocation, location)
	return Created(c, view)
}
