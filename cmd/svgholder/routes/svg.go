package routes

import (
	"github.com/labstack/echo/v4"
	"github.com/svgholder/svgholder/cmd/svgholder/container"
	"github.com/svgholder/svgholder/cmd/svgholder/handlers"
)

// RegisterSvgRoutes registers all SVG record routes
func RegisterSvgRoutes(e *echo.Echo, c *container.Container) {
	h := handlers.NewSvgHandler(c.SvgService, c.Components.Logger)

	svgs := e.Group("/api/svgs")
	{
		svgs.GET("", h.ListSvgs)          // GET /api/svgs
		svgs.GET("/search", h.SearchSvgs) // GET /api/svgs/search?q=...
		svgs.GET("/:id", h.GetSvg)        // GET /api/svgs/:id
		svgs.POST("", h.CreateSvg)        // POST /api/svgs
		svgs.PUT("/:id", h.UpdateSvg)     // PUT /api/svgs/:id
		svgs.DELETE("/:id", h.DeleteSvg)  // DELETE /api/svgs/:id
	}
}

// RegisterHealthRoutes registers the liveness endpoints
func RegisterHealthRoutes(e *echo.Echo) {
	e.GET("/api/health", handlers.Health)
	e.GET("/health", handlers.Health)
}
