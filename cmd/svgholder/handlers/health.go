package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/svgholder/svgholder/common/models"
)

// Health is the liveness endpoint
// GET /api/health
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "SVG Holder API is running",
		Data: map[string]string{
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	})
}
