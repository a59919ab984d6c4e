package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"clinik-backend/internal/database"
)

// healthCheckHandler handles GET /api/health
func healthCheckHandler(c echo.Context) error {
	status := "ok"
	if err := database.DB.Ping(); err != nil {
		status = "degraded"
	}

	return respondOK(c, http.StatusOK, "", map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
