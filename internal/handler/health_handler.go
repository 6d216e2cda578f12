package handler

import (
	"net/http"

	"vibestack/internal/config"

	"github.com/labstack/echo/v4"
)

type HealthHandler struct {
	cfg config.Config
}

func NewHealthHandler(cfg config.Config) *HealthHandler {
	return &HealthHandler{cfg: cfg}
}

func (h *HealthHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)
}

// 死活監視用。
func (h *HealthHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":      "healthy",
		"version":     h.cfg.Version,
		"environment": h.cfg.Environment,
	})
}
