package handlers

import (
	"net/http"
	"time"

	"collabhub/internal/caching"
	"collabhub/internal/repositories"

	"github.com/labstack/echo/v4"
)

type HealthHandlers struct {
	db       repositories.Database
	cacheSvc caching.CacheService
	version  string
}

func NewHealthHandlers(db repositories.Database, cacheSvc caching.CacheService, version string) *HealthHandlers {
	return &HealthHandlers{db: db, cacheSvc: cacheSvc, version: version}
}

type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services"`
	Version   string            `json:"version"`
}

// HealthCheck reports liveness plus per-collaborator status.
func (h *HealthHandlers) HealthCheck(c echo.Context) error {
	ctx := c.Request().Context()
	health := &HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  make(map[string]string),
		Version:   h.version,
	}

	if err := h.db.QueryRow(ctx, "SELECT 1").Scan(new(int)); err != nil {
		health.Services["database"] = "unhealthy"
		health.Status = "degraded"
	} else {
		health.Services["database"] = "healthy"
	}

	if err := h.cacheSvc.Ping(ctx); err != nil {
		health.Services["redis"] = "unhealthy"
		health.Status = "degraded"
	} else {
		health.Services["redis"] = "healthy"
	}

	code := http.StatusOK
	if health.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, health)
}

// ReadinessCheck is the cheap readiness probe: the database must answer.
func (h *HealthHandlers) ReadinessCheck(c echo.Context) error {
	if err := h.db.QueryRow(c.Request().Context(), "SELECT 1").Scan(new(int)); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
}
