package handler

import (
	"context"
	"net/http"
	"time"

	"shoponline/internal/delivery/api/response"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const healthPingTimeout = 2 * time.Second

// HealthHandler reports liveness together with database reachability.
type HealthHandler struct {
	db *gorm.DB
}

// NewHealthHandler creates a new HealthHandler instance
func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Check answers 200 when the database responds, 503 otherwise.
func (h *HealthHandler) Check(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthPingTimeout)
	defer cancel()

	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		return response.Error(c, http.StatusServiceUnavailable, "DATABASE_UNREACHABLE", "Service is degraded", nil)
	}

	return response.OK(c, map[string]string{"status": "ok", "database": "ok"}, "Service is healthy")
}
