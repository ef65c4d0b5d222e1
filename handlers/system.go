// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/VENUHARGI/OnlineVoting/middleware"
	"github.com/VENUHARGI/OnlineVoting/models"
)

const dbPingTimeout = 3 * time.Second

type SystemHandler struct {
	db *sql.DB
}

func NewSystemHandler(db *sql.DB) *SystemHandler {
	return &SystemHandler{db: db}
}

// DatabaseHealth handles GET /api/system/health/database
func (h *SystemHandler) DatabaseHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), dbPingTimeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		slog.Error("database health check failed", "error", err)
		middleware.JSONResponse(w, http.StatusServiceUnavailable, models.Envelope{
			Success:   false,
			Message:   "Database is unavailable",
			ErrorCode: models.CodeInternal,
			Data:      models.HealthStatus{Service: "database", Status: "DOWN"},
			Timestamp: time.Now().UTC(),
		})
		return
	}

	middleware.SuccessResponse(w, http.StatusOK, "Database is reachable", models.HealthStatus{
		Service: "database",
		Status:  "UP",
	})
}
