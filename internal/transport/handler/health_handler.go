package handler

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const healthPingTimeout = 2 * time.Second

// Pinger проверка доступности базы, *pgxpool.Pool подходит как есть
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db  Pinger
	log *zap.Logger
}

func NewHealthHandler(db Pinger, log *zap.Logger) *HealthHandler {
	return &HealthHandler{
		db:  db,
		log: log,
	}
}

func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.log.Debug("health check requested",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)

	ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.log.Error("health check: database unreachable", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "database unavailable",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "Issue Tracker API is running",
	})
}
