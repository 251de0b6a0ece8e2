package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/seyborx-dotcom/impulse-bot/pkg/database"
	"github.com/seyborx-dotcom/impulse-bot/pkg/logger"
	"github.com/seyborx-dotcom/impulse-bot/pkg/redis"
)

// HealthHandler reports liveness of the bot's backing stores.
type HealthHandler struct {
	db    *database.PostgresDB
	cache *redis.Client
	log   *logger.Logger
}

// NewHealthHandler creates a new health check handler
func NewHealthHandler(db *database.PostgresDB, cache *redis.Client, log *logger.Logger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache, log: log}
}

type healthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	resp := healthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Checks:    make(map[string]string),
	}

	if err := h.db.Health(ctx); err != nil {
		h.log.WithError(err).Error("database health check failed")
		resp.Status = "unhealthy"
		resp.Checks["database"] = err.Error()
	} else {
		resp.Checks["database"] = "ok"
	}

	if err := h.cache.Health(ctx); err != nil {
		h.log.WithError(err).Error("redis health check failed")
		resp.Status = "unhealthy"
		resp.Checks["redis"] = err.Error()
	} else {
		resp.Checks["redis"] = "ok"
	}

	w.Header().Set("Content-Type", "application/json")
	if resp.Status != "healthy" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.log.WithError(err).Error("failed to encode health response")
	}
}
