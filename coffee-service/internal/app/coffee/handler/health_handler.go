package handler

import (
	"context"
	"net/http"
	"time"

	"coffeehouse/pkg/logger"

	"github.com/gin-gonic/gin"
)

const healthTimeout = 3 * time.Second

// Pinger проверка доступности зависимости
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc адаптер функции к Pinger
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthHandler /health: база обязательна, кеш информативен
type HealthHandler struct {
	service  string
	database Pinger // nil - хранилище в памяти
	cache    Pinger // nil - кеш в памяти
}

func NewHealthHandler(service string, database, cache Pinger) *HealthHandler {
	return &HealthHandler{service: service, database: database, cache: cache}
}

func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	status := http.StatusOK
	body := gin.H{
		"status":   "ok",
		"service":  h.service,
		"database": "ok",
	}

	if h.database != nil {
		if err := h.database.Ping(ctx); err != nil {
			logger.Error().Err(err).Msg("Health check: database unavailable")
			status = http.StatusServiceUnavailable
			body["status"] = "unavailable"
			body["database"] = err.Error()
		}
	}

	if h.cache != nil {
		body["cache"] = "ok"
		if err := h.cache.Ping(ctx); err != nil {
			logger.Warn().Err(err).Msg("Health check: cache unavailable")
			body["cache"] = err.Error()
		}
	}

	c.JSON(status, body)
}
