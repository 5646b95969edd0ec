package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/llamacto/llama-gin/internal/constants"
	"github.com/llamacto/llama-gin/pkg/database"
	"github.com/llamacto/llama-gin/pkg/logger"
	"github.com/llamacto/llama-gin/pkg/redis"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const healthCheckTimeout = 5 * time.Second

type HealthHandler struct {
	responder
	db          *gorm.DB
	redisClient redis.Client
	service     string
}

func NewHealthHandler(db *gorm.DB, redisClient redis.Client, service string, exposeErrors bool) *HealthHandler {
	return &HealthHandler{
		responder:   responder{exposeErrors: exposeErrors},
		db:          db,
		redisClient: redisClient,
		service:     service,
	}
}

// Health is the liveness probe
func (h *HealthHandler) Health(c *gin.Context) {
	h.ok(c, gin.H{
		"status":  "healthy",
		"service": h.service,
	})
}

// Database is the readiness probe. Redis is optional and never fails it.
func (h *HealthHandler) Database(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	if err := h.pingDatabase(ctx); err != nil {
		logger.GetLogger().Error("Database ping failed", zap.Error(err))

		var data any
		if h.exposeErrors {
			data = err.Error()
		}
		c.JSON(http.StatusInternalServerError,
			constants.BuildErrorResponse(http.StatusInternalServerError, "Database disconnected", data))
		return
	}

	h.ok(c, gin.H{
		"status":   "healthy",
		"database": "connected",
		"redis":    h.redisStatus(ctx),
	})
}

func (h *HealthHandler) pingDatabase(ctx context.Context) error {
	if h.db == nil {
		return gorm.ErrInvalidDB
	}
	return database.Ping(ctx, h.db)
}

func (h *HealthHandler) redisStatus(ctx context.Context) string {
	if h.redisClient == nil || !h.redisClient.IsEnabled() {
		return "disabled"
	}
	if err := h.redisClient.Ping(ctx); err != nil {
		logger.GetLogger().Warn("Redis ping failed", zap.Error(err))
		return "unreachable"
	}
	return "connected"
}
