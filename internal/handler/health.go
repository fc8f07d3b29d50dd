package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Payphone-Digital/catalog/internal/constants"
	"github.com/Payphone-Digital/catalog/pkg/database"
	"github.com/Payphone-Digital/catalog/pkg/logger"
	"github.com/Payphone-Digital/catalog/pkg/redis"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
	statusDisabled  = "disabled"
)

type HealthHandler struct {
	db          *gorm.DB
	redisClient *redis.Client
	timeout     time.Duration
}

type HealthCheckResponse struct {
	Status    string                 `json:"status"`
	Version   string                 `json:"version"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]HealthCheck `json:"checks"`
}

type HealthCheck struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// NewHealthHandler accepts a nil redisClient when Redis is disabled
func NewHealthHandler(db *gorm.DB, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{
		db:          db,
		redisClient: redisClient,
		timeout:     5 * time.Second,
	}
}

// HealthCheck reports database and cache health. Only the database decides
// the overall status; Redis is optional.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	response := HealthCheckResponse{
		Status:    statusHealthy,
		Version:   constants.AppVersion,
		Timestamp: time.Now().UTC(),
		Checks: map[string]HealthCheck{
			"database": h.checkDatabase(ctx),
			"redis":    h.checkRedis(ctx),
		},
	}
	if response.Checks["database"].Status != statusHealthy {
		response.Status = statusUnhealthy
	}

	statusCode := http.StatusOK
	if response.Status == statusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	logger.GetLogger().Debug("Health check performed",
		zap.String("overall_status", response.Status),
		zap.Int("status_code", statusCode),
	)

	c.JSON(statusCode, response)
}

// Live answers as long as the process serves HTTP
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    statusHealthy,
		"version":   constants.AppVersion,
		"timestamp": time.Now().UTC(),
	})
}

func (h *HealthHandler) checkDatabase(ctx context.Context) HealthCheck {
	if err := database.Ping(ctx, h.db); err != nil {
		logger.GetLogger().Error("Database health check failed", zap.Error(err))
		return HealthCheck{Status: statusUnhealthy, Message: err.Error()}
	}

	sqlDB, err := h.db.DB()
	if err != nil {
		return HealthCheck{Status: statusUnhealthy, Message: err.Error()}
	}

	stats := sqlDB.Stats()
	return HealthCheck{
		Status:  statusHealthy,
		Message: fmt.Sprintf("%s connection is healthy", h.db.Dialector.Name()),
		Details: gin.H{
			"open_connections": stats.OpenConnections,
			"in_use":           stats.InUse,
			"idle":             stats.Idle,
		},
	}
}

func (h *HealthHandler) checkRedis(ctx context.Context) HealthCheck {
	if h.redisClient == nil {
		return HealthCheck{Status: statusDisabled, Message: "Redis cache is disabled"}
	}

	if err := h.redisClient.Ping(ctx); err != nil {
		logger.GetLogger().Warn("Redis ping failed", zap.Error(err))
		return HealthCheck{Status: statusUnhealthy, Message: "Redis ping failed: " + err.Error()}
	}

	return HealthCheck{
		Status:  statusHealthy,
		Message: "Redis connection is healthy",
		Details: h.redisClient.Stats(),
	}
}
