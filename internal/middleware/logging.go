package middleware

import (
	"io"
	"net/http"
	"time"

	"github.com/Payphone-Digital/catalog/internal/constants"
	apperrors "github.com/Payphone-Digital/catalog/internal/errors"
	ctxutil "github.com/Payphone-Digital/catalog/pkg/context"
	"github.com/Payphone-Digital/catalog/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const slowRequestThreshold = 2 * time.Second

// LoggingMiddleware logs every request through zap instead of gin's writer
func LoggingMiddleware() gin.HandlerFunc {
	return gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			fields := []zap.Field{
				zap.String("query", param.Request.URL.RawQuery),
				zap.Int("response_size", param.BodySize),
			}
			if requestID := ctxutil.GetRequestID(param.Request.Context()); requestID != "" {
				fields = append(fields, zap.String("request_id", requestID))
			}
			if param.ErrorMessage != "" {
				fields = append(fields, zap.String("error", param.ErrorMessage))
			}

			logger.LogRequest(
				param.Method,
				param.Path,
				param.StatusCode,
				param.Latency.Milliseconds(),
				param.ClientIP,
				param.Request.UserAgent(),
				fields...,
			)

			if param.Latency > slowRequestThreshold {
				logger.GetLogger().Warn("Slow request detected",
					zap.String("method", param.Method),
					zap.String("path", param.Path),
					zap.Duration("latency", param.Latency),
					zap.String("client_ip", param.ClientIP),
				)
			}

			return ""
		},
		Output:    io.Discard,
		SkipPaths: []string{"/api/health/live"},
	})
}

// RecoveryMiddleware recovers from panics and logs them
func RecoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.LogPanic(recovered,
			zap.String("request_id", ctxutil.GetRequestID(c.Request.Context())),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)

		c.AbortWithStatusJSON(http.StatusInternalServerError,
			constants.BuildCodedErrorResponse(apperrors.ErrInternal.Code, constants.MsgInternalError))
	})
}
