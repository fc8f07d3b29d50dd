package middleware

import (
	"net/http"
	"time"

	"github.com/Payphone-Digital/catalog/internal/constants"
	ctxutil "github.com/Payphone-Digital/catalog/pkg/context"
	"github.com/Payphone-Digital/catalog/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxRequestIDLength = 128

// RequestContext attaches request metadata and a deadline to the request
// context. An incoming X-Request-ID is reused when it looks sane.
func RequestContext(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(constants.HeaderXRequestID)
		if requestID == "" || len(requestID) > maxRequestIDLength {
			requestID = uuid.NewString()
		}
		c.Header(constants.HeaderXRequestID, requestID)

		ctx := ctxutil.WithRequestInfo(c.Request.Context(), ctxutil.RequestInfo{
			RequestID: requestID,
			ClientIP:  c.ClientIP(),
			UserAgent: c.GetHeader(constants.HeaderUserAgent),
			StartTime: time.Now(),
		})
		ctx = ctxutil.WithOperation(ctx, "http", c.FullPath())

		ctx, cancel := ctxutil.WithTimeout(ctx, timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Set(string(constants.CtxKeyRequestID), requestID)

		c.Next()
	}
}

// ContextValidation rejects requests whose context is already done, such as
// a client that disconnected while queued
func ContextValidation() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if err := ctx.Err(); err != nil {
			logger.WarnWithContext(ctx, "Context already cancelled").
				Err(err).
				Log()
			c.AbortWithStatusJSON(http.StatusRequestTimeout, constants.BuildErrorResponse(constants.MsgTimeout, nil))
			return
		}
		c.Next()
	}
}
