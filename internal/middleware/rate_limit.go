// middleware/rate_limit.go
package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/Payphone-Digital/catalog/config"
	"github.com/Payphone-Digital/catalog/internal/constants"
	apperrors "github.com/Payphone-Digital/catalog/internal/errors"
	"github.com/Payphone-Digital/catalog/pkg/cache"
	"github.com/Payphone-Digital/catalog/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	rateLimitLimit     = "X-RateLimit-Limit"
	rateLimitRemaining = "X-RateLimit-Remaining"
)

// Decision is the outcome of one rate limit check
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Limiter decides whether the client identified by key may proceed
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// MemoryLimiter keeps one token bucket per client in process memory. Idle
// buckets expire after the configured client TTL.
type MemoryLimiter struct {
	clients *cache.Cache[*rate.Limiter]
	limit   rate.Limit
	burst   int
	ttl     time.Duration
}

func NewMemoryLimiter(cfg config.RateLimitConfig) *MemoryLimiter {
	return &MemoryLimiter{
		clients: cache.New[*rate.Limiter](cfg.ClientTTL),
		limit:   rate.Limit(cfg.RequestsPerSecond),
		burst:   cfg.Burst,
		ttl:     cfg.ClientTTL,
	}
}

func (m *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	lim := m.clients.GetOrSet(key, m.ttl, func() *rate.Limiter {
		return rate.NewLimiter(m.limit, m.burst)
	})

	now := time.Now()
	d := Decision{Allowed: lim.AllowN(now, 1), Limit: m.burst}

	tokens := lim.TokensAt(now)
	if tokens > 0 {
		d.Remaining = int(tokens)
	}
	if !d.Allowed && m.limit > 0 {
		d.RetryAfter = time.Duration((1 - tokens) / float64(m.limit) * float64(time.Second))
	}
	return d, nil
}

func (m *MemoryLimiter) Close() {
	m.clients.Close()
}

// RedisLimiter shares GCRA buckets between instances through Redis
type RedisLimiter struct {
	limiter *redis_rate.Limiter
	limit   redis_rate.Limit
}

func NewRedisLimiter(rdb *redis.Client, cfg config.RateLimitConfig) *RedisLimiter {
	return &RedisLimiter{
		limiter: redis_rate.NewLimiter(rdb),
		limit:   redisLimit(cfg),
	}
}

// redisLimit expresses a fractional rate as whole requests per period
func redisLimit(cfg config.RateLimitConfig) redis_rate.Limit {
	limit := redis_rate.Limit{Rate: 1, Burst: cfg.Burst, Period: time.Second}
	switch {
	case cfg.RequestsPerSecond >= 1:
		limit.Rate = int(math.Round(cfg.RequestsPerSecond))
	case cfg.RequestsPerSecond > 0:
		limit.Period = time.Duration(float64(time.Second) / cfg.RequestsPerSecond)
	}
	return limit
}

func (r *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	res, err := r.limiter.Allow(ctx, "catalog:"+key, r.limit)
	if err != nil {
		return Decision{}, err
	}
	return Decision{
		Allowed:    res.Allowed > 0,
		Limit:      r.limit.Burst,
		Remaining:  res.Remaining,
		RetryAfter: res.RetryAfter,
	}, nil
}

// RateLimit applies l per client IP. When the limiter itself fails the
// request is let through and the failure logged.
func RateLimit(l Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		d, err := l.Allow(c.Request.Context(), ip)
		if err != nil {
			logger.GetLogger().Warn("Rate limiter unavailable, allowing request",
				zap.String("client_ip", ip),
				zap.Error(err),
			)
			c.Next()
			return
		}

		c.Header(rateLimitLimit, strconv.Itoa(d.Limit))
		c.Header(rateLimitRemaining, strconv.Itoa(d.Remaining))

		if !d.Allowed {
			retry := int(math.Ceil(d.RetryAfter.Seconds()))
			if retry < 1 {
				retry = 1
			}

			logger.GetLogger().Warn("Rate limit exceeded",
				zap.String("client_ip", ip),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Duration("retry_after", d.RetryAfter),
			)

			c.Header(constants.HeaderRetryAfter, strconv.Itoa(retry))
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				constants.BuildCodedErrorResponse(apperrors.ErrRateLimited.Code, constants.MsgTooManyRequests))
			return
		}

		c.Next()
	}
}
