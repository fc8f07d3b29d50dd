package service

import (
	"context"
	"errors"
	"time"

	"github.com/Payphone-Digital/catalog/internal/catalog"
	"github.com/Payphone-Digital/catalog/internal/constants"
	"github.com/Payphone-Digital/catalog/pkg/cache"
	"github.com/Payphone-Digital/catalog/pkg/circuit"
	ctxutil "github.com/Payphone-Digital/catalog/pkg/context"
	"github.com/Payphone-Digital/catalog/pkg/logger"
	"github.com/Payphone-Digital/catalog/pkg/redis"
)

// CacheService keeps computed facets for a short TTL. Redis is used when a
// client is configured; otherwise entries live in process memory. Cache
// failures are logged and treated as misses, and repeated Redis failures
// open a breaker so requests stop waiting on a dead cache.
type CacheService struct {
	redisClient *redis.Client
	breaker     *circuit.Breaker
	local       *cache.Cache[catalog.Facets]
	ttl         time.Duration
}

// NewCacheService creates a new cache service. A non-positive ttl disables caching.
func NewCacheService(redisClient *redis.Client, ttl time.Duration) *CacheService {
	s := &CacheService{redisClient: redisClient, ttl: ttl}
	if redisClient == nil && ttl > 0 {
		s.local = cache.New[catalog.Facets](time.Minute)
	}
	if redisClient != nil {
		s.breaker = circuit.NewBreaker("redis-cache", circuit.DefaultConfig(), logger.GetLogger())
	}
	return s
}

func (s *CacheService) Enabled() bool {
	return s != nil && s.ttl > 0
}

func (s *CacheService) GetFacets(ctx context.Context) (catalog.Facets, bool) {
	if !s.Enabled() {
		return catalog.Facets{}, false
	}
	ctx = ctxutil.WithOperation(ctx, "cache", "GetFacets")

	if s.local != nil {
		return s.local.Get(constants.CacheKeyFacets)
	}

	var facets catalog.Facets
	var found bool
	err := s.breaker.Execute(ctx, func(ctx context.Context) error {
		var err error
		found, err = s.redisClient.GetJSON(ctx, constants.CacheKeyFacets, &facets)
		return err
	})
	if err != nil {
		s.logFailure(ctx, "Facet cache read failed, recomputing", err)
		return catalog.Facets{}, false
	}
	return facets, found
}

func (s *CacheService) SetFacets(ctx context.Context, facets catalog.Facets) {
	if !s.Enabled() {
		return
	}
	ctx = ctxutil.WithOperation(ctx, "cache", "SetFacets")

	if s.local != nil {
		s.local.Set(constants.CacheKeyFacets, facets, s.ttl)
		return
	}

	err := s.breaker.Execute(ctx, func(ctx context.Context) error {
		return s.redisClient.SetJSON(ctx, constants.CacheKeyFacets, facets, s.ttl)
	})
	if err != nil {
		s.logFailure(ctx, "Facet cache write failed", err)
	}
}

// InvalidateFacets drops the cached facets so the next read recomputes them
func (s *CacheService) InvalidateFacets(ctx context.Context) {
	if !s.Enabled() {
		return
	}

	if s.local != nil {
		s.local.Delete(constants.CacheKeyFacets)
		return
	}

	err := s.breaker.Execute(ctx, func(ctx context.Context) error {
		return s.redisClient.Delete(ctx, constants.CacheKeyFacets)
	})
	if err != nil {
		s.logFailure(ctx, "Facet cache invalidation failed", err)
	}
}

func (s *CacheService) logFailure(ctx context.Context, msg string, err error) {
	if errors.Is(err, circuit.ErrCircuitOpen) || errors.Is(err, circuit.ErrTooManyRequests) {
		logger.DebugWithContext(ctx, msg).
			String("reason", "breaker open").
			String("breaker_state", s.breaker.State().String()).
			Log()
		return
	}
	logger.WarnWithContext(ctx, msg).
		String("breaker_state", s.breaker.State().String()).
		Err(err).
		Log()
}

func (s *CacheService) Close() {
	if s != nil && s.local != nil {
		s.local.Close()
	}
}
