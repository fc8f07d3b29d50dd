package service

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/Payphone-Digital/catalog/config"
	"github.com/Payphone-Digital/catalog/internal/catalog"
	"github.com/Payphone-Digital/catalog/pkg/circuit"
	"github.com/Payphone-Digital/catalog/pkg/redis"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheService_Disabled(t *testing.T) {
	s := NewCacheService(nil, 0)
	assert.False(t, s.Enabled())

	s.SetFacets(context.Background(), catalog.Facets{Brands: []string{"React"}})
	_, ok := s.GetFacets(context.Background())
	assert.False(t, ok)
	assert.NotPanics(t, s.Close)
}

func TestCacheService_Local(t *testing.T) {
	s := NewCacheService(nil, time.Minute)
	t.Cleanup(s.Close)
	ctx := context.Background()

	s.SetFacets(ctx, catalog.Facets{Brands: []string{"React"}, Types: []string{"Hats"}})
	facets, ok := s.GetFacets(ctx)
	require.True(t, ok)
	assert.Equal(t, []string{"React"}, facets.Brands)

	s.InvalidateFacets(ctx)
	_, ok = s.GetFacets(ctx)
	assert.False(t, ok)
}

func TestCacheService_RedisBreakerOpens(t *testing.T) {
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	client, err := redis.NewClient(config.RedisConfig{Enabled: true, Host: mr.Host(), Port: port, PoolSize: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	s := NewCacheService(client, time.Minute)
	ctx := context.Background()

	s.SetFacets(ctx, catalog.Facets{Brands: []string{"Redis"}})
	facets, ok := s.GetFacets(ctx)
	require.True(t, ok)
	assert.Equal(t, []string{"Redis"}, facets.Brands)
	assert.Equal(t, time.Minute, mr.TTL("catalog:facets"))

	mr.Close()
	for i := 0; i < circuit.DefaultConfig().Threshold; i++ {
		_, ok = s.GetFacets(ctx)
		assert.False(t, ok)
	}
	assert.Equal(t, circuit.StateOpen, s.breaker.State())
}
