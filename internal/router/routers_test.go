package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Payphone-Digital/catalog/config"
	"github.com/Payphone-Digital/catalog/internal/constants"
	"github.com/Payphone-Digital/catalog/internal/handler"
	"github.com/Payphone-Digital/catalog/internal/middleware"
	"github.com/Payphone-Digital/catalog/internal/repository"
	"github.com/Payphone-Digital/catalog/internal/service"
	"github.com/Payphone-Digital/catalog/pkg/database"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, limiter middleware.Limiter) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewSQLiteDB(":memory:", database.DefaultConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.CloseDB(db) })
	require.NoError(t, database.AutoMigrate(db))
	_, err = database.SeedProducts(context.Background(), db)
	require.NoError(t, err)

	cfg := &config.Config{App: config.AppConfig{
		Environment:    constants.EnvTest,
		RequestTimeout: 5 * time.Second,
		AllowedOrigins: []string{"http://localhost:3000"},
	}}

	productService := service.NewProductService(repository.NewProductRepository(db), service.NewCacheService(nil, 0))
	r := NewRouter(
		handler.NewProductHandler(productService),
		handler.NewHealthHandler(db, nil),
		limiter,
		cfg,
	)
	return r.SetupRoutes()
}

func serve(engine *gin.Engine, method, target string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRouter_ProductRoutes(t *testing.T) {
	engine := newTestEngine(t, nil)

	w := serve(engine, http.MethodGet, "/api/products?pageSize=3", map[string]string{"Origin": "http://localhost:3000"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(constants.HeaderPagination))
	assert.NotEmpty(t, w.Header().Get(constants.HeaderXRequestID))
	assert.Contains(t, w.Header().Get(constants.HeaderExposeHeaders), constants.HeaderPagination)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/products/filters", nil).Code)
	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/products/1", nil).Code)
	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/api/products/nope", nil).Code)
}

func TestRouter_HealthRoutes(t *testing.T) {
	engine := newTestEngine(t, nil)

	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/health", nil).Code)
	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/health/live", nil).Code)
}

func TestRouter_RateLimitsProductsOnly(t *testing.T) {
	limiter := middleware.NewMemoryLimiter(config.RateLimitConfig{RequestsPerSecond: 0.01, Burst: 1, ClientTTL: time.Minute})
	t.Cleanup(limiter.Close)
	engine := newTestEngine(t, limiter)

	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/products", nil).Code)
	w := serve(engine, http.MethodGet, "/api/products", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get(constants.HeaderRetryAfter))

	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/health/live", nil).Code)
}
