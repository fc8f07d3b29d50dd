package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/Payphone-Digital/catalog/config"
	"github.com/Payphone-Digital/catalog/internal/catalog"
	"github.com/Payphone-Digital/catalog/internal/constants"
	"github.com/Payphone-Digital/catalog/internal/dto"
	"github.com/Payphone-Digital/catalog/internal/model"
	"github.com/Payphone-Digital/catalog/internal/repository"
	"github.com/Payphone-Digital/catalog/internal/service"
	"github.com/Payphone-Digital/catalog/pkg/database"
	"github.com/Payphone-Digital/catalog/pkg/redis"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func seededDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewSQLiteDB(":memory:", database.DefaultConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.CloseDB(db) })
	require.NoError(t, database.AutoMigrate(db))
	_, err = database.SeedProducts(context.Background(), db)
	require.NoError(t, err)
	return db
}

func productRouter(store service.ProductStore) *gin.Engine {
	h := NewProductHandler(service.NewProductService(store, service.NewCacheService(nil, 0)))
	r := gin.New()
	r.GET("/api/products", h.List)
	r.GET("/api/products/filters", h.Filters)
	r.GET("/api/products/:id", h.GetByID)
	return r
}

func get(r http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestProductHandler_List(t *testing.T) {
	r := productRouter(repository.NewProductRepository(seededDB(t)))

	q := url.Values{}
	q.Set(constants.QueryParamPageSize, "4")
	q.Set(constants.QueryParamOrderBy, "priceDesc")
	q.Set(constants.QueryParamBrands, "netcore,react")
	q.Add(constants.QueryParamTypes, "Boots")
	q.Add(constants.QueryParamTypes, "hats")

	w := get(r, "/api/products?"+q.Encode())
	require.Equal(t, http.StatusOK, w.Code)

	var header dto.PaginationHeader
	require.NoError(t, json.Unmarshal([]byte(w.Header().Get(constants.HeaderPagination)), &header))
	assert.Equal(t, dto.PaginationHeader{CurrentPage: 1, TotalPages: 2, PageSize: 4, TotalCount: 5}, header)

	var items []dto.ProductResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 4)
	for i := 1; i < len(items); i++ {
		assert.GreaterOrEqual(t, items[i-1].Price, items[i].Price)
	}
	for _, item := range items {
		assert.Contains(t, []string{"NetCore", "React"}, item.Brand)
		assert.Contains(t, []string{"Boots", "Hats"}, item.Type)
	}
}

func TestProductHandler_ListBadEscapesStillListed(t *testing.T) {
	r := productRouter(repository.NewProductRepository(seededDB(t)))

	w := get(r, "/api/products?pageNumber=%zz&searchTerm=%&pageSize=3")
	require.Equal(t, http.StatusOK, w.Code)

	var items []dto.ProductResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	assert.NotEmpty(t, items)
}

func TestProductHandler_ListPastLastPage(t *testing.T) {
	r := productRouter(repository.NewProductRepository(seededDB(t)))

	w := get(r, "/api/products?pageNumber=40")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	var header dto.PaginationHeader
	require.NoError(t, json.Unmarshal([]byte(w.Header().Get(constants.HeaderPagination)), &header))
	assert.Equal(t, 40, header.CurrentPage)
	assert.Equal(t, 3, header.TotalPages)
}

func TestProductHandler_ListMalformedNumbers(t *testing.T) {
	r := productRouter(repository.NewProductRepository(seededDB(t)))

	w := get(r, "/api/products?pageNumber=-3&pageSize=zero")
	require.Equal(t, http.StatusOK, w.Code)

	var header dto.PaginationHeader
	require.NoError(t, json.Unmarshal([]byte(w.Header().Get(constants.HeaderPagination)), &header))
	assert.Equal(t, 1, header.CurrentPage)
	assert.Equal(t, catalog.DefaultPageSize, header.PageSize)
}

func TestProductHandler_GetByID(t *testing.T) {
	r := productRouter(repository.NewProductRepository(seededDB(t)))

	w := get(r, "/api/products/2")
	require.Equal(t, http.StatusOK, w.Code)
	var product dto.ProductResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &product))
	assert.Equal(t, int64(2), product.ID)

	for _, id := range []string{"9999", "abc", "1.5", "-1"} {
		w = get(r, "/api/products/"+id)
		assert.Equal(t, http.StatusNotFound, w.Code, id)
		assert.Contains(t, w.Body.String(), constants.MsgNotFound, id)
	}
}

func TestProductHandler_Filters(t *testing.T) {
	r := productRouter(repository.NewProductRepository(seededDB(t)))

	w := get(r, "/api/products/filters")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"brands":["Angular","NetCore","React","Redis","TypeScript","VS Code"],"types":["Boards","Boots","Gloves","Hats"]}`, w.Body.String())
}

type failingStore struct{ err error }

func (f failingStore) Count(context.Context, catalog.Query) (int64, error) { return 0, f.err }
func (f failingStore) Slice(context.Context, catalog.Query, int, int) ([]model.Product, error) {
	return nil, f.err
}
func (f failingStore) Distinct(context.Context, catalog.Field) ([]string, error) { return nil, f.err }
func (f failingStore) GetByID(context.Context, int64) (*model.Product, error)    { return nil, f.err }

func TestProductHandler_StoreUnavailable(t *testing.T) {
	r := productRouter(failingStore{err: errors.New("connection reset")})

	for _, target := range []string{"/api/products", "/api/products/1", "/api/products/filters"} {
		w := get(r, target)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code, target)
		assert.Contains(t, w.Body.String(), "STORE_UNAVAILABLE", target)
		assert.Empty(t, w.Header().Get(constants.HeaderPagination), target)
	}
}

func TestProductHandler_Cancelled(t *testing.T) {
	r := productRouter(repository.NewProductRepository(seededDB(t)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestTimeout, w.Code)
}

func TestHealthHandler(t *testing.T) {
	db := seededDB(t)

	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	client, err := redis.NewClient(config.RedisConfig{Enabled: true, Host: mr.Host(), Port: port, PoolSize: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	h := NewHealthHandler(db, client)
	r := gin.New()
	r.GET("/api/health", h.HealthCheck)
	r.GET("/api/health/live", h.Live)

	w := get(r, "/api/health")
	require.Equal(t, http.StatusOK, w.Code)
	var resp HealthCheckResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "healthy", resp.Checks["database"].Status)
	assert.Equal(t, "healthy", resp.Checks["redis"].Status)

	// redis is optional
	mr.Close()
	w = get(r, "/api/health")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "unhealthy", resp.Checks["redis"].Status)

	require.NoError(t, database.CloseDB(db))
	w = get(r, "/api/health")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	assert.Equal(t, http.StatusOK, get(r, "/api/health/live").Code)
}

func TestHealthHandler_RedisDisabled(t *testing.T) {
	h := NewHealthHandler(seededDB(t), nil)
	r := gin.New()
	r.GET("/api/health", h.HealthCheck)

	w := get(r, "/api/health")
	require.Equal(t, http.StatusOK, w.Code)
	var resp HealthCheckResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "disabled", resp.Checks["redis"].Status)
}
