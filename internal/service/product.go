package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Payphone-Digital/catalog/internal/catalog"
	"github.com/Payphone-Digital/catalog/internal/dto"
	apperrors "github.com/Payphone-Digital/catalog/internal/errors"
	"github.com/Payphone-Digital/catalog/internal/model"
	"github.com/Payphone-Digital/catalog/internal/repository"
	ctxutil "github.com/Payphone-Digital/catalog/pkg/context"
	"github.com/Payphone-Digital/catalog/pkg/logger"
	"golang.org/x/sync/singleflight"
)

// ProductStore is the persistence the product service reads from
type ProductStore interface {
	catalog.Collection[model.Product]
	catalog.FacetSource
	GetByID(ctx context.Context, id int64) (*model.Product, error)
}

// DefaultFacetTimeout bounds a facet computation once it is detached from
// the request that started it
const DefaultFacetTimeout = 10 * time.Second

type ProductService struct {
	store        ProductStore
	cache        *CacheService
	facets       singleflight.Group
	facetTimeout time.Duration
}

func NewProductService(store ProductStore, cache *CacheService) *ProductService {
	return &ProductService{store: store, cache: cache, facetTimeout: DefaultFacetTimeout}
}

// WithFacetTimeout replaces the bound on shared facet computations.
// Non-positive values keep the current bound.
func (s *ProductService) WithFacetTimeout(d time.Duration) *ProductService {
	if d > 0 {
		s.facetTimeout = d
	}
	return s
}

// List normalizes raw listing input and returns the requested page
func (s *ProductService) List(ctx context.Context, raw catalog.RawParams) (dto.ProductPage, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "List")

	params := catalog.Normalize(raw)

	logger.DebugWithContext(ctx, "List products").
		Int("page_number", params.PageNumber).
		Int("page_size", params.PageSize).
		String("order_by", params.OrderBy.String()).
		String("search_term", params.SearchTerm).
		Strings("brands", params.Brands).
		Strings("types", params.Types).
		Log()

	page, err := catalog.ListPage[model.Product](ctx, s.store, params)
	if err != nil {
		return dto.ProductPage{}, s.storeError(ctx, "Failed to list products", err)
	}

	items := make([]dto.ProductResponse, 0, len(page.Items))
	for _, p := range page.Items {
		items = append(items, dto.NewProductResponse(p))
	}

	logger.InfoWithContext(ctx, "Products listed").
		Int("returned_count", len(items)).
		Int64("total_count", page.MetaData.TotalCount).
		Int("total_pages", page.MetaData.TotalPages).
		Log()

	return dto.ProductPage{
		Items:      items,
		Pagination: dto.NewPaginationHeader(page.MetaData),
	}, nil
}

func (s *ProductService) GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "GetByID")

	if id <= 0 {
		return nil, apperrors.ErrProductNotFound
	}

	product, err := s.store.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		logger.InfoWithContext(ctx, "Product not found").
			Int64("product_id", id).
			Log()
		return nil, apperrors.ErrProductNotFound
	}
	if err != nil {
		return nil, s.storeError(ctx, "Failed to get product by ID", err)
	}

	response := dto.NewProductResponse(*product)
	return &response, nil
}

// Filters returns every distinct brand and type in the catalog. Results are
// cached; concurrent misses share one computation.
func (s *ProductService) Filters(ctx context.Context) (dto.FiltersResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "Filters")

	if facets, ok := s.cache.GetFacets(ctx); ok {
		return dto.FiltersResponse(facets), nil
	}

	ch := s.facets.DoChan("facets", func() (interface{}, error) {
		// detached so one caller giving up does not fail the others
		detached, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.facetTimeout)
		defer cancel()

		facets, err := catalog.ListFacets(detached, s.store)
		if err != nil {
			if errors.Is(detached.Err(), context.DeadlineExceeded) {
				// the store is slow, not the caller gone
				return nil, fmt.Errorf("facets not computed within %s", s.facetTimeout)
			}
			return nil, err
		}
		s.cache.SetFacets(detached, facets)
		return facets, nil
	})

	select {
	case <-ctx.Done():
		return dto.FiltersResponse{}, s.storeError(ctx, "Filters request abandoned", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return dto.FiltersResponse{}, s.storeError(ctx, "Failed to list filters", res.Err)
		}
		return dto.FiltersResponse(res.Val.(catalog.Facets)), nil
	}
}

// InvalidateFilters drops cached facets after catalog changes
func (s *ProductService) InvalidateFilters(ctx context.Context) {
	s.cache.InvalidateFacets(ctx)
}

func (s *ProductService) storeError(ctx context.Context, msg string, err error) error {
	if ctxutil.IsCancellation(ctx, err) {
		logger.WarnWithContext(ctx, msg).
			String("reason", "cancelled").
			Err(err).
			Log()
		return apperrors.WrapError(apperrors.ErrRequestCancelled, err)
	}

	logger.ErrorWithContext(ctx, msg).
		Err(err).
		Log()
	return apperrors.WrapError(apperrors.ErrStoreUnavailable, err)
}
