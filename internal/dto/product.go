package dto

import (
	"github.com/Payphone-Digital/catalog/internal/catalog"
	"github.com/Payphone-Digital/catalog/internal/model"
)

// ProductListQuery binds the listing query string. Numbers stay strings so
// that malformed values fall back to defaults instead of failing the bind.
type ProductListQuery struct {
	PageNumber string   `form:"pageNumber"`
	PageSize   string   `form:"pageSize"`
	OrderBy    string   `form:"orderBy"`
	SearchTerm string   `form:"searchTerm"`
	Brands     []string `form:"brands"`
	Types      []string `form:"types"`
}

func (q ProductListQuery) ToRawParams() catalog.RawParams {
	return catalog.RawParams{
		PageNumber: q.PageNumber,
		PageSize:   q.PageSize,
		OrderBy:    q.OrderBy,
		SearchTerm: q.SearchTerm,
		Brands:     q.Brands,
		Types:      q.Types,
	}
}

type ProductResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	Price           int64  `json:"price"`
	PictureURL      string `json:"pictureUrl"`
	Type            string `json:"type"`
	Brand           string `json:"brand"`
	QuantityInStock int    `json:"quantityInStock"`
}

func NewProductResponse(p model.Product) ProductResponse {
	return ProductResponse{
		ID:              p.ID,
		Name:            p.Name,
		Description:     p.Description,
		Price:           p.Price,
		PictureURL:      p.PictureURL,
		Type:            p.Type,
		Brand:           p.Brand,
		QuantityInStock: p.QuantityInStock,
	}
}

// PaginationHeader is the JSON carried in the Pagination response header
type PaginationHeader struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	PageSize    int   `json:"pageSize"`
	TotalCount  int64 `json:"totalCount"`
}

func NewPaginationHeader(md catalog.MetaData) PaginationHeader {
	return PaginationHeader(md)
}

// ProductPage is one listing page ready to be written out
type ProductPage struct {
	Items      []ProductResponse
	Pagination PaginationHeader
}

type FiltersResponse struct {
	Brands []string `json:"brands"`
	Types  []string `json:"types"`
}
