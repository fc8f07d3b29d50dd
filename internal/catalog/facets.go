package catalog

import (
	"context"
	"fmt"
	"sort"
)

// FacetSource lists distinct stored values of a categorical field
type FacetSource interface {
	Distinct(ctx context.Context, f Field) ([]string, error)
}

// Facets holds the filter choices available across the whole collection
type Facets struct {
	Brands []string `json:"brands"`
	Types  []string `json:"types"`
}

// ListFacets returns the distinct brands and types of the unfiltered
// collection. Values keep their stored spelling and are sorted.
func ListFacets(ctx context.Context, src FacetSource) (Facets, error) {
	brands, err := distinct(ctx, src, FieldBrand)
	if err != nil {
		return Facets{}, err
	}

	types, err := distinct(ctx, src, FieldType)
	if err != nil {
		return Facets{}, err
	}

	return Facets{Brands: brands, Types: types}, nil
}

func distinct(ctx context.Context, src FacetSource, f Field) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	values, err := src.Distinct(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list distinct %s: %w", f, err)
	}

	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)

	return out, nil
}
