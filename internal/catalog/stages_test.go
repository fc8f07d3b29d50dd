package catalog

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, coll Collection[item], q Query) []item {
	t.Helper()
	n, err := coll.Count(context.Background(), q)
	require.NoError(t, err)
	items, err := coll.Slice(context.Background(), q, 0, int(n)+1)
	require.NoError(t, err)
	return items
}

func TestFilter_EmptySetsAreIdentity(t *testing.T) {
	q := Filter(NewQuery(), QueryParams{})
	assert.Empty(t, q.Predicates())
}

func TestFilter_BrandCaseInsensitive(t *testing.T) {
	coll := newMemoryCollection(sampleItems(20)...)
	q := Filter(NewQuery(), Normalize(RawParams{Brands: []string{"Nike"}}))

	got := collect(t, coll, q)
	require.NotEmpty(t, got)
	for _, it := range got {
		assert.Equal(t, "nike", strings.ToLower(it.Brand))
	}

	all := collect(t, coll, Filter(NewQuery(), Normalize(RawParams{Brands: []string{}})))
	assert.Len(t, all, 20)
}

func TestFilter_AndAcrossDimensions(t *testing.T) {
	coll := newMemoryCollection(
		item{ID: 1, Name: "a", Brand: "Adidas", Type: "Boots"},
		item{ID: 2, Name: "b", Brand: "Adidas", Type: "Hats"},
		item{ID: 3, Name: "c", Brand: "Nike", Type: "Boots"},
		item{ID: 4, Name: "d", Brand: "adidas", Type: "BOOTS"},
	)
	q := Filter(NewQuery(), Normalize(RawParams{Brands: []string{"Adidas"}, Types: []string{"Boots"}}))

	got := collect(t, coll, q)
	ids := make([]int64, 0, len(got))
	for _, it := range got {
		ids = append(ids, it.ID)
	}
	assert.ElementsMatch(t, []int64{1, 4}, ids)
}

func TestFilter_OrWithinDimension(t *testing.T) {
	coll := newMemoryCollection(
		item{ID: 1, Brand: "Adidas"},
		item{ID: 2, Brand: "Nike"},
		item{ID: 3, Brand: "Puma"},
	)
	q := Filter(NewQuery(), Normalize(RawParams{Brands: []string{"adidas,nike"}}))
	assert.Len(t, collect(t, coll, q), 2)
}

func TestSearch(t *testing.T) {
	coll := newMemoryCollection(
		item{ID: 1, Name: "Blue Boot"},
		item{ID: 2, Name: "Red BOOTS"},
		item{ID: 3, Name: "Green hat"},
	)

	t.Run("substring ignoring case", func(t *testing.T) {
		got := collect(t, coll, Search(NewQuery(), Normalize(RawParams{SearchTerm: "boot"})))
		assert.Len(t, got, 2)
	})

	t.Run("empty term is a no-op", func(t *testing.T) {
		q := Search(NewQuery(), Normalize(RawParams{SearchTerm: ""}))
		assert.Empty(t, q.Predicates())
		assert.Len(t, collect(t, coll, q), 3)
	})

	t.Run("only the name participates", func(t *testing.T) {
		brandOnly := newMemoryCollection(item{ID: 1, Name: "Cap", Brand: "Boot Co"})
		got := collect(t, brandOnly, Search(NewQuery(), Normalize(RawParams{SearchTerm: "boot"})))
		assert.Empty(t, got)
	})
}

func TestSort_AlwaysEndsWithIDTieBreak(t *testing.T) {
	for _, o := range []OrderBy{NameAscending, PriceAscending, PriceDescending} {
		q := Sort(NewQuery(), QueryParams{OrderBy: o})
		ords := q.Orderings()
		require.Len(t, ords, 2)
		assert.Equal(t, Ordering{Field: FieldID}, ords[1], o.String())
	}
}

func TestSort_Orders(t *testing.T) {
	coll := newMemoryCollection(
		item{ID: 4, Name: "delta", Price: 300},
		item{ID: 2, Name: "bravo", Price: 100},
		item{ID: 3, Name: "alpha", Price: 100},
		item{ID: 1, Name: "charlie", Price: 500},
	)

	ids := func(items []item) []int64 {
		out := make([]int64, 0, len(items))
		for _, it := range items {
			out = append(out, it.ID)
		}
		return out
	}

	tests := []struct {
		orderBy OrderBy
		want    []int64
	}{
		{NameAscending, []int64{3, 2, 1, 4}},
		{PriceAscending, []int64{2, 3, 4, 1}},
		{PriceDescending, []int64{1, 4, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.orderBy.String(), func(t *testing.T) {
			got := collect(t, coll, Sort(NewQuery(), QueryParams{OrderBy: tt.orderBy}))
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestQuery_WhereDoesNotAlias(t *testing.T) {
	base := NewQuery().Where(Predicate{Field: FieldBrand, Op: OpInFold, Values: []string{"nike"}})
	a := base.Where(Predicate{Field: FieldType, Op: OpInFold, Values: []string{"boots"}})
	b := base.Where(Predicate{Field: FieldName, Op: OpContainsFold, Values: []string{"x"}})

	assert.Len(t, base.Predicates(), 1)
	assert.Equal(t, FieldType, a.Predicates()[1].Field)
	assert.Equal(t, FieldName, b.Predicates()[1].Field)
}
