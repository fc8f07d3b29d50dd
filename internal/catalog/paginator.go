package catalog

import (
	"context"
	"fmt"
)

// Collection is a queryable record set. Implementations push predicates,
// orderings and bounds down to the store and never load the whole set.
type Collection[T Record] interface {
	// Count returns the number of records matching q
	Count(ctx context.Context, q Query) (int64, error)
	// Slice returns at most limit records matching q, in q's order, after skipping offset
	Slice(ctx context.Context, q Query, offset, limit int) ([]T, error)
}

// Snapshotter is implemented by collections able to run several reads
// against one consistent snapshot.
type Snapshotter[T Record] interface {
	WithSnapshot(ctx context.Context, fn func(Collection[T]) error) error
}

// MetaData describes where a page sits in the full result set
type MetaData struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	PageSize    int   `json:"pageSize"`
	TotalCount  int64 `json:"totalCount"`
}

// PageResult is one page of records in sort order plus its metadata
type PageResult[T any] struct {
	Items    []T
	MetaData MetaData
}

// NewMetaData builds metadata for a page. CurrentPage is kept as requested
// even when it lies past the last page.
func NewMetaData(totalCount int64, pageNumber, pageSize int) MetaData {
	md := MetaData{
		CurrentPage: pageNumber,
		PageSize:    pageSize,
		TotalCount:  totalCount,
	}
	if totalCount > 0 && pageSize > 0 {
		md.TotalPages = int((totalCount + int64(pageSize) - 1) / int64(pageSize))
	}
	return md
}

// Paginate executes q against coll: one count, then one bounded slice when
// the requested page can hold any record.
func Paginate[T Record](ctx context.Context, coll Collection[T], q Query, p QueryParams) (PageResult[T], error) {
	var result PageResult[T]

	run := func(c Collection[T]) error {
		page, err := paginate(ctx, c, q, p)
		if err != nil {
			return err
		}
		result = page
		return nil
	}

	if s, ok := any(coll).(Snapshotter[T]); ok {
		if err := s.WithSnapshot(ctx, run); err != nil {
			return PageResult[T]{}, err
		}
		return result, nil
	}

	if err := run(coll); err != nil {
		return PageResult[T]{}, err
	}
	return result, nil
}

func paginate[T Record](ctx context.Context, coll Collection[T], q Query, p QueryParams) (PageResult[T], error) {
	if err := ctx.Err(); err != nil {
		return PageResult[T]{}, err
	}

	total, err := coll.Count(ctx, q)
	if err != nil {
		return PageResult[T]{}, fmt.Errorf("count records: %w", err)
	}

	result := PageResult[T]{
		Items:    []T{},
		MetaData: NewMetaData(total, p.PageNumber, p.PageSize),
	}

	offset := p.Offset()
	if int64(offset) >= total {
		return result, nil
	}

	if err := ctx.Err(); err != nil {
		return PageResult[T]{}, err
	}

	items, err := coll.Slice(ctx, q, offset, p.PageSize)
	if err != nil {
		return PageResult[T]{}, fmt.Errorf("fetch page: %w", err)
	}
	if len(items) > p.PageSize {
		items = items[:p.PageSize]
	}
	if items != nil {
		result.Items = items
	}

	return result, nil
}

// ListPage composes the filter, search and sort stages for p and paginates
// the result.
func ListPage[T Record](ctx context.Context, coll Collection[T], p QueryParams) (PageResult[T], error) {
	return Paginate(ctx, coll, Compose(NewQuery(), p), p)
}
