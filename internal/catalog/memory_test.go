package catalog

import (
	"context"
	"slices"
	"sync"
)

type item struct {
	ID    int64
	Name  string
	Price int64
	Brand string
	Type  string
}

func (i item) RecordID() int64     { return i.ID }
func (i item) RecordName() string  { return i.Name }
func (i item) RecordPrice() int64  { return i.Price }
func (i item) RecordBrand() string { return i.Brand }
func (i item) RecordType() string  { return i.Type }

// memoryCollection evaluates queries with Query.Matches/Compare and records
// how often it was executed.
type memoryCollection struct {
	mu        sync.Mutex
	items     []item
	counts    int
	slices    int
	lastLimit int
	countErr  error
	sliceErr  error
}

func newMemoryCollection(items ...item) *memoryCollection {
	return &memoryCollection{items: items}
}

func (m *memoryCollection) Count(ctx context.Context, q Query) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts++
	if m.countErr != nil {
		return 0, m.countErr
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var n int64
	for _, it := range m.items {
		if q.Matches(it) {
			n++
		}
	}
	return n, nil
}

func (m *memoryCollection) Slice(ctx context.Context, q Query, offset, limit int) ([]item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slices++
	m.lastLimit = limit
	if m.sliceErr != nil {
		return nil, m.sliceErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var matched []item
	for _, it := range m.items {
		if q.Matches(it) {
			matched = append(matched, it)
		}
	}
	slices.SortStableFunc(matched, func(a, b item) int { return q.Compare(a, b) })
	if offset >= len(matched) {
		return nil, nil
	}
	end := min(offset+limit, len(matched))
	return matched[offset:end], nil
}

func (m *memoryCollection) Distinct(ctx context.Context, f Field) ([]string, error) {
	var out []string
	for _, it := range m.items {
		out = append(out, stringValue(f, it))
	}
	return out, nil
}

// snapshotCollection wraps a memoryCollection and records snapshot use
type snapshotCollection struct {
	*memoryCollection
	snapshots int
}

func (s *snapshotCollection) WithSnapshot(ctx context.Context, fn func(Collection[item]) error) error {
	s.snapshots++
	return fn(s.memoryCollection)
}

func sampleItems(n int) []item {
	brands := []string{"Nike", "Adidas", "Puma", "nike"}
	types := []string{"Boots", "Hats", "Gloves"}
	out := make([]item, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, item{
			ID:    int64(i),
			Name:  "Product " + string(rune('A'+(n-i)%26)),
			Price: int64(1000 + (i%5)*250),
			Brand: brands[i%len(brands)],
			Type:  types[i%len(types)],
		})
	}
	return out
}
