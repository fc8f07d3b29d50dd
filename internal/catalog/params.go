package catalog

import (
	"strconv"
	"strings"
)

// Pagination bounds
const (
	DefaultPageNumber = 1
	DefaultPageSize   = 6
	MaxPageSize       = 50
)

// OrderBy selects the ordering applied by the sort stage
type OrderBy int

const (
	NameAscending OrderBy = iota
	PriceAscending
	PriceDescending
)

func (o OrderBy) String() string {
	switch o {
	case PriceAscending:
		return "price"
	case PriceDescending:
		return "priceDesc"
	default:
		return "name"
	}
}

// ParseOrderBy maps a wire value to an OrderBy. Unknown values yield NameAscending.
func ParseOrderBy(raw string) OrderBy {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "price", "priceascending":
		return PriceAscending
	case "pricedesc", "pricedescending":
		return PriceDescending
	default:
		return NameAscending
	}
}

// RawParams is the untrusted listing input as it arrives from the transport
type RawParams struct {
	PageNumber string
	PageSize   string
	OrderBy    string
	SearchTerm string
	Brands     []string
	Types      []string
}

// QueryParams is the normalized listing request. Values built by Normalize are
// always in range and are not modified afterwards.
type QueryParams struct {
	PageNumber int
	PageSize   int
	OrderBy    OrderBy
	SearchTerm string
	Brands     []string
	Types      []string
}

// Offset returns the number of records preceding the requested page
func (p QueryParams) Offset() int {
	return (p.PageNumber - 1) * p.PageSize
}

// DefaultParams returns the parameters used when a request carries nothing
func DefaultParams() QueryParams {
	return QueryParams{
		PageNumber: DefaultPageNumber,
		PageSize:   DefaultPageSize,
		OrderBy:    NameAscending,
	}
}

// Normalize turns raw input into in-range QueryParams. It never fails:
// malformed values fall back to defaults and numbers are clamped.
func Normalize(raw RawParams) QueryParams {
	p := DefaultParams()

	if n, ok := parseInt(raw.PageNumber); ok {
		p.PageNumber = n
	}
	if p.PageNumber < 1 {
		p.PageNumber = 1
	}
	// keeps Offset() from overflowing int on 32-bit platforms
	if p.PageNumber > maxPageNumber {
		p.PageNumber = maxPageNumber
	}

	if n, ok := parseInt(raw.PageSize); ok {
		p.PageSize = n
	}
	if p.PageSize < 1 {
		p.PageSize = 1
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}

	p.OrderBy = ParseOrderBy(raw.OrderBy)
	p.SearchTerm = strings.TrimSpace(raw.SearchTerm)
	p.Brands = normalizeSet(raw.Brands)
	p.Types = normalizeSet(raw.Types)

	return p
}

const maxPageNumber = (1<<31 - 1) / MaxPageSize

func parseInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		// out of range integers still carry a usable sign
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			if strings.HasPrefix(s, "-") {
				return -1, true
			}
			return 1<<31 - 1, true
		}
		return 0, false
	}
	if n > 1<<31-1 {
		return 1<<31 - 1, true
	}
	if n < -(1 << 31) {
		return -1, true
	}
	return int(n), true
}

// normalizeSet splits comma separated entries, lower-cases, trims and
// de-duplicates them while keeping first-seen order.
func normalizeSet(values []string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = Fold(strings.TrimSpace(part))
			if part == "" {
				continue
			}
			if _, ok := seen[part]; ok {
				continue
			}
			seen[part] = struct{}{}
			out = append(out, part)
		}
	}
	return out
}
