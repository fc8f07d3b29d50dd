package catalog

// Filter constrains brand and type. Each non-empty set becomes one
// case-insensitive membership predicate; an empty set adds nothing.
func Filter(q Query, p QueryParams) Query {
	if len(p.Brands) > 0 {
		q = q.Where(Predicate{Field: FieldBrand, Op: OpInFold, Values: lowerAll(p.Brands)})
	}
	if len(p.Types) > 0 {
		q = q.Where(Predicate{Field: FieldType, Op: OpInFold, Values: lowerAll(p.Types)})
	}
	return q
}

// Search constrains the name to contain the search term
func Search(q Query, p QueryParams) Query {
	if p.SearchTerm == "" {
		return q
	}
	return q.Where(Predicate{Field: FieldName, Op: OpContainsFold, Values: lowerAll([]string{p.SearchTerm})})
}

// Sort applies the requested ordering followed by the id tie-break, which
// makes the order total.
func Sort(q Query, p QueryParams) Query {
	switch p.OrderBy {
	case PriceAscending:
		q = q.OrderBy(Ordering{Field: FieldPrice})
	case PriceDescending:
		q = q.OrderBy(Ordering{Field: FieldPrice, Descending: true})
	default:
		q = q.OrderBy(Ordering{Field: FieldName})
	}
	return q.OrderBy(Ordering{Field: FieldID})
}

// Compose runs the filter, search and sort stages over q
func Compose(q Query, p QueryParams) Query {
	return Sort(Search(Filter(q, p), p), p)
}

func lowerAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, Fold(v))
	}
	return out
}
