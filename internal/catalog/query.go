package catalog

import (
	"cmp"
	"strings"
)

// Record is the capability set the pipeline needs from a listed entity
type Record interface {
	RecordID() int64
	RecordName() string
	RecordPrice() int64
	RecordBrand() string
	RecordType() string
}

// Field identifies a record attribute a query can constrain or order by
type Field int

const (
	FieldID Field = iota
	FieldName
	FieldPrice
	FieldBrand
	FieldType
)

func (f Field) String() string {
	switch f {
	case FieldID:
		return "id"
	case FieldName:
		return "name"
	case FieldPrice:
		return "price"
	case FieldBrand:
		return "brand"
	case FieldType:
		return "type"
	default:
		return "unknown"
	}
}

// Op is a predicate operator
type Op int

const (
	// OpInFold matches when the field equals one of Values, ignoring case
	OpInFold Op = iota
	// OpContainsFold matches when the field contains Values[0], ignoring case
	OpContainsFold
)

// Predicate narrows the candidate set. Values are lower-cased.
type Predicate struct {
	Field  Field
	Op     Op
	Values []string
}

// Ordering is one sort key
type Ordering struct {
	Field      Field
	Descending bool
}

// Query is an accumulated, unexecuted description of a listing: predicates
// are combined with AND, orderings are applied left to right.
type Query struct {
	predicates []Predicate
	orderings  []Ordering
}

// NewQuery returns an unconstrained, unordered query
func NewQuery() Query {
	return Query{}
}

// Where returns a copy of q with p appended
func (q Query) Where(p Predicate) Query {
	out := q.clone()
	p.Values = append([]string(nil), p.Values...)
	out.predicates = append(out.predicates, p)
	return out
}

// OrderBy returns a copy of q with o appended
func (q Query) OrderBy(o Ordering) Query {
	out := q.clone()
	out.orderings = append(out.orderings, o)
	return out
}

// Predicates returns a copy of the accumulated predicates
func (q Query) Predicates() []Predicate {
	out := make([]Predicate, len(q.predicates))
	copy(out, q.predicates)
	return out
}

// Orderings returns a copy of the accumulated orderings
func (q Query) Orderings() []Ordering {
	out := make([]Ordering, len(q.orderings))
	copy(out, q.orderings)
	return out
}

func (q Query) clone() Query {
	return Query{
		predicates: append([]Predicate(nil), q.predicates...),
		orderings:  append([]Ordering(nil), q.orderings...),
	}
}

// Matches reports whether r satisfies every predicate of q
func (q Query) Matches(r Record) bool {
	for _, p := range q.predicates {
		if !p.matches(r) {
			return false
		}
	}
	return true
}

// Compare orders a and b by the orderings of q. Ties on every key compare equal.
func (q Query) Compare(a, b Record) int {
	for _, o := range q.orderings {
		c := compareField(o.Field, a, b)
		if o.Descending {
			c = -c
		}
		if c != 0 {
			return c
		}
	}
	return 0
}

// Fold is the case folding shared by every case-insensitive comparison,
// in memory and in stored fold columns alike
func Fold(s string) string {
	return strings.ToLower(s)
}

func (p Predicate) matches(r Record) bool {
	v := Fold(stringValue(p.Field, r))
	switch p.Op {
	case OpInFold:
		for _, want := range p.Values {
			if v == want {
				return true
			}
		}
		return false
	case OpContainsFold:
		if len(p.Values) == 0 {
			return true
		}
		return strings.Contains(v, p.Values[0])
	default:
		return false
	}
}

func stringValue(f Field, r Record) string {
	switch f {
	case FieldName:
		return r.RecordName()
	case FieldBrand:
		return r.RecordBrand()
	case FieldType:
		return r.RecordType()
	default:
		return ""
	}
}

func compareField(f Field, a, b Record) int {
	switch f {
	case FieldID:
		return cmp.Compare(a.RecordID(), b.RecordID())
	case FieldPrice:
		return cmp.Compare(a.RecordPrice(), b.RecordPrice())
	default:
		return strings.Compare(stringValue(f, a), stringValue(f, b))
	}
}
