// Package listing implements the filter/sort pipeline shared by every
// listing page: free-text search, facet filters, range filters and a stable
// sort, applied to an in-memory slice without touching the input.
package listing

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// AllSentinel is the facet value meaning "no constraint on this facet".
const AllSentinel = "All"

// Direction is a sort direction.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// SortSpec names the field to sort on and the direction.
type SortSpec struct {
	Field     string    `json:"field"`
	Direction Direction `json:"direction"`
}

// Criteria maps a facet name to its selected values. A facet whose values are
// all empty or the sentinel is unconstrained.
type Criteria map[string][]string

// Range bounds a numeric field; both ends are inclusive and nil means open.
type Range struct {
	Min *int64 `json:"min,omitempty"`
	Max *int64 `json:"max,omitempty"`
}

// Query is the full set of pipeline inputs besides the records themselves.
type Query struct {
	Text   string           `json:"q"`
	Facets Criteria         `json:"facets,omitempty"`
	Ranges map[string]Range `json:"ranges,omitempty"`
	Sort   SortSpec         `json:"sort"`
}

// Apply returns the records of items that match q, sorted by q.Sort.
// The input slice is never modified. Facets, ranges and sort fields the
// schema does not declare are ignored; call Schema.Validate first to reject
// them instead.
func Apply[T any](items []T, schema Schema[T], q Query) []T {
	out := Filter(items, schema, q)
	Sort(out, schema, q.Sort)
	return out
}

// Filter returns a new slice holding the records that match the text query,
// every constrained facet and every range, in input order.
func Filter[T any](items []T, schema Schema[T], q Query) []T {
	needle := strings.ToLower(q.Text)
	facets := activeFacets(schema, q.Facets)

	out := make([]T, 0, len(items))
	for _, item := range items {
		if !matchesText(item, schema, needle) {
			continue
		}
		if !matchesFacets(item, facets) {
			continue
		}
		if !matchesRanges(item, schema, q.Ranges) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// Sort orders items in place by spec. Records with equal keys keep their
// relative order in both directions, and records missing the field always
// sort after those that have it.
func Sort[T any](items []T, schema Schema[T], spec SortSpec) {
	field, ok := schema.Sorts[spec.Field]
	if spec.Field == "" || !ok {
		return
	}
	desc := Direction(strings.ToLower(string(spec.Direction))) == Descending
	cmp := comparator(field)

	slices.SortStableFunc(items, func(a, b T) int {
		c, bothPresent := cmp(a, b)
		if bothPresent && desc {
			return -c
		}
		return c
	})
}

type facetFilter[T any] struct {
	get    func(T) string
	values []string
}

func activeFacets[T any](schema Schema[T], criteria Criteria) []facetFilter[T] {
	var filters []facetFilter[T]
	for name, selected := range criteria {
		get, ok := schema.Facets[name]
		if !ok {
			continue
		}
		var values []string
		for _, v := range selected {
			if v == "" || v == AllSentinel {
				continue
			}
			values = append(values, v)
		}
		if len(values) == 0 {
			continue
		}
		filters = append(filters, facetFilter[T]{get: get, values: values})
	}
	return filters
}

func matchesText[T any](item T, schema Schema[T], needle string) bool {
	if needle == "" {
		return true
	}
	for _, field := range schema.Search {
		if strings.Contains(strings.ToLower(field(item)), needle) {
			return true
		}
	}
	return false
}

func matchesFacets[T any](item T, facets []facetFilter[T]) bool {
	for _, f := range facets {
		if !slices.Contains(f.values, f.get(item)) {
			return false
		}
	}
	return true
}

func matchesRanges[T any](item T, schema Schema[T], ranges map[string]Range) bool {
	for name, r := range ranges {
		get, ok := schema.Ranges[name]
		if !ok {
			continue
		}
		v := get(item)
		if r.Min != nil && v < *r.Min {
			return false
		}
		if r.Max != nil && v > *r.Max {
			return false
		}
	}
	return true
}

// comparator returns a function comparing two records on field. The second
// result is true only when both records have a value; missing values compare
// greater than present ones regardless of direction.
func comparator[T any](field SortField[T]) func(a, b T) (int, bool) {
	switch field.Kind {
	case KindNumber:
		return func(a, b T) (int, bool) {
			va, okA := field.Number(a)
			vb, okB := field.Number(b)
			if c, done := compareMissing(okA, okB); done {
				return c, false
			}
			switch {
			case va < vb:
				return -1, true
			case va > vb:
				return 1, true
			}
			return 0, true
		}
	case KindTime:
		return func(a, b T) (int, bool) {
			va, okA := field.Time(a)
			vb, okB := field.Time(b)
			if c, done := compareMissing(okA, okB); done {
				return c, false
			}
			return va.Compare(vb), true
		}
	default:
		col := collate.New(language.English)
		return func(a, b T) (int, bool) {
			va, okA := field.String(a)
			vb, okB := field.String(b)
			if c, done := compareMissing(okA, okB); done {
				return c, false
			}
			return col.CompareString(va, vb), true
		}
	}
}

func compareMissing(okA, okB bool) (int, bool) {
	switch {
	case okA && okB:
		return 0, false
	case !okA && !okB:
		return 0, true
	case !okA:
		return 1, true
	default:
		return -1, true
	}
}
