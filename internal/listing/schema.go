package listing

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/softmatrices/forique-sub000/pkg/errors"
)

// Kind selects the comparator used when sorting on a field.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindTime
)

// SortField extracts a sortable value from a record. The boolean result is
// false when the record has no value for the field.
type SortField[T any] struct {
	Kind   Kind
	String func(T) (string, bool)
	Number func(T) (float64, bool)
	Time   func(T) (time.Time, bool)
}

// StringField sorts by a string accessor using locale collation. Empty
// strings count as missing.
func StringField[T any](fn func(T) string) SortField[T] {
	return SortField[T]{
		Kind: KindString,
		String: func(item T) (string, bool) {
			v := fn(item)
			return v, v != ""
		},
	}
}

// Int64Field sorts numerically by an int64 accessor. Every record has a value.
func Int64Field[T any](fn func(T) int64) SortField[T] {
	return SortField[T]{
		Kind: KindNumber,
		Number: func(item T) (float64, bool) {
			return float64(fn(item)), true
		},
	}
}

// OptionalNumberField sorts numerically by an accessor that may report a
// missing value.
func OptionalNumberField[T any](fn func(T) (float64, bool)) SortField[T] {
	return SortField[T]{Kind: KindNumber, Number: fn}
}

// TimeField sorts chronologically. Zero times count as missing.
func TimeField[T any](fn func(T) time.Time) SortField[T] {
	return SortField[T]{
		Kind: KindTime,
		Time: func(item T) (time.Time, bool) {
			v := fn(item)
			return v, !v.IsZero()
		},
	}
}

// Schema declares how a record type takes part in the pipeline: which string
// fields free-text search looks at, which fields can be used as equality
// facets or numeric range facets, and which fields can be sorted on.
type Schema[T any] struct {
	Name   string
	Search []func(T) string
	Facets map[string]func(T) string
	Ranges map[string]func(T) int64
	Sorts  map[string]SortField[T]
}

// FacetNames returns the declared facet names.
func (s Schema[T]) FacetNames() []string {
	names := make([]string, 0, len(s.Facets))
	for name := range s.Facets {
		names = append(names, name)
	}
	return names
}

// Validate checks that every facet, range and sort field named by q is
// declared by the schema.
func (s Schema[T]) Validate(q Query) error {
	for name := range q.Facets {
		if _, ok := s.Facets[name]; !ok {
			return apperrors.InvalidInput(fmt.Sprintf("unknown filter %q for %s", name, s.Name))
		}
	}
	for name, r := range q.Ranges {
		if _, ok := s.Ranges[name]; !ok {
			return apperrors.InvalidInput(fmt.Sprintf("unknown range filter %q for %s", name, s.Name))
		}
		if r.Min != nil && r.Max != nil && *r.Min > *r.Max {
			return apperrors.InvalidInput(fmt.Sprintf("range filter %q has min greater than max", name))
		}
	}
	if q.Sort.Field != "" {
		if _, ok := s.Sorts[q.Sort.Field]; !ok {
			return apperrors.InvalidInput(fmt.Sprintf("unknown sort field %q for %s", q.Sort.Field, s.Name))
		}
	}
	switch Direction(strings.ToLower(string(q.Sort.Direction))) {
	case "", Ascending, Descending:
	default:
		return apperrors.InvalidInput(fmt.Sprintf("invalid sort direction %q", q.Sort.Direction))
	}
	return nil
}
