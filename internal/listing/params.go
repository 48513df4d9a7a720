package listing

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	apperrors "github.com/softmatrices/forique-sub000/pkg/errors"
	"github.com/softmatrices/forique-sub000/pkg/pagination"
)

// Reserved query parameters; every other parameter is read as a facet or a
// range bound.
const (
	ParamQuery     = "q"
	ParamSort      = "sort"
	ParamDirection = "dir"

	suffixMin = "_min"
	suffixMax = "_max"
)

// FromValues builds a Query from URL query parameters:
//
//	?q=pearl&status=Active&category=Rings&category=Earrings&price_min=1000&sort=price&dir=desc
//
// Repeated facet parameters select several values. Range bounds are read for
// the range names the schema declares. The result is validated against schema.
func FromValues[T any](values url.Values, schema Schema[T]) (Query, error) {
	q := Query{
		Text:   values.Get(ParamQuery),
		Facets: Criteria{},
		Ranges: map[string]Range{},
		Sort: SortSpec{
			Field:     values.Get(ParamSort),
			Direction: Direction(strings.ToLower(values.Get(ParamDirection))),
		},
	}
	if q.Sort.Direction == "" {
		q.Sort.Direction = Ascending
	}

	for key, vals := range values {
		switch key {
		case ParamQuery, ParamSort, ParamDirection, pagination.ParamPage, pagination.ParamPerPage:
			continue
		}

		if name, bound, ok := rangeKey(key); ok {
			if _, declared := schema.Ranges[name]; declared {
				v, err := strconv.ParseInt(vals[0], 10, 64)
				if err != nil {
					return Query{}, apperrors.InvalidInput(fmt.Sprintf("%s must be an integer", key))
				}
				r := q.Ranges[name]
				if bound == suffixMin {
					r.Min = &v
				} else {
					r.Max = &v
				}
				q.Ranges[name] = r
				continue
			}
		}

		q.Facets[key] = append(q.Facets[key], vals...)
	}

	if err := schema.Validate(q); err != nil {
		return Query{}, err
	}
	return q, nil
}

func rangeKey(key string) (name, bound string, ok bool) {
	for _, suffix := range []string{suffixMin, suffixMax} {
		if n, found := strings.CutSuffix(key, suffix); found && n != "" {
			return n, suffix, true
		}
	}
	return "", "", false
}

// Page returns the slice of items selected by p. A page past the end is empty.
func Page[T any](items []T, p pagination.Params) []T {
	start, end := p.Bounds(len(items))
	return items[start:end]
}
