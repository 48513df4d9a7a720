package listing

// FacetCount is the number of records carrying one facet value.
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// FacetCounts tallies the values of facet over items, in order of first
// appearance. The sentinel is prepended with the total so filter dropdowns can
// render "All (n)". It reports false when the schema has no such facet.
func FacetCounts[T any](items []T, schema Schema[T], facet string) ([]FacetCount, bool) {
	get, ok := schema.Facets[facet]
	if !ok {
		return nil, false
	}

	index := make(map[string]int)
	counts := []FacetCount{{Value: AllSentinel, Count: len(items)}}
	for _, item := range items {
		v := get(item)
		if i, seen := index[v]; seen {
			counts[i].Count++
			continue
		}
		index[v] = len(counts)
		counts = append(counts, FacetCount{Value: v, Count: 1})
	}
	return counts, true
}

// MatchingFacetCounts tallies facet over the records of items that match q.
// The selection q holds for facet itself is ignored, so every alternative in
// the dropdown keeps its count while the other constraints narrow it.
func MatchingFacetCounts[T any](items []T, schema Schema[T], q Query, facet string) ([]FacetCount, bool) {
	if _, ok := schema.Facets[facet]; !ok {
		return nil, false
	}

	others := q
	others.Facets = make(Criteria, len(q.Facets))
	for name, values := range q.Facets {
		if name != facet {
			others.Facets[name] = values
		}
	}
	return FacetCounts(Filter(items, schema, others), schema, facet)
}
