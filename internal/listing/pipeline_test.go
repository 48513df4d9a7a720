package listing

import (
	"net/url"
	"reflect"
	"strconv"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/softmatrices/forique-sub000/pkg/errors"
	"github.com/softmatrices/forique-sub000/pkg/pagination"
)

type row struct {
	ID       string
	Name     string
	Email    string
	Status   string
	Category string
	Price    int64
	Rating   float64
	HasRate  bool
	Joined   time.Time
}

var rowSchema = Schema[row]{
	Name: "rows",
	Search: []func(row) string{
		func(r row) string { return r.ID },
		func(r row) string { return r.Name },
		func(r row) string { return r.Email },
	},
	Facets: map[string]func(row) string{
		"status":   func(r row) string { return r.Status },
		"category": func(r row) string { return r.Category },
	},
	Ranges: map[string]func(row) int64{
		"price": func(r row) int64 { return r.Price },
	},
	Sorts: map[string]SortField[row]{
		"name":   StringField(func(r row) string { return r.Name }),
		"price":  Int64Field(func(r row) int64 { return r.Price }),
		"rating": OptionalNumberField(func(r row) (float64, bool) { return r.Rating, r.HasRate }),
		"joined": TimeField(func(r row) time.Time { return r.Joined }),
	},
}

func sixRows() []row {
	day := func(d int) time.Time { return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC) }
	return []row{
		{ID: "S1", Name: "Aurora Gems", Email: "hello@aurora.test", Status: "Active", Category: "Rings", Price: 2499, Joined: day(3)},
		{ID: "S2", Name: "brilliant Co", Email: "team@brilliant.test", Status: "Suspended", Category: "Necklaces", Price: 1899, Joined: day(1)},
		{ID: "S3", Name: "Celeste", Email: "c@celeste.test", Status: "Active", Category: "Rings", Price: 4599, Joined: day(2)},
		{ID: "S4", Name: "Diamond Den", Email: "dd@den.test", Status: "Active", Category: "Earrings", Price: 1899, Joined: day(5)},
		{ID: "S5", Name: "Emerald Isle", Email: "ei@isle.test", Status: "Pending", Category: "Rings", Price: 999},
		{ID: "S6", Name: "Facet & Co", Email: "f@facet.test", Status: "Active", Category: "Bracelets", Price: 2499, Joined: day(4)},
	}
}

func ids(rows []row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}

func i64(v int64) *int64 { return &v }

// ============================================================================
// Filtering
// ============================================================================

func TestApply_EmptyQueryMatchesEverything(t *testing.T) {
	got := Apply(sixRows(), rowSchema, Query{})
	assert.Equal(t, ids(sixRows()), ids(got))
}

func TestApply_TextSearchIsCaseInsensitiveAcrossFields(t *testing.T) {
	got := Apply(sixRows(), rowSchema, Query{Text: "DIAMOND"})
	assert.Equal(t, []string{"S4"}, ids(got))

	got = Apply(sixRows(), rowSchema, Query{Text: "isle.test"})
	assert.Equal(t, []string{"S5"}, ids(got))

	got = Apply(sixRows(), rowSchema, Query{Text: "s3"})
	assert.Equal(t, []string{"S3"}, ids(got))
}

func TestApply_TextSearchKeepsSpaces(t *testing.T) {
	got := Apply(sixRows(), rowSchema, Query{Text: " "})
	assert.Equal(t, []string{"S1", "S2", "S4", "S5", "S6"}, ids(got))

	got = Apply(sixRows(), rowSchema, Query{Text: " co"})
	assert.Equal(t, []string{"S2", "S6"}, ids(got))

	got = Apply(sixRows(), rowSchema, Query{Text: " diamond"})
	assert.Empty(t, got)
}

func TestApply_StatusFacetScenario(t *testing.T) {
	q := Query{Facets: Criteria{"status": {"Active"}}}

	first := Apply(sixRows(), rowSchema, q)
	second := Apply(sixRows(), rowSchema, q)

	require.Len(t, first, 4)
	assert.Equal(t, []string{"S1", "S3", "S4", "S6"}, ids(first))
	assert.Equal(t, ids(first), ids(second))
}

func TestApply_SentinelIsUnconstrained(t *testing.T) {
	got := Apply(sixRows(), rowSchema, Query{Facets: Criteria{"status": {AllSentinel}, "category": {""}}})
	assert.Len(t, got, 6)
}

func TestApply_MultiValueFacet(t *testing.T) {
	got := Apply(sixRows(), rowSchema, Query{Facets: Criteria{"category": {"Earrings", "Bracelets"}}})
	assert.Equal(t, []string{"S4", "S6"}, ids(got))
}

func TestApply_FacetsIntersect(t *testing.T) {
	got := Apply(sixRows(), rowSchema, Query{Facets: Criteria{"status": {"Active"}, "category": {"Rings"}}})
	assert.Equal(t, []string{"S1", "S3"}, ids(got))
}

func TestApply_RangeInclusive(t *testing.T) {
	got := Apply(sixRows(), rowSchema, Query{Ranges: map[string]Range{"price": {Min: i64(1899), Max: i64(2499)}}})
	assert.Equal(t, []string{"S1", "S2", "S4", "S6"}, ids(got))

	got = Apply(sixRows(), rowSchema, Query{Ranges: map[string]Range{"price": {Min: i64(4000)}}})
	assert.Equal(t, []string{"S3"}, ids(got))
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	in := sixRows()
	before := ids(in)

	_ = Apply(in, rowSchema, Query{Sort: SortSpec{Field: "price", Direction: Descending}})

	assert.Equal(t, before, ids(in))
}

// ============================================================================
// Sorting
// ============================================================================

func TestSort_PriceDescendingScenario(t *testing.T) {
	in := []row{{ID: "a", Price: 2499}, {ID: "b", Price: 1899}, {ID: "c", Price: 4599}}

	got := Apply(in, rowSchema, Query{Sort: SortSpec{Field: "price", Direction: Descending}})

	prices := []int64{got[0].Price, got[1].Price, got[2].Price}
	assert.Equal(t, []int64{4599, 2499, 1899}, prices)
}

func TestSort_StableBothDirections(t *testing.T) {
	asc := Apply(sixRows(), rowSchema, Query{Sort: SortSpec{Field: "price", Direction: Ascending}})
	assert.Equal(t, []string{"S5", "S2", "S4", "S1", "S6", "S3"}, ids(asc))

	desc := Apply(sixRows(), rowSchema, Query{Sort: SortSpec{Field: "price", Direction: Descending}})
	assert.Equal(t, []string{"S3", "S1", "S6", "S2", "S4", "S5"}, ids(desc))
}

func TestSort_StringsUseCollation(t *testing.T) {
	got := Apply(sixRows(), rowSchema, Query{Sort: SortSpec{Field: "name", Direction: Ascending}})
	// "brilliant Co" sorts between "Aurora" and "Celeste" despite its lowercase initial.
	assert.Equal(t, []string{"S1", "S2", "S3", "S4", "S5", "S6"}, ids(got))
}

func TestSort_MissingValuesSortLast(t *testing.T) {
	asc := Apply(sixRows(), rowSchema, Query{Sort: SortSpec{Field: "joined", Direction: Ascending}})
	assert.Equal(t, []string{"S2", "S3", "S1", "S6", "S4", "S5"}, ids(asc))

	desc := Apply(sixRows(), rowSchema, Query{Sort: SortSpec{Field: "joined", Direction: Descending}})
	assert.Equal(t, []string{"S4", "S6", "S1", "S3", "S2", "S5"}, ids(desc))
}

func TestSort_OptionalNumberMissingLast(t *testing.T) {
	in := []row{
		{ID: "a"},
		{ID: "b", Rating: 4.5, HasRate: true},
		{ID: "c"},
		{ID: "d", Rating: 3.9, HasRate: true},
	}

	desc := Apply(in, rowSchema, Query{Sort: SortSpec{Field: "rating", Direction: Descending}})
	assert.Equal(t, []string{"b", "d", "a", "c"}, ids(desc))

	asc := Apply(in, rowSchema, Query{Sort: SortSpec{Field: "rating", Direction: Ascending}})
	assert.Equal(t, []string{"d", "b", "a", "c"}, ids(asc))
}

func TestSort_UnknownFieldKeepsOrder(t *testing.T) {
	got := Apply(sixRows(), rowSchema, Query{Sort: SortSpec{Field: "nope"}})
	assert.Equal(t, ids(sixRows()), ids(got))
}

// ============================================================================
// Validation & parameters
// ============================================================================

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		query   Query
		wantErr bool
	}{
		{name: "empty", query: Query{}},
		{name: "known facet and sort", query: Query{Facets: Criteria{"status": {"Active"}}, Sort: SortSpec{Field: "price", Direction: Descending}}},
		{name: "unknown facet", query: Query{Facets: Criteria{"colour": {"red"}}}, wantErr: true},
		{name: "unknown sort", query: Query{Sort: SortSpec{Field: "weight"}}, wantErr: true},
		{name: "bad direction", query: Query{Sort: SortSpec{Field: "price", Direction: "sideways"}}, wantErr: true},
		{name: "unknown range", query: Query{Ranges: map[string]Range{"weight": {}}}, wantErr: true},
		{name: "inverted range", query: Query{Ranges: map[string]Range{"price": {Min: i64(10), Max: i64(1)}}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := rowSchema.Validate(tt.query)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestFromValues(t *testing.T) {
	values := url.Values{
		"q":         {"gem"},
		"status":    {"Active"},
		"category":  {"Rings", "Earrings"},
		"price_min": {"1000"},
		"price_max": {"3000"},
		"sort":      {"price"},
		"dir":       {"DESC"},
		"page":      {"2"},
	}

	q, err := FromValues(values, rowSchema)

	require.NoError(t, err)
	assert.Equal(t, "gem", q.Text)
	assert.Equal(t, []string{"Active"}, q.Facets["status"])
	assert.ElementsMatch(t, []string{"Rings", "Earrings"}, q.Facets["category"])
	require.NotNil(t, q.Ranges["price"].Min)
	assert.Equal(t, int64(1000), *q.Ranges["price"].Min)
	assert.Equal(t, int64(3000), *q.Ranges["price"].Max)
	assert.Equal(t, SortSpec{Field: "price", Direction: Descending}, q.Sort)
	assert.NotContains(t, q.Facets, "page")
}

func TestFromValues_DefaultsToAscending(t *testing.T) {
	q, err := FromValues(url.Values{"sort": {"name"}}, rowSchema)
	require.NoError(t, err)
	assert.Equal(t, Ascending, q.Sort.Direction)
}

func TestFromValues_Errors(t *testing.T) {
	_, err := FromValues(url.Values{"price_min": {"cheap"}}, rowSchema)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = FromValues(url.Values{"colour": {"red"}}, rowSchema)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestFacetCounts(t *testing.T) {
	counts, ok := FacetCounts(sixRows(), rowSchema, "status")

	require.True(t, ok)
	assert.Equal(t, []FacetCount{
		{Value: AllSentinel, Count: 6},
		{Value: "Active", Count: 4},
		{Value: "Suspended", Count: 1},
		{Value: "Pending", Count: 1},
	}, counts)

	_, ok = FacetCounts(sixRows(), rowSchema, "colour")
	assert.False(t, ok)
}

func TestMatchingFacetCounts(t *testing.T) {
	tests := []struct {
		name  string
		facet string
		query Query
		want  []FacetCount
	}{
		{
			name:  "other facet narrows the counts",
			facet: "status",
			query: Query{Facets: Criteria{"category": {"Rings"}}},
			want: []FacetCount{
				{Value: AllSentinel, Count: 3},
				{Value: "Active", Count: 2},
				{Value: "Pending", Count: 1},
			},
		},
		{
			name:  "own selection is ignored",
			facet: "status",
			query: Query{Facets: Criteria{"status": {"Active"}}},
			want: []FacetCount{
				{Value: AllSentinel, Count: 6},
				{Value: "Active", Count: 4},
				{Value: "Suspended", Count: 1},
				{Value: "Pending", Count: 1},
			},
		},
		{
			name:  "text and range apply",
			facet: "category",
			query: Query{Text: "co", Ranges: map[string]Range{"price": {Max: i64(2000)}}},
			want: []FacetCount{
				{Value: AllSentinel, Count: 1},
				{Value: "Necklaces", Count: 1},
			},
		},
		{
			name:  "no matches",
			facet: "category",
			query: Query{Text: "sapphire"},
			want:  []FacetCount{{Value: AllSentinel, Count: 0}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counts, ok := MatchingFacetCounts(sixRows(), rowSchema, tt.query, tt.facet)
			require.True(t, ok)
			assert.Equal(t, tt.want, counts)
		})
	}

	_, ok := MatchingFacetCounts(sixRows(), rowSchema, Query{}, "colour")
	assert.False(t, ok)
}

func TestPage(t *testing.T) {
	rows := sixRows()

	got := Page(rows, pagination.Params{Page: 2, PerPage: 4, Offset: 4})
	assert.Equal(t, []string{"S5", "S6"}, ids(got))

	got = Page(rows, pagination.Params{Page: 5, PerPage: 4, Offset: 16})
	assert.Empty(t, got)
}

func TestPage_OutOfRangePage(t *testing.T) {
	p := pagination.FromValues(url.Values{"page": {"4611686018427387904"}})
	assert.NotPanics(t, func() {
		assert.Empty(t, Page([]int{1, 2, 3}, p))
	})

	assert.Equal(t, []int{1, 2, 3}, Page([]int{1, 2, 3}, pagination.Params{Page: 1, PerPage: 20, Offset: -20}))
}

// ============================================================================
// Properties
// ============================================================================

func genRows() gopter.Gen {
	return gen.SliceOf(gen.Struct(reflect.TypeOf(row{}), map[string]gopter.Gen{
		"ID":       gen.Identifier(),
		"Status":   gen.OneConstOf("Active", "Pending", "Suspended"),
		"Category": gen.OneConstOf("Rings", "Necklaces", "Earrings"),
		"Price":    gen.Int64Range(0, 20),
	}))
}

func TestPipelineProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("facet filtering is idempotent", prop.ForAll(
		func(rows []row) bool {
			q := Query{Facets: Criteria{"status": {"Active"}}}
			once := Filter(rows, rowSchema, q)
			twice := Filter(once, rowSchema, q)
			return equalIDs(ids(once), ids(twice))
		},
		genRows(),
	))

	properties.Property("facet filtering is commutative", prop.ForAll(
		func(rows []row) bool {
			byStatus := Query{Facets: Criteria{"status": {"Active"}}}
			byCategory := Query{Facets: Criteria{"category": {"Rings"}}}
			a := Filter(Filter(rows, rowSchema, byStatus), rowSchema, byCategory)
			b := Filter(Filter(rows, rowSchema, byCategory), rowSchema, byStatus)
			return equalIDs(ids(a), ids(b))
		},
		genRows(),
	))

	properties.Property("sort is stable for equal keys in both directions", prop.ForAll(
		func(rows []row, desc bool) bool {
			for i := range rows {
				rows[i].ID = strconv.Itoa(i) + "-" + rows[i].ID
			}
			dir := Ascending
			if desc {
				dir = Descending
			}
			position := make(map[string]int, len(rows))
			for i, r := range rows {
				position[r.ID] = i
			}
			sorted := Apply(rows, rowSchema, Query{Sort: SortSpec{Field: "price", Direction: dir}})
			for i := 1; i < len(sorted); i++ {
				prev, cur := sorted[i-1], sorted[i]
				if prev.Price == cur.Price && position[prev.ID] > position[cur.ID] {
					return false
				}
				if !desc && prev.Price > cur.Price || desc && prev.Price < cur.Price {
					return false
				}
			}
			return len(sorted) == len(rows)
		},
		genRows(),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
