package pagination

import (
	"net/http"
	"net/url"
	"strconv"
)

// Query parameter names.
const (
	ParamPage    = "page"
	ParamPerPage = "per_page"
)

// Limits applied to client supplied values. Pages past MaxPage are clamped so
// the offset never overflows.
const (
	DefaultPerPage = 20
	MaxPerPage     = 100
	MaxPage        = 10000
)

// Params holds pagination parameters extracted from query strings.
type Params struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Offset  int `json:"-"`
}

// DefaultParams returns the first page at the default page size.
func DefaultParams() Params {
	return Params{Page: 1, PerPage: DefaultPerPage}
}

// FromRequest extracts pagination parameters from an HTTP request.
func FromRequest(r *http.Request) Params {
	return FromValues(r.URL.Query())
}

// FromValues reads page and per_page from values. Unparsable or out of range
// values fall back to the defaults; page is clamped to MaxPage.
func FromValues(values url.Values) Params {
	p := DefaultParams()

	if v, err := strconv.Atoi(values.Get(ParamPage)); err == nil && v > 0 {
		p.Page = min(v, MaxPage)
	}
	if v, err := strconv.Atoi(values.Get(ParamPerPage)); err == nil && v > 0 && v <= MaxPerPage {
		p.PerPage = v
	}

	p.Offset = (p.Page - 1) * p.PerPage
	return p
}

// Bounds returns the half-open index range [start, end) that p selects from a
// sequence of total elements. Both bounds are within [0, total].
func (p Params) Bounds(total int) (start, end int) {
	start = min(max(p.Offset, 0), total)
	if p.PerPage <= 0 {
		return start, start
	}
	end = start + min(p.PerPage, total-start)
	return start, end
}

// Result wraps a paginated response.
type Result[T any] struct {
	Data       []T  `json:"data"`
	TotalCount int  `json:"total_count"`
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// NewResult creates a paginated result.
func NewResult[T any](data []T, totalCount int, params Params) Result[T] {
	totalPages := 0
	if params.PerPage > 0 {
		totalPages = (totalCount + params.PerPage - 1) / params.PerPage
	}

	return Result[T]{
		Data:       data,
		TotalCount: totalCount,
		Page:       params.Page,
		PerPage:    params.PerPage,
		TotalPages: totalPages,
		HasNext:    params.Page < totalPages,
		HasPrev:    params.Page > 1,
	}
}
