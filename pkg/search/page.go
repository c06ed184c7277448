package search

import (
	"fmt"
	"math"
	"net/url"
	"strconv"

	"github.com/project-shkedia/media-db-service/pkg/query"
)

const (
	// MaxPageSize bounds page_size.
	MaxPageSize = 10000
	// MaxOffset bounds page_number * page_size so the offset fits a 32-bit
	// integer on every store.
	MaxOffset = math.MaxInt32
)

// PageRequest asks for one page. A nil PageSize means everything.
type PageRequest struct {
	PageNumber int
	PageSize   *int
}

// ParsePageRequest reads page_number and page_size from values.
func ParsePageRequest(values url.Values) (PageRequest, error) {
	var req PageRequest
	if s := values.Get(ParamPageNumber); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return req, fmt.Errorf("invalid %s %q", ParamPageNumber, s)
		}
		req.PageNumber = n
	}
	if s := values.Get(ParamPageSize); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return req, fmt.Errorf("invalid %s %q", ParamPageSize, s)
		}
		if n > MaxPageSize {
			return req, fmt.Errorf("%s %d exceeds %d", ParamPageSize, n, MaxPageSize)
		}
		if n > 0 && req.PageNumber > MaxOffset/n {
			return req, fmt.Errorf("%s %d is past the last reachable page", ParamPageNumber, req.PageNumber)
		}
		req.PageSize = &n
	}
	return req, nil
}

// Bound applies the page as query-level limit and offset. Without a page size
// the filter is left unbounded.
func (p PageRequest) Bound(spec *query.FilterSpec) {
	if p.PageSize == nil {
		return
	}
	spec.Page(*p.PageSize, p.PageNumber**p.PageSize)
}

// PageResult is one formatted page. TotalResultsNumber counts the rows in
// Results; TotalCount, when set, is the number of rows across all pages.
type PageResult[T any] struct {
	TotalResultsNumber int  `json:"total_results_number"`
	Results            []T  `json:"results"`
	PageNumber         int  `json:"page_number"`
	PageSize           int  `json:"page_size"`
	TotalCount         *int `json:"total_count,omitempty"`
}

// FormatPage wraps results. Without a page size every result is returned as
// page 0 whose size is the result count. With a page size the given page
// number and size are attached to results as they are.
func FormatPage[T any](results []T, pageSize *int, pageNumber int) PageResult[T] {
	if results == nil {
		results = []T{}
	}
	if pageSize == nil {
		return PageResult[T]{
			TotalResultsNumber: len(results),
			Results:            results,
			PageNumber:         0,
			PageSize:           len(results),
		}
	}
	return PageResult[T]{
		TotalResultsNumber: len(results),
		Results:            results,
		PageNumber:         pageNumber,
		PageSize:           *pageSize,
	}
}

// WithTotal sets the count across all pages.
func (r PageResult[T]) WithTotal(total int) PageResult[T] {
	r.TotalCount = &total
	return r
}
