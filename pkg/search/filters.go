// Package search maps request parameters onto filters and formats paged
// results.
package search

import (
	"net/url"
	"slices"

	"github.com/project-shkedia/media-db-service/pkg/query"
)

// Reserved request parameters that never become filters.
const (
	ParamResponseType = "response_type"
	ParamSearchField  = "search_field"
	ParamSearchValue  = "search_value"
	ParamPageSize     = "page_size"
	ParamPageNumber   = "page_number"
)

// DefaultDenylist holds the reserved parameters.
var DefaultDenylist = []string{ParamResponseType, ParamSearchField, ParamSearchValue, ParamPageSize, ParamPageNumber}

// Param is one name/value pair in request order.
type Param struct {
	Name  string
	Value string
}

// ParamsFromValues flattens url.Values into pairs, names sorted and values in
// their original order.
func ParamsFromValues(values url.Values) []Param {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	slices.Sort(names)

	var params []Param
	for _, name := range names {
		for _, v := range values[name] {
			params = append(params, Param{Name: name, Value: v})
		}
	}
	return params
}

// ExtractFilters builds a FilterSpec from params. Names in denylist are
// skipped; a repeated name accumulates values, so the result matches any of
// them.
func ExtractFilters(params []Param, denylist []string) query.FilterSpec {
	var spec query.FilterSpec
	for _, p := range params {
		if slices.Contains(denylist, p.Name) {
			continue
		}
		spec.Add(p.Name, p.Value)
	}
	return spec
}

// ExtractFilterValues is ExtractFilters over url.Values.
func ExtractFilterValues(values url.Values, denylist []string) query.FilterSpec {
	return ExtractFilters(ParamsFromValues(values), denylist)
}

// AddSearchValue adds the single search_field/search_value pair. An empty
// value adds nothing.
func AddSearchValue(spec *query.FilterSpec, field, value string) {
	if field == "" || value == "" {
		return
	}
	spec.Add(field, value)
}
