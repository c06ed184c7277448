package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/project-shkedia/media-db-service/pkg/query"
	"github.com/project-shkedia/media-db-service/pkg/search"
)

// parseSearch reads filters, the search_field/search_value pair and paging
// from the query string. defaultField is used when search_field is absent.
// On failure an error response has been written and ok is false.
func parseSearch(w http.ResponseWriter, r *http.Request, defaultField string, logger *zap.Logger) (query.FilterSpec, search.PageRequest, bool) {
	values := r.URL.Query()

	page, err := search.ParsePageRequest(values)
	if err != nil {
		badRequest(w, logger, "invalid_page", err.Error())
		return query.FilterSpec{}, search.PageRequest{}, false
	}

	spec := search.ExtractFilterValues(values, search.DefaultDenylist)
	field := values.Get(search.ParamSearchField)
	if field == "" {
		field = defaultField
	}
	search.AddSearchValue(&spec, field, values.Get(search.ParamSearchValue))
	return spec, page, true
}

// parsePage reads only the paging parameters.
func parsePage(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (search.PageRequest, bool) {
	page, err := search.ParsePageRequest(r.URL.Query())
	if err != nil {
		badRequest(w, logger, "invalid_page", err.Error())
		return search.PageRequest{}, false
	}
	return page, true
}

// decodeBody decodes the JSON request body into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v any, logger *zap.Logger) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		badRequest(w, logger, "invalid_request", "Invalid request body")
		return false
	}
	return true
}
