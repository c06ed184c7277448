package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/project-shkedia/media-db-service/pkg/models"
	"github.com/project-shkedia/media-db-service/pkg/search"
	"github.com/project-shkedia/media-db-service/pkg/services"
)

// CollectionHandler handles collection requests.
type CollectionHandler struct {
	collectionService services.CollectionService
	logger            *zap.Logger
}

// NewCollectionHandler creates a new collection handler.
func NewCollectionHandler(collectionService services.CollectionService, logger *zap.Logger) *CollectionHandler {
	return &CollectionHandler{
		collectionService: collectionService,
		logger:            logger,
	}
}

// RegisterRoutes registers the collection handler's routes on the given mux.
func (h *CollectionHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /collections/all", h.ListCollections)
	mux.HandleFunc("GET /collections/search", h.SearchCollections)
	mux.HandleFunc("GET /collections/{collection_name}", h.GetCollection)
	mux.HandleFunc("GET /collections/{collection_name}/media", h.GetCollectionMedia)
}

// ListCollections handles GET /collections/all
func (h *CollectionHandler) ListCollections(w http.ResponseWriter, r *http.Request) {
	collections, err := h.collectionService.ListCollections(r.Context())
	if err != nil {
		writeError(w, h.logger, err, "")
		return
	}
	writeOK(w, h.logger, collections)
}

// collectionResponseList selects the ordered list form of a collection search.
const collectionResponseList = "CollectionList"

// SearchCollections handles GET /collections/search?search_field=&search_value=&response_type=
// Every search_value is a name to match. By default the response maps
// "<engine>_<label>" to the collection preview. response_type=CollectionList
// returns the previews as a list in label order instead. Two collections
// sharing a map key are reported as a conflict.
func (h *CollectionHandler) SearchCollections(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	field, err := models.ParseCollectionSearchField(values.Get(search.ParamSearchField))
	if err != nil {
		badRequest(w, h.logger, "invalid_search_field", err.Error())
		return
	}
	asList := false
	switch values.Get(search.ParamResponseType) {
	case "":
	case collectionResponseList:
		asList = true
	default:
		badRequest(w, h.logger, "invalid_response_type", "Unsupported response_type")
		return
	}

	previews, err := h.collectionService.GetCollectionsMetadataByNames(r.Context(), values[search.ParamSearchValue], field)
	if err != nil {
		writeError(w, h.logger, err, "")
		return
	}
	if asList {
		if previews == nil {
			previews = []models.CollectionPreview{}
		}
		writeOK(w, h.logger, previews)
		return
	}

	byKey := make(map[string]models.CollectionPreview, len(previews))
	for _, p := range previews {
		key := models.CollectionBasic{Name: p.Name, EngineName: p.EngineName}.Key()
		if prev, dup := byKey[key]; dup {
			h.logger.Warn("Collection key collision",
				zap.String("key", key),
				zap.String("engine_name", prev.EngineName),
				zap.String("other_engine_name", p.EngineName))
			if err := ErrorResponse(w, http.StatusConflict, "ambiguous_collection_key",
				"Collections share the key "+key+"; request response_type="+collectionResponseList); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		byKey[key] = p
	}
	writeOK(w, h.logger, byKey)
}

// GetCollection handles GET /collections/{collection_name}
func (h *CollectionHandler) GetCollection(w http.ResponseWriter, r *http.Request) {
	previews, err := h.collectionService.GetCollection(r.Context(), r.PathValue("collection_name"))
	if err != nil {
		writeError(w, h.logger, err, "")
		return
	}
	writeOK(w, h.logger, previews)
}

// GetCollectionMedia handles GET /collections/{collection_name}/media
func (h *CollectionHandler) GetCollectionMedia(w http.ResponseWriter, r *http.Request) {
	page, ok := parsePage(w, r, h.logger)
	if !ok {
		return
	}
	result, err := h.collectionService.GetMediaByCollectionName(r.Context(), r.PathValue("collection_name"), page)
	if err != nil {
		writeError(w, h.logger, err, "")
		return
	}
	writeOK(w, h.logger, result)
}
