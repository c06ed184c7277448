package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/project-shkedia/media-db-service/pkg/models"
	"github.com/project-shkedia/media-db-service/pkg/services"
)

// MediaHandler handles media HTTP requests.
type MediaHandler struct {
	mediaService services.MediaService
	logger       *zap.Logger
}

// NewMediaHandler creates a new media handler.
func NewMediaHandler(mediaService services.MediaService, logger *zap.Logger) *MediaHandler {
	return &MediaHandler{
		mediaService: mediaService,
		logger:       logger,
	}
}

// RegisterRoutes registers the media handler's routes on the given mux.
func (h *MediaHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("PUT /media", h.PutMedia)
	mux.HandleFunc("GET /media/search", h.SearchMedia)
	mux.HandleFunc("GET /media/{media_id}", h.GetMedia)
	mux.HandleFunc("POST /media", h.UpdateMedia)
}

// PutMedia handles PUT /media
func (h *MediaHandler) PutMedia(w http.ResponseWriter, r *http.Request) {
	var req models.MediaRequest
	if !decodeBody(w, r, &req, h.logger) {
		return
	}
	media, err := h.mediaService.PutMedia(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err, "Device was not found")
		return
	}
	writeOK(w, h.logger, media)
}

// GetMedia handles GET /media/{media_id}?response_type=
func (h *MediaHandler) GetMedia(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.viewKind(w, r)
	if !ok {
		return
	}
	media, err := h.mediaService.GetMedia(r.Context(), r.PathValue("media_id"), kind)
	if err != nil {
		writeError(w, h.logger, err, "Media was not found")
		return
	}
	writeOK(w, h.logger, media)
}

// SearchMedia handles GET /media/search
func (h *MediaHandler) SearchMedia(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.viewKind(w, r)
	if !ok {
		return
	}
	spec, page, ok := parseSearch(w, r, "media_name", h.logger)
	if !ok {
		return
	}
	result, err := h.mediaService.SearchMedia(r.Context(), kind, spec, page)
	if err != nil {
		writeError(w, h.logger, err, "Media was not found")
		return
	}
	writeOK(w, h.logger, result)
}

// UpdateMedia handles POST /media
func (h *MediaHandler) UpdateMedia(w http.ResponseWriter, r *http.Request) {
	var update models.MediaUpdate
	if !decodeBody(w, r, &update, h.logger) {
		return
	}
	if update.MediaID == "" {
		badRequest(w, h.logger, "invalid_request", "media_id is required")
		return
	}
	media, err := h.mediaService.UpdateMedia(r.Context(), update)
	if err != nil {
		writeError(w, h.logger, err, "Media was not found")
		return
	}
	writeOK(w, h.logger, media)
}

func (h *MediaHandler) viewKind(w http.ResponseWriter, r *http.Request) (models.MediaViewKind, bool) {
	kind, err := models.ParseMediaViewKind(r.URL.Query().Get("response_type"))
	if err != nil {
		badRequest(w, h.logger, "invalid_response_type", err.Error())
		return "", false
	}
	return kind, true
}
