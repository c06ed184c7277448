package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/project-shkedia/media-db-service/pkg/models"
	"github.com/project-shkedia/media-db-service/pkg/services"
)

// Engine response shapes selectable with response_type.
const (
	engineResponseBasic  = "InsightEngineBasic"
	engineResponseFull   = "InsightEngine"
	engineResponseValues = "InsightEngineValues"
)

// InsightHandler handles insight engine and insight requests.
type InsightHandler struct {
	insightService services.InsightService
	logger         *zap.Logger
}

// NewInsightHandler creates a new insight handler.
func NewInsightHandler(insightService services.InsightService, logger *zap.Logger) *InsightHandler {
	return &InsightHandler{
		insightService: insightService,
		logger:         logger,
	}
}

// RegisterRoutes registers the insight handler's routes on the given mux.
func (h *InsightHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("PUT /insights-engines", h.PutEngines)
	mux.HandleFunc("GET /insights-engines", h.ListEngines)
	mux.HandleFunc("POST /insights-engines", h.UpdateEngine)
	mux.HandleFunc("GET /insights-engines/search", h.SearchEngines)
	mux.HandleFunc("GET /insights-engines/{engine_id}", h.GetEngine)
	mux.HandleFunc("PUT /insights", h.PutInsights)
	mux.HandleFunc("GET /insights/search", h.SearchInsights)
}

// PutEngines handles PUT /insights-engines
func (h *InsightHandler) PutEngines(w http.ResponseWriter, r *http.Request) {
	var engines []models.InsightEngine
	if !decodeBody(w, r, &engines, h.logger) {
		return
	}
	basics, err := h.insightService.PutEngines(r.Context(), engines)
	if err != nil {
		writeError(w, h.logger, err, "")
		return
	}
	writeOK(w, h.logger, basics)
}

// ListEngines handles GET /insights-engines?response_type=
func (h *InsightHandler) ListEngines(w http.ResponseWriter, r *http.Request) {
	var (
		result any
		err    error
	)
	switch r.URL.Query().Get("response_type") {
	case "", engineResponseBasic:
		result, err = h.insightService.ListEngines(r.Context())
	case engineResponseValues:
		result, err = h.insightService.ListEngineValues(r.Context())
	default:
		badRequest(w, h.logger, "invalid_response_type", "Unsupported response_type")
		return
	}
	if err != nil {
		writeError(w, h.logger, err, "Insight engine was not found")
		return
	}
	writeOK(w, h.logger, result)
}

// GetEngine handles GET /insights-engines/{engine_id}?response_type=
func (h *InsightHandler) GetEngine(w http.ResponseWriter, r *http.Request) {
	engineID := r.PathValue("engine_id")
	var (
		result any
		err    error
	)
	switch r.URL.Query().Get("response_type") {
	case "", engineResponseFull:
		result, err = h.insightService.GetEngine(r.Context(), engineID)
	case engineResponseBasic:
		var engine models.InsightEngine
		engine, err = h.insightService.GetEngine(r.Context(), engineID)
		result = models.InsightEngineBasic{ID: engine.ID, Name: engine.Name, Status: engine.Status}
	case engineResponseValues:
		result, err = h.insightService.GetEngineValues(r.Context(), engineID)
	default:
		badRequest(w, h.logger, "invalid_response_type", "Unsupported response_type")
		return
	}
	if err != nil {
		writeError(w, h.logger, err, "Insight engine was not found")
		return
	}
	writeOK(w, h.logger, result)
}

// SearchEngines handles GET /insights-engines/search
func (h *InsightHandler) SearchEngines(w http.ResponseWriter, r *http.Request) {
	spec, page, ok := parseSearch(w, r, "name", h.logger)
	if !ok {
		return
	}
	result, err := h.insightService.SearchEngines(r.Context(), spec, page)
	if err != nil {
		writeError(w, h.logger, err, "Engine was not found")
		return
	}
	writeOK(w, h.logger, result)
}

// UpdateEngine handles POST /insights-engines
func (h *InsightHandler) UpdateEngine(w http.ResponseWriter, r *http.Request) {
	var update models.InsightEngineUpdate
	if !decodeBody(w, r, &update, h.logger) {
		return
	}
	if update.ID == "" {
		badRequest(w, h.logger, "invalid_request", "id is required")
		return
	}
	basic, err := h.insightService.UpdateEngine(r.Context(), update)
	if err != nil {
		writeError(w, h.logger, err, "Insight engine was not found")
		return
	}
	writeOK(w, h.logger, basic)
}

// PutInsights handles PUT /insights
func (h *InsightHandler) PutInsights(w http.ResponseWriter, r *http.Request) {
	var insights []models.Insight
	if !decodeBody(w, r, &insights, h.logger) {
		return
	}
	basics, err := h.insightService.PutInsights(r.Context(), insights)
	if err != nil {
		writeError(w, h.logger, err, "")
		return
	}
	writeOK(w, h.logger, basics)
}

// SearchInsights handles GET /insights/search
func (h *InsightHandler) SearchInsights(w http.ResponseWriter, r *http.Request) {
	spec, page, ok := parseSearch(w, r, "name", h.logger)
	if !ok {
		return
	}
	result, err := h.insightService.SearchInsights(r.Context(), spec, page)
	if err != nil {
		writeError(w, h.logger, err, "Insight was not found")
		return
	}
	writeOK(w, h.logger, result)
}
