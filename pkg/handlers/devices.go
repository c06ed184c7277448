package handlers

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/project-shkedia/media-db-service/pkg/auth"
	"github.com/project-shkedia/media-db-service/pkg/models"
	"github.com/project-shkedia/media-db-service/pkg/services"
)

// DeviceHandler handles user and device registration requests.
type DeviceHandler struct {
	userService   services.UserService
	deviceService services.DeviceService
	logger        *zap.Logger
}

// NewDeviceHandler creates a new device handler.
func NewDeviceHandler(userService services.UserService, deviceService services.DeviceService, logger *zap.Logger) *DeviceHandler {
	return &DeviceHandler{
		userService:   userService,
		deviceService: deviceService,
		logger:        logger,
	}
}

// RegisterRoutes registers the device handler's routes on the given mux.
func (h *DeviceHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("PUT /user", h.PutUser)
	mux.HandleFunc("PUT /device", h.PutDevice)
	mux.HandleFunc("GET /devices", h.ListDevices)
	mux.HandleFunc("GET /device/{device_id}", h.GetDevice)
}

type putUserRequest struct {
	UserName string `json:"user_name"`
}

// PutUser handles PUT /user
func (h *DeviceHandler) PutUser(w http.ResponseWriter, r *http.Request) {
	var req putUserRequest
	if !decodeBody(w, r, &req, h.logger) {
		return
	}
	if strings.TrimSpace(req.UserName) == "" {
		badRequest(w, h.logger, "invalid_request", "user_name is required")
		return
	}
	user, err := h.userService.Create(r.Context(), req.UserName)
	if err != nil {
		writeError(w, h.logger, err, "")
		return
	}
	writeOK(w, h.logger, user)
}

// PutDevice handles PUT /device
func (h *DeviceHandler) PutDevice(w http.ResponseWriter, r *http.Request) {
	var req models.DeviceRequest
	if !decodeBody(w, r, &req, h.logger) {
		return
	}
	if req.DeviceName == "" {
		badRequest(w, h.logger, "invalid_request", "device_name is required")
		return
	}
	device, err := h.deviceService.RegisterDevice(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err, "Can't find user")
		return
	}
	writeOK(w, h.logger, device)
}

// GetDevice handles GET /device/{device_id}
func (h *DeviceHandler) GetDevice(w http.ResponseWriter, r *http.Request) {
	device, err := h.deviceService.GetDevice(r.Context(), r.PathValue("device_id"))
	if err != nil {
		writeError(w, h.logger, err, "Device was not found")
		return
	}
	writeOK(w, h.logger, device)
}

// ListDevices handles GET /devices. Only the caller's devices are listed.
func (h *DeviceHandler) ListDevices(w http.ResponseWriter, r *http.Request) {
	if _, err := auth.RequireOwnerID(r.Context()); err != nil {
		if err := ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Sign in to list devices"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	devices, err := h.deviceService.ListDevices(r.Context())
	if err != nil {
		writeError(w, h.logger, err, "")
		return
	}
	if devices == nil {
		devices = []models.Device{}
	}
	writeOK(w, h.logger, devices)
}
