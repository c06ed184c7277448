package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/project-shkedia/media-db-service/pkg/crud"
	"github.com/project-shkedia/media-db-service/pkg/models"
	"github.com/project-shkedia/media-db-service/pkg/query"
)

// DeviceService registers and reads devices.
type DeviceService interface {
	RegisterDevice(ctx context.Context, req models.DeviceRequest) (models.Device, error)
	GetDevice(ctx context.Context, deviceID string) (models.Device, error)
	ListDevices(ctx context.Context) ([]models.Device, error)
}

type deviceService struct {
	engine *crud.Engine
	users  UserService
	logger *zap.Logger
}

func NewDeviceService(engine *crud.Engine, users UserService, logger *zap.Logger) DeviceService {
	return &deviceService{
		engine: engine,
		users:  users,
		logger: logger.Named("device-service"),
	}
}

var _ DeviceService = (*deviceService)(nil)

// RegisterDevice stores a device for the user named in req. The user must
// already exist.
func (s *deviceService) RegisterDevice(ctx context.Context, req models.DeviceRequest) (models.Device, error) {
	if req.DeviceName == "" {
		return models.Device{}, fmt.Errorf("device name is required")
	}

	owner, err := s.users.GetByName(ctx, req.OwnerName)
	if err != nil {
		return models.Device{}, fmt.Errorf("failed to find owner %q: %w", req.OwnerName, err)
	}

	device := models.NewDevice(req.DeviceName, owner.UserID)
	if err := crud.InsertRecords(ctx, s.engine, models.DeviceView, []models.Device{device}); err != nil {
		s.logger.Error("Failed to register device",
			zap.String("device_name", req.DeviceName),
			zap.String("owner_id", owner.UserID),
			zap.Error(err))
		return models.Device{}, fmt.Errorf("failed to register device: %w", err)
	}
	return device, nil
}

func (s *deviceService) GetDevice(ctx context.Context, deviceID string) (models.Device, error) {
	var spec query.FilterSpec
	spec.Add("device_id", deviceID)
	return crud.SelectOne(ctx, s.engine, models.DeviceView, spec)
}

func (s *deviceService) ListDevices(ctx context.Context) ([]models.Device, error) {
	return crud.SelectAll(ctx, s.engine, models.DeviceView)
}
