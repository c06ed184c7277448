package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/project-shkedia/media-db-service/pkg/schema"
)

type DeviceStatus string

const (
	DeviceActive      DeviceStatus = "ACTIVE"
	DeviceDeactivated DeviceStatus = "DEACTIVATED"
)

// DeviceRequest registers a device for an existing user.
type DeviceRequest struct {
	DeviceName string `json:"device_name"`
	OwnerName  string `json:"owner_name"`
}

type Device struct {
	DeviceID   string       `json:"device_id"`
	DeviceName string       `json:"device_name"`
	OwnerID    string       `json:"owner_id"`
	CreatedOn  time.Time    `json:"created_on"`
	Status     DeviceStatus `json:"status"`
}

// NewDevice fills the generated id, creation time and default status.
func NewDevice(name, ownerID string) Device {
	return Device{
		DeviceID:   uuid.NewString(),
		DeviceName: name,
		OwnerID:    ownerID,
		CreatedOn:  time.Now().UTC(),
		Status:     DeviceActive,
	}
}

var DeviceView = schema.MustView(Views, DeviceEntity, "Device",
	schema.Text("device_id", func(d *Device) *string { return &d.DeviceID }),
	schema.Text("device_name", func(d *Device) *string { return &d.DeviceName }),
	schema.Text("owner_id", func(d *Device) *string { return &d.OwnerID }),
	schema.Time("created_on", func(d *Device) *time.Time { return &d.CreatedOn }),
	schema.Text("device_status", func(d *Device) *DeviceStatus { return &d.Status }).WithDefault(string(DeviceActive)),
)
