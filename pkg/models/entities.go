package models

import "github.com/project-shkedia/media-db-service/pkg/schema"

// Views records every view declared in this package.
var Views = schema.NewRegistry()

var (
	UserEntity = schema.NewEntity("user", "user_id",
		[]string{"user_id", "user_name", "created_on"})

	DeviceEntity = schema.NewEntity("device", "device_id",
		[]string{"device_id", "device_name", "owner_id", "created_on", "device_status"},
		schema.WithOwner("owner_id"),
		schema.WithForeignKey("owner_id", "user", "user_id"))

	MediaEntity = schema.NewEntity("media", "media_id",
		[]string{
			"media_id", "media_name", "media_type", "media_size_bytes", "media_description",
			"media_width", "media_height", "media_thumbnail", "created_on", "upload_status",
			"device_id", "device_media_uri", "media_status_on_device", "owner_id",
			"storage_service_name", "storage_bucket_name", "storage_media_uri", "media_key",
		},
		schema.WithOwner("owner_id"),
		schema.WithForeignKey("device_id", "device", "device_id"),
		schema.WithForeignKey("owner_id", "user", "user_id"))

	InsightEngineEntity = schema.NewEntity("insight_engine", "id",
		[]string{"id", "name", "description", "input_source", "input_queue_name", "output_exchange_name", "status"})

	InsightEntity = schema.NewEntity("insight", "id",
		[]string{"id", "insight_engine_id", "media_id", "name", "description", "bounding_box", "status"},
		schema.WithForeignKey("insight_engine_id", "insight_engine", "id"),
		schema.WithForeignKey("media_id", "media", "media_id"))

	InsightJobEntity = schema.NewEntity("insight_job", "id",
		[]string{"id", "insight_engine_id", "media_id", "status", "start_time", "end_time", "net_time_seconds"},
		schema.WithForeignKey("insight_engine_id", "insight_engine", "id"),
		schema.WithForeignKey("media_id", "media", "media_id"))
)
