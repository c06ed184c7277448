package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/project-shkedia/media-db-service/pkg/schema"
)

type MediaType string

const (
	MediaImage MediaType = "IMAGE"
	MediaVideo MediaType = "VIDEO"
)

type MediaUploadStatus string

const (
	UploadPending  MediaUploadStatus = "PENDING"
	UploadUploaded MediaUploadStatus = "UPLOADED"
	UploadDeleted  MediaUploadStatus = "DELETED"
)

type MediaDeviceStatus string

const (
	OnDeviceExists  MediaDeviceStatus = "EXISTS"
	OnDeviceDeleted MediaDeviceStatus = "DELETED"
)

// MediaRequest is what a device submits for a new media item. The owner is
// taken from the device.
type MediaRequest struct {
	MediaName      string    `json:"media_name"`
	MediaThumbnail string    `json:"media_thumbnail"`
	MediaType      MediaType `json:"media_type"`
	MediaSizeBytes int64     `json:"media_size_bytes"`
	CreatedOn      time.Time `json:"created_on"`
	DeviceID       string    `json:"device_id"`
	DeviceMediaURI string    `json:"device_media_uri"`
}

// Media is the full stored media record.
type Media struct {
	MediaID             string            `json:"media_id"`
	MediaName           string            `json:"media_name"`
	MediaType           MediaType         `json:"media_type"`
	MediaSizeBytes      int64             `json:"media_size_bytes"`
	MediaDescription    *string           `json:"media_description,omitempty"`
	MediaWidth          *int              `json:"media_width,omitempty"`
	MediaHeight         *int              `json:"media_height,omitempty"`
	MediaThumbnail      *string           `json:"media_thumbnail,omitempty"`
	CreatedOn           time.Time         `json:"created_on"`
	UploadStatus        MediaUploadStatus `json:"upload_status"`
	DeviceID            string            `json:"device_id"`
	DeviceMediaURI      string            `json:"device_media_uri"`
	MediaStatusOnDevice MediaDeviceStatus `json:"media_status_on_device"`
	OwnerID             string            `json:"owner_id"`
	StorageServiceName  *string           `json:"storage_service_name,omitempty"`
	StorageBucketName   *string           `json:"storage_bucket_name,omitempty"`
	StorageMediaURI     *string           `json:"storage_media_uri,omitempty"`
	MediaKey            *string           `json:"media_key,omitempty"`
}

// NewMedia builds a pending media record owned by ownerID.
func NewMedia(req MediaRequest, ownerID string) Media {
	thumb := req.MediaThumbnail
	created := req.CreatedOn
	if created.IsZero() {
		created = time.Now()
	}
	return Media{
		MediaID:             uuid.NewString(),
		MediaName:           req.MediaName,
		MediaType:           req.MediaType,
		MediaSizeBytes:      req.MediaSizeBytes,
		MediaThumbnail:      &thumb,
		CreatedOn:           created.UTC(),
		UploadStatus:        UploadPending,
		DeviceID:            req.DeviceID,
		DeviceMediaURI:      req.DeviceMediaURI,
		MediaStatusOnDevice: OnDeviceExists,
		OwnerID:             ownerID,
	}
}

// MediaIDs is the narrowest media view.
type MediaIDs struct {
	MediaID string `json:"media_id"`
}

type MediaThumbnail struct {
	MediaID        string    `json:"media_id"`
	MediaThumbnail *string   `json:"media_thumbnail,omitempty"`
	CreatedOn      time.Time `json:"created_on"`
}

type MediaMetadata struct {
	MediaID             string            `json:"media_id"`
	MediaName           string            `json:"media_name"`
	MediaType           MediaType         `json:"media_type"`
	MediaSizeBytes      int64             `json:"media_size_bytes"`
	MediaWidth          *int              `json:"media_width,omitempty"`
	MediaHeight         *int              `json:"media_height,omitempty"`
	CreatedOn           time.Time         `json:"created_on"`
	UploadStatus        MediaUploadStatus `json:"upload_status"`
	DeviceID            string            `json:"device_id"`
	MediaStatusOnDevice MediaDeviceStatus `json:"media_status_on_device"`
}

type MediaStorage struct {
	MediaID            string            `json:"media_id"`
	UploadStatus       MediaUploadStatus `json:"upload_status"`
	StorageServiceName *string           `json:"storage_service_name,omitempty"`
	StorageBucketName  *string           `json:"storage_bucket_name,omitempty"`
	StorageMediaURI    *string           `json:"storage_media_uri,omitempty"`
	MediaKey           *string           `json:"media_key,omitempty"`
}

// MediaUpdate carries the mutable media fields. Nil members are left as they
// are.
type MediaUpdate struct {
	MediaID             string             `json:"media_id"`
	MediaName           *string            `json:"media_name,omitempty"`
	MediaDescription    *string            `json:"media_description,omitempty"`
	MediaWidth          *int               `json:"media_width,omitempty"`
	MediaHeight         *int               `json:"media_height,omitempty"`
	MediaThumbnail      *string            `json:"media_thumbnail,omitempty"`
	UploadStatus        *MediaUploadStatus `json:"upload_status,omitempty"`
	MediaStatusOnDevice *MediaDeviceStatus `json:"media_status_on_device,omitempty"`
	StorageServiceName  *string            `json:"storage_service_name,omitempty"`
	StorageBucketName   *string            `json:"storage_bucket_name,omitempty"`
	StorageMediaURI     *string            `json:"storage_media_uri,omitempty"`
	MediaKey            *string            `json:"media_key,omitempty"`
}

// MediaView is implemented only by the media view shapes of this package.
type MediaView interface {
	GetMediaID() string
	mediaView()
}

func (m Media) GetMediaID() string          { return m.MediaID }
func (m MediaIDs) GetMediaID() string       { return m.MediaID }
func (m MediaThumbnail) GetMediaID() string { return m.MediaID }
func (m MediaMetadata) GetMediaID() string  { return m.MediaID }
func (m MediaStorage) GetMediaID() string   { return m.MediaID }

func (Media) mediaView()          {}
func (MediaIDs) mediaView()       {}
func (MediaThumbnail) mediaView() {}
func (MediaMetadata) mediaView()  {}
func (MediaStorage) mediaView()   {}

// MediaViewKind names one of the media view shapes.
type MediaViewKind string

const (
	MediaViewIDs       MediaViewKind = "MediaIDs"
	MediaViewThumbnail MediaViewKind = "MediaThumbnail"
	MediaViewMetadata  MediaViewKind = "MediaMetadata"
	MediaViewStorage   MediaViewKind = "MediaStorage"
	MediaViewFull      MediaViewKind = "Media"
)

// ParseMediaViewKind accepts a view name; "" means the full view.
func ParseMediaViewKind(s string) (MediaViewKind, error) {
	switch k := MediaViewKind(s); k {
	case "":
		return MediaViewFull, nil
	case MediaViewIDs, MediaViewThumbnail, MediaViewMetadata, MediaViewStorage, MediaViewFull:
		return k, nil
	}
	return "", fmt.Errorf("unknown media view %q", s)
}

func mediaID[T any](get func(*T) *string) schema.Field[T] {
	return schema.Text("media_id", get)
}

var (
	MediaFullView = schema.MustView(Views, MediaEntity, string(MediaViewFull),
		mediaID(func(m *Media) *string { return &m.MediaID }),
		schema.Text("media_name", func(m *Media) *string { return &m.MediaName }),
		schema.Text("media_type", func(m *Media) *MediaType { return &m.MediaType }),
		schema.Int("media_size_bytes", func(m *Media) *int64 { return &m.MediaSizeBytes }),
		schema.OptText("media_description", func(m *Media) **string { return &m.MediaDescription }),
		schema.OptInt("media_width", func(m *Media) **int { return &m.MediaWidth }),
		schema.OptInt("media_height", func(m *Media) **int { return &m.MediaHeight }),
		schema.OptText("media_thumbnail", func(m *Media) **string { return &m.MediaThumbnail }),
		schema.Time("created_on", func(m *Media) *time.Time { return &m.CreatedOn }),
		schema.Text("upload_status", func(m *Media) *MediaUploadStatus { return &m.UploadStatus }).WithDefault(string(UploadPending)),
		schema.Text("device_id", func(m *Media) *string { return &m.DeviceID }),
		schema.Text("device_media_uri", func(m *Media) *string { return &m.DeviceMediaURI }),
		schema.Text("media_status_on_device", func(m *Media) *MediaDeviceStatus { return &m.MediaStatusOnDevice }).WithDefault(string(OnDeviceExists)),
		schema.Text("owner_id", func(m *Media) *string { return &m.OwnerID }),
		schema.OptText("storage_service_name", func(m *Media) **string { return &m.StorageServiceName }),
		schema.OptText("storage_bucket_name", func(m *Media) **string { return &m.StorageBucketName }),
		schema.OptText("storage_media_uri", func(m *Media) **string { return &m.StorageMediaURI }),
		schema.OptText("media_key", func(m *Media) **string { return &m.MediaKey }),
	)

	MediaIDsView = schema.MustView(Views, MediaEntity, string(MediaViewIDs),
		mediaID(func(m *MediaIDs) *string { return &m.MediaID }),
	)

	MediaThumbnailView = schema.MustView(Views, MediaEntity, string(MediaViewThumbnail),
		mediaID(func(m *MediaThumbnail) *string { return &m.MediaID }),
		schema.OptText("media_thumbnail", func(m *MediaThumbnail) **string { return &m.MediaThumbnail }),
		schema.Time("created_on", func(m *MediaThumbnail) *time.Time { return &m.CreatedOn }),
	)

	MediaMetadataView = schema.MustView(Views, MediaEntity, string(MediaViewMetadata),
		mediaID(func(m *MediaMetadata) *string { return &m.MediaID }),
		schema.Text("media_name", func(m *MediaMetadata) *string { return &m.MediaName }),
		schema.Text("media_type", func(m *MediaMetadata) *MediaType { return &m.MediaType }),
		schema.Int("media_size_bytes", func(m *MediaMetadata) *int64 { return &m.MediaSizeBytes }),
		schema.OptInt("media_width", func(m *MediaMetadata) **int { return &m.MediaWidth }),
		schema.OptInt("media_height", func(m *MediaMetadata) **int { return &m.MediaHeight }),
		schema.Time("created_on", func(m *MediaMetadata) *time.Time { return &m.CreatedOn }),
		schema.Text("upload_status", func(m *MediaMetadata) *MediaUploadStatus { return &m.UploadStatus }).WithDefault(string(UploadPending)),
		schema.Text("device_id", func(m *MediaMetadata) *string { return &m.DeviceID }),
		schema.Text("media_status_on_device", func(m *MediaMetadata) *MediaDeviceStatus { return &m.MediaStatusOnDevice }).WithDefault(string(OnDeviceExists)),
	)

	MediaStorageView = schema.MustView(Views, MediaEntity, string(MediaViewStorage),
		mediaID(func(m *MediaStorage) *string { return &m.MediaID }),
		schema.Text("upload_status", func(m *MediaStorage) *MediaUploadStatus { return &m.UploadStatus }).WithDefault(string(UploadPending)),
		schema.OptText("storage_service_name", func(m *MediaStorage) **string { return &m.StorageServiceName }),
		schema.OptText("storage_bucket_name", func(m *MediaStorage) **string { return &m.StorageBucketName }),
		schema.OptText("storage_media_uri", func(m *MediaStorage) **string { return &m.StorageMediaURI }),
		schema.OptText("media_key", func(m *MediaStorage) **string { return &m.MediaKey }),
	)

	MediaUpdateView = schema.MustView(Views, MediaEntity, "MediaUpdate",
		mediaID(func(m *MediaUpdate) *string { return &m.MediaID }),
		schema.OptText("media_name", func(m *MediaUpdate) **string { return &m.MediaName }),
		schema.OptText("media_description", func(m *MediaUpdate) **string { return &m.MediaDescription }),
		schema.OptInt("media_width", func(m *MediaUpdate) **int { return &m.MediaWidth }),
		schema.OptInt("media_height", func(m *MediaUpdate) **int { return &m.MediaHeight }),
		schema.OptText("media_thumbnail", func(m *MediaUpdate) **string { return &m.MediaThumbnail }),
		schema.OptText("upload_status", func(m *MediaUpdate) **MediaUploadStatus { return &m.UploadStatus }),
		schema.OptText("media_status_on_device", func(m *MediaUpdate) **MediaDeviceStatus { return &m.MediaStatusOnDevice }),
		schema.OptText("storage_service_name", func(m *MediaUpdate) **string { return &m.StorageServiceName }),
		schema.OptText("storage_bucket_name", func(m *MediaUpdate) **string { return &m.StorageBucketName }),
		schema.OptText("storage_media_uri", func(m *MediaUpdate) **string { return &m.StorageMediaURI }),
		schema.OptText("media_key", func(m *MediaUpdate) **string { return &m.MediaKey }),
	)
)
