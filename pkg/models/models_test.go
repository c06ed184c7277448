package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntities_TableNames(t *testing.T) {
	assert.Equal(t, "users", UserEntity.Table)
	assert.Equal(t, "devices", DeviceEntity.Table)
	assert.Equal(t, "media", MediaEntity.Table)
	assert.Equal(t, "insight_engines", InsightEngineEntity.Table)
	assert.Equal(t, "insights", InsightEntity.Table)
	assert.Equal(t, "insight_jobs", InsightJobEntity.Table)
}

func TestViews_Registered(t *testing.T) {
	assert.Equal(t,
		[]string{"Media", "MediaIDs", "MediaMetadata", "MediaStorage", "MediaThumbnail", "MediaUpdate"},
		Views.Views("media"))

	cols, ok := Views.Columns("media", "MediaIDs")
	require.True(t, ok)
	assert.Equal(t, []string{"media_id"}, cols)

	assert.Equal(t, MediaEntity.Columns, MediaFullView.Columns(), "full view projects every column")
	assert.Equal(t, []string{"insights"}, InsightEngineValuesView.DerivedFields())
	assert.NotContains(t, InsightEngineValuesView.Columns(), "insights")
}

func TestParseMediaViewKind(t *testing.T) {
	k, err := ParseMediaViewKind("")
	require.NoError(t, err)
	assert.Equal(t, MediaViewFull, k)

	k, err = ParseMediaViewKind("MediaThumbnail")
	require.NoError(t, err)
	assert.Equal(t, MediaViewThumbnail, k)

	_, err = ParseMediaViewKind("MediaEverything")
	assert.Error(t, err)
}

func TestNewMedia(t *testing.T) {
	created := time.Date(2024, 5, 1, 8, 0, 0, 0, time.FixedZone("IDT", 3*3600))
	m := NewMedia(MediaRequest{
		MediaName:      "IMG_0001.jpg",
		MediaThumbnail: "thumb-bytes",
		MediaType:      MediaImage,
		MediaSizeBytes: 2048,
		CreatedOn:      created,
		DeviceID:       "d1",
		DeviceMediaURI: "/dcim/IMG_0001.jpg",
	}, "u1")

	assert.NotEmpty(t, m.MediaID)
	assert.Equal(t, "u1", m.OwnerID)
	assert.Equal(t, UploadPending, m.UploadStatus)
	assert.Equal(t, OnDeviceExists, m.MediaStatusOnDevice)
	require.NotNil(t, m.MediaThumbnail)
	assert.Equal(t, "thumb-bytes", *m.MediaThumbnail)
	assert.True(t, created.Equal(m.CreatedOn))
	assert.Equal(t, time.UTC, m.CreatedOn.Location())
}

func TestCollectionSearchField(t *testing.T) {
	f, err := ParseCollectionSearchField("ENGINE_NAME")
	require.NoError(t, err)
	assert.Equal(t, CollectionByEngine, f)

	f, err = ParseCollectionSearchField("")
	require.NoError(t, err)
	assert.Equal(t, CollectionByName, f)

	_, err = ParseCollectionSearchField("LABEL")
	assert.Error(t, err)

	assert.Equal(t, "E1_cat", CollectionBasic{Name: "cat", EngineName: "E1"}.Key())
}
