package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/project-shkedia/media-db-service/pkg/apperrors"
	"github.com/project-shkedia/media-db-service/pkg/auth"
	"github.com/project-shkedia/media-db-service/pkg/models"
	"github.com/project-shkedia/media-db-service/pkg/query"
	"github.com/project-shkedia/media-db-service/pkg/search"
)

func TestPutMedia_OwnerFromDevice(t *testing.T) {
	s := newTestServices(t)
	s.seedOwners(t)
	ctx := context.Background()

	media, err := s.media.PutMedia(ctx, models.MediaRequest{
		MediaName:      "IMG_9.jpg",
		MediaThumbnail: "thumb",
		MediaType:      models.MediaImage,
		MediaSizeBytes: 512,
		CreatedOn:      t0,
		DeviceID:       "d2",
		DeviceMediaURI: "/dcim/IMG_9.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, "u2", media.OwnerID)

	got, err := s.media.GetMedia(auth.WithOwnerID(ctx, "u2"), media.MediaID, models.MediaViewFull)
	require.NoError(t, err)
	full, ok := got.(models.Media)
	require.True(t, ok)
	assert.Equal(t, "IMG_9.jpg", full.MediaName)
	assert.Equal(t, models.UploadPending, full.UploadStatus)
}

func TestPutMedia_UnknownDevice(t *testing.T) {
	s := newTestServices(t)
	s.seedOwners(t)

	_, err := s.media.PutMedia(context.Background(), models.MediaRequest{MediaName: "x", DeviceID: "nope", CreatedOn: t0})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGetMedia_Views(t *testing.T) {
	s := newTestServices(t)
	s.seedOwners(t)
	ctx := context.Background()

	got, err := s.media.GetMedia(ctx, "m2", models.MediaViewIDs)
	require.NoError(t, err)
	assert.Equal(t, models.MediaIDs{MediaID: "m2"}, got)

	got, err = s.media.GetMedia(ctx, "m2", models.MediaViewThumbnail)
	require.NoError(t, err)
	thumb, ok := got.(models.MediaThumbnail)
	require.True(t, ok)
	require.NotNil(t, thumb.MediaThumbnail)
	assert.Equal(t, "thumb-m2", *thumb.MediaThumbnail)

	_, err = s.media.GetMedia(auth.WithOwnerID(ctx, "u2"), "m2", models.MediaViewIDs)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = s.media.GetMedia(ctx, "m2", models.MediaViewKind("Everything"))
	assert.Error(t, err)
}

func TestSearchMedia(t *testing.T) {
	s := newTestServices(t)
	s.seedOwners(t)
	ctx := context.Background()

	spec := search.ExtractFilters([]search.Param{
		{Name: "media_size_bytes", Value: "100"},
		{Name: "media_size_bytes", Value: "300"},
		{Name: "response_type", Value: "MediaIDs"},
	}, search.DefaultDenylist)
	search.AddSearchValue(&spec, "media_size_bytes", "400")

	all, err := s.media.SearchMedia(ctx, models.MediaViewIDs, spec, search.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 3, all.TotalResultsNumber)
	assert.Equal(t, 3, all.PageSize)
	assert.Equal(t, 0, all.PageNumber)
	assert.Nil(t, all.TotalCount)

	page, err := s.media.SearchMedia(ctx, models.MediaViewMetadata, spec, search.PageRequest{PageNumber: 1, PageSize: intPtr(2)})
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "m4", page.Results[0].GetMediaID())
	assert.IsType(t, models.MediaMetadata{}, page.Results[0])
	require.NotNil(t, page.TotalCount)
	assert.Equal(t, 3, *page.TotalCount)
}

func TestSearchMedia_UnknownField(t *testing.T) {
	s := newTestServices(t)

	var spec query.FilterSpec
	spec.Add("media_colour", "red")
	_, err := s.media.SearchMedia(context.Background(), models.MediaViewIDs, spec, search.PageRequest{})
	assert.ErrorIs(t, err, apperrors.ErrInvalidField)
}

func TestUpdateMedia(t *testing.T) {
	s := newTestServices(t)
	s.seedOwners(t)
	ctx := auth.WithOwnerID(context.Background(), "u1")

	uploaded := models.UploadUploaded
	uri := "s3://bucket/m1"
	media, err := s.media.UpdateMedia(ctx, models.MediaUpdate{
		MediaID:         "m1",
		UploadStatus:    &uploaded,
		StorageMediaURI: &uri,
	})
	require.NoError(t, err)
	assert.Equal(t, models.UploadUploaded, media.UploadStatus)
	require.NotNil(t, media.StorageMediaURI)
	assert.Equal(t, uri, *media.StorageMediaURI)
	assert.Equal(t, "m1.jpg", media.MediaName)

	_, err = s.media.UpdateMedia(auth.WithOwnerID(context.Background(), "u2"), models.MediaUpdate{MediaID: "m1", UploadStatus: &uploaded})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
