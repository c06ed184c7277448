package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/project-shkedia/media-db-service/pkg/apperrors"
	"github.com/project-shkedia/media-db-service/pkg/crud"
	"github.com/project-shkedia/media-db-service/pkg/models"
	"github.com/project-shkedia/media-db-service/pkg/query"
	"github.com/project-shkedia/media-db-service/pkg/schema"
	"github.com/project-shkedia/media-db-service/pkg/search"
)

// MediaService stores media records and reads them through the media views.
type MediaService interface {
	PutMedia(ctx context.Context, req models.MediaRequest) (models.Media, error)
	GetMedia(ctx context.Context, mediaID string, kind models.MediaViewKind) (models.MediaView, error)
	SearchMedia(ctx context.Context, kind models.MediaViewKind, spec query.FilterSpec, page search.PageRequest) (search.PageResult[models.MediaView], error)
	UpdateMedia(ctx context.Context, update models.MediaUpdate) (models.Media, error)
}

type mediaService struct {
	engine *crud.Engine
	logger *zap.Logger
}

func NewMediaService(engine *crud.Engine, logger *zap.Logger) MediaService {
	return &mediaService{
		engine: engine,
		logger: logger.Named("media-service"),
	}
}

var _ MediaService = (*mediaService)(nil)

// PutMedia stores a new media item owned by the owner of its device.
func (s *mediaService) PutMedia(ctx context.Context, req models.MediaRequest) (models.Media, error) {
	var byDevice query.FilterSpec
	byDevice.Add("device_id", req.DeviceID)
	device, err := crud.SelectOne(ctx, s.engine, models.DeviceView, byDevice)
	if err != nil {
		return models.Media{}, fmt.Errorf("failed to find device %q: %w", req.DeviceID, err)
	}

	media := models.NewMedia(req, device.OwnerID)
	if err := crud.InsertRecords(ctx, s.engine, models.MediaFullView, []models.Media{media}); err != nil {
		s.logger.Error("Failed to create media",
			zap.String("device_id", req.DeviceID),
			zap.String("media_name", req.MediaName),
			zap.Error(err))
		return models.Media{}, fmt.Errorf("failed to create media: %w", err)
	}
	return media, nil
}

func (s *mediaService) GetMedia(ctx context.Context, mediaID string, kind models.MediaViewKind) (models.MediaView, error) {
	var spec query.FilterSpec
	spec.Add("media_id", mediaID)
	limit := 1
	spec.Limit = &limit

	rows, err := s.selectKind(ctx, kind, spec)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperrors.NotFound(models.MediaEntity.Name)
	}
	return rows[0], nil
}

// SearchMedia returns one page of media matching spec, projected through
// kind. Bounded pages also carry the total across all pages.
func (s *mediaService) SearchMedia(ctx context.Context, kind models.MediaViewKind, spec query.FilterSpec, page search.PageRequest) (search.PageResult[models.MediaView], error) {
	search.LogFindings(s.logger, search.Inspect(spec))

	spec = spec.Clone()
	page.Bound(&spec)
	rows, err := s.selectKind(ctx, kind, spec)
	if err != nil {
		return search.PageResult[models.MediaView]{}, err
	}

	result := search.FormatPage(rows, page.PageSize, page.PageNumber)
	if page.PageSize == nil {
		return result, nil
	}
	total, err := crud.Count(ctx, s.engine, models.MediaEntity, spec)
	if err != nil {
		return search.PageResult[models.MediaView]{}, err
	}
	return result.WithTotal(total), nil
}

// UpdateMedia applies the set fields of update and returns the full record.
func (s *mediaService) UpdateMedia(ctx context.Context, update models.MediaUpdate) (models.Media, error) {
	media, err := crud.Update(ctx, s.engine, update, models.MediaUpdateView, models.MediaFullView, "media_id")
	if err != nil {
		s.logger.Error("Failed to update media",
			zap.String("media_id", update.MediaID),
			zap.Error(err))
		return models.Media{}, err
	}
	return media, nil
}

func (s *mediaService) selectKind(ctx context.Context, kind models.MediaViewKind, spec query.FilterSpec) ([]models.MediaView, error) {
	switch kind {
	case models.MediaViewIDs:
		return selectMedia(ctx, s.engine, models.MediaIDsView, spec)
	case models.MediaViewThumbnail:
		return selectMedia(ctx, s.engine, models.MediaThumbnailView, spec)
	case models.MediaViewMetadata:
		return selectMedia(ctx, s.engine, models.MediaMetadataView, spec)
	case models.MediaViewStorage:
		return selectMedia(ctx, s.engine, models.MediaStorageView, spec)
	case models.MediaViewFull, "":
		return selectMedia(ctx, s.engine, models.MediaFullView, spec)
	}
	return nil, fmt.Errorf("unknown media view %q", kind)
}

func selectMedia[T models.MediaView](ctx context.Context, e *crud.Engine, view *schema.View[T], spec query.FilterSpec) ([]models.MediaView, error) {
	rows, err := crud.Select(ctx, e, view, spec)
	if err != nil {
		return nil, err
	}
	out := make([]models.MediaView, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	return out, nil
}
