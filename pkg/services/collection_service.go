package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/project-shkedia/media-db-service/pkg/crud"
	"github.com/project-shkedia/media-db-service/pkg/models"
	"github.com/project-shkedia/media-db-service/pkg/query"
	"github.com/project-shkedia/media-db-service/pkg/repositories"
	"github.com/project-shkedia/media-db-service/pkg/search"
)

// CollectionService groups media by the insight labels engines assigned to
// them. A collection is one (engine, label) pair.
type CollectionService interface {
	GetCollectionsMetadataByNames(ctx context.Context, names []string, field models.CollectionSearchField) ([]models.CollectionPreview, error)
	GetMediaByCollectionName(ctx context.Context, name string, page search.PageRequest) (search.PageResult[models.MediaThumbnail], error)
	ListCollections(ctx context.Context) ([]models.CollectionBasic, error)
	GetCollection(ctx context.Context, name string) ([]models.CollectionPreview, error)
}

type collectionService struct {
	engine *crud.Engine
	repo   repositories.CollectionRepository
	logger *zap.Logger
}

func NewCollectionService(engine *crud.Engine, repo repositories.CollectionRepository, logger *zap.Logger) CollectionService {
	return &collectionService{
		engine: engine,
		repo:   repo,
		logger: logger.Named("collection-service"),
	}
}

var _ CollectionService = (*collectionService)(nil)

// GetCollectionsMetadataByNames returns one preview per collection whose label
// (or engine name, per field) is in names, in first-seen order. Each preview
// lists its media oldest first and takes its thumbnail from the first one.
func (s *collectionService) GetCollectionsMetadataByNames(ctx context.Context, names []string, field models.CollectionSearchField) ([]models.CollectionPreview, error) {
	members, err := s.repo.ListMembers(ctx, names, field)
	if err != nil {
		s.logger.Error("Failed to read collections",
			zap.Strings("names", names),
			zap.String("field", string(field)),
			zap.Error(err))
		return nil, err
	}
	return groupCollections(members), nil
}

// GetMediaByCollectionName returns media labeled name by any engine, newest
// first.
func (s *collectionService) GetMediaByCollectionName(ctx context.Context, name string, page search.PageRequest) (search.PageResult[models.MediaThumbnail], error) {
	var labeled query.FilterSpec
	labeled.Add("name", name)

	spec := query.FilterSpec{OrderBy: "created_on", Descending: true}
	spec.Require(models.InsightEntity, "media_id", "media_id", labeled)

	return searchPage(ctx, s.engine, s.logger, models.MediaThumbnailView, spec, page)
}

func (s *collectionService) ListCollections(ctx context.Context) ([]models.CollectionBasic, error) {
	return s.repo.ListCollections(ctx)
}

// GetCollection returns the collections labeled name, one per engine.
func (s *collectionService) GetCollection(ctx context.Context, name string) ([]models.CollectionPreview, error) {
	return s.GetCollectionsMetadataByNames(ctx, []string{name}, models.CollectionByName)
}

func groupCollections(members []repositories.CollectionMember) []models.CollectionPreview {
	previews := []models.CollectionPreview{}
	index := make(map[models.CollectionBasic]int)
	for _, m := range members {
		key := models.CollectionBasic{Name: m.Name, EngineName: m.EngineName}
		i, ok := index[key]
		if !ok {
			i = len(previews)
			index[key] = i
			previews = append(previews, models.CollectionPreview{
				Name:             m.Name,
				EngineName:       m.EngineName,
				Thumbnail:        m.MediaThumbnail,
				ThumbnailMediaID: m.MediaID,
			})
		}
		previews[i].MediaList = append(previews[i].MediaList, m.MediaID)
	}
	return previews
}
