package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/project-shkedia/media-db-service/pkg/apperrors"
	"github.com/project-shkedia/media-db-service/pkg/crud"
	"github.com/project-shkedia/media-db-service/pkg/models"
	"github.com/project-shkedia/media-db-service/pkg/query"
	"github.com/project-shkedia/media-db-service/pkg/search"
)

// InsightService manages insight engines and the insights they produce.
type InsightService interface {
	PutEngines(ctx context.Context, engines []models.InsightEngine) ([]models.InsightEngineBasic, error)
	PutInsights(ctx context.Context, insights []models.Insight) ([]models.InsightBasic, error)
	GetEngine(ctx context.Context, engineID string) (models.InsightEngine, error)
	GetEngineValues(ctx context.Context, engineID string) (models.InsightEngineValues, error)
	ListEngines(ctx context.Context) ([]models.InsightEngineBasic, error)
	ListEngineValues(ctx context.Context) ([]models.InsightEngineValues, error)
	SearchEngines(ctx context.Context, spec query.FilterSpec, page search.PageRequest) (search.PageResult[models.InsightEngine], error)
	SearchInsights(ctx context.Context, spec query.FilterSpec, page search.PageRequest) (search.PageResult[models.Insight], error)
	UpdateEngine(ctx context.Context, update models.InsightEngineUpdate) (models.InsightEngineBasic, error)
}

type insightService struct {
	engine *crud.Engine
	logger *zap.Logger
}

func NewInsightService(engine *crud.Engine, logger *zap.Logger) InsightService {
	return &insightService{
		engine: engine,
		logger: logger.Named("insight-service"),
	}
}

var _ InsightService = (*insightService)(nil)

// PutEngines stores engines in one transaction. Missing ids are generated and
// a missing status defaults to active.
func (s *insightService) PutEngines(ctx context.Context, engines []models.InsightEngine) ([]models.InsightEngineBasic, error) {
	for i := range engines {
		if engines[i].ID == "" {
			engines[i].ID = uuid.NewString()
		}
		if engines[i].Status == "" {
			engines[i].Status = models.EngineActive
		}
	}
	if !crud.Insert(ctx, s.engine, models.InsightEngineView, engines) {
		return nil, fmt.Errorf("couldn't insert %d insight engines", len(engines))
	}

	basics := make([]models.InsightEngineBasic, len(engines))
	for i, e := range engines {
		basics[i] = models.InsightEngineBasic{ID: e.ID, Name: e.Name, Status: e.Status}
	}
	return basics, nil
}

// PutInsights stores insights in one transaction.
func (s *insightService) PutInsights(ctx context.Context, insights []models.Insight) ([]models.InsightBasic, error) {
	for i := range insights {
		if insights[i].ID == "" {
			insights[i].ID = uuid.NewString()
		}
		if insights[i].Status == "" {
			insights[i].Status = models.InsightPredicted
		}
	}
	if !crud.Insert(ctx, s.engine, models.InsightView, insights) {
		return nil, fmt.Errorf("couldn't insert %d insights", len(insights))
	}

	basics := make([]models.InsightBasic, len(insights))
	for i, in := range insights {
		basics[i] = models.InsightBasic{
			ID:              in.ID,
			InsightEngineID: in.InsightEngineID,
			MediaID:         in.MediaID,
			Name:            in.Name,
			Status:          in.Status,
		}
	}
	return basics, nil
}

func (s *insightService) GetEngine(ctx context.Context, engineID string) (models.InsightEngine, error) {
	var spec query.FilterSpec
	spec.Add("id", engineID)
	return crud.SelectOne(ctx, s.engine, models.InsightEngineView, spec)
}

// GetEngineValues returns the engine with the distinct names of its insights,
// in name order.
func (s *insightService) GetEngineValues(ctx context.Context, engineID string) (models.InsightEngineValues, error) {
	var spec query.FilterSpec
	spec.Add("id", engineID)
	engine, err := crud.SelectOne(ctx, s.engine, models.InsightEngineValuesView, spec)
	if err != nil {
		return models.InsightEngineValues{}, err
	}
	if err := s.fillInsightNames(ctx, &engine); err != nil {
		return models.InsightEngineValues{}, err
	}
	return engine, nil
}

// ListEngines returns every engine. No engines at all is reported as not
// found.
func (s *insightService) ListEngines(ctx context.Context) ([]models.InsightEngineBasic, error) {
	engines, err := crud.SelectAll(ctx, s.engine, models.InsightEngineBasicView)
	if err != nil {
		return nil, err
	}
	if len(engines) == 0 {
		return nil, apperrors.NotFound(models.InsightEngineEntity.Name)
	}
	return engines, nil
}

func (s *insightService) ListEngineValues(ctx context.Context) ([]models.InsightEngineValues, error) {
	engines, err := crud.SelectAll(ctx, s.engine, models.InsightEngineValuesView)
	if err != nil {
		return nil, err
	}
	if len(engines) == 0 {
		return nil, apperrors.NotFound(models.InsightEngineEntity.Name)
	}
	for i := range engines {
		if err := s.fillInsightNames(ctx, &engines[i]); err != nil {
			return nil, err
		}
	}
	return engines, nil
}

func (s *insightService) SearchEngines(ctx context.Context, spec query.FilterSpec, page search.PageRequest) (search.PageResult[models.InsightEngine], error) {
	return searchPage(ctx, s.engine, s.logger, models.InsightEngineView, spec, page)
}

func (s *insightService) SearchInsights(ctx context.Context, spec query.FilterSpec, page search.PageRequest) (search.PageResult[models.Insight], error) {
	return searchPage(ctx, s.engine, s.logger, models.InsightView, spec, page)
}

func (s *insightService) UpdateEngine(ctx context.Context, update models.InsightEngineUpdate) (models.InsightEngineBasic, error) {
	engine, err := crud.Update(ctx, s.engine, update, models.InsightEngineUpdateView, models.InsightEngineBasicView, "id")
	if err != nil {
		s.logger.Error("Failed to update insight engine",
			zap.String("engine_id", update.ID),
			zap.Error(err))
		return models.InsightEngineBasic{}, err
	}
	return engine, nil
}

func (s *insightService) fillInsightNames(ctx context.Context, engine *models.InsightEngineValues) error {
	spec := query.FilterSpec{Distinct: true, OrderBy: "name"}
	spec.Add("insight_engine_id", engine.ID)

	names, err := crud.Select(ctx, s.engine, models.InsightNameView, spec)
	if err != nil {
		return fmt.Errorf("failed to list insight names of engine %s: %w", engine.ID, err)
	}
	engine.Insights = make([]string, len(names))
	for i, n := range names {
		engine.Insights[i] = n.Name
	}
	return nil
}
