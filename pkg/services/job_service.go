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

// JobUpdateError lists the jobs a batch update could not apply.
type JobUpdateError struct {
	Failed []string
}

func (e *JobUpdateError) Error() string {
	return fmt.Sprintf("couldn't update %d jobs", len(e.Failed))
}

// JobService tracks engine runs over media.
type JobService interface {
	PutJobs(ctx context.Context, jobs []models.InsightJob) ([]models.InsightJob, error)
	SearchJobs(ctx context.Context, spec query.FilterSpec, page search.PageRequest) (search.PageResult[models.InsightJob], error)
	ListJobsForEngine(ctx context.Context, engineName string, page search.PageRequest) (search.PageResult[models.InsightJob], error)
	ListMediaWithoutJobs(ctx context.Context, engineName string, page search.PageRequest, statuses ...models.MediaUploadStatus) (search.PageResult[models.MediaStorage], error)
	UpdateJobs(ctx context.Context, updates []models.InsightJobUpdate) ([]models.InsightJob, error)
}

type jobService struct {
	engine *crud.Engine
	logger *zap.Logger
}

func NewJobService(engine *crud.Engine, logger *zap.Logger) JobService {
	return &jobService{
		engine: engine,
		logger: logger.Named("job-service"),
	}
}

var _ JobService = (*jobService)(nil)

// PutJobs stores jobs in one transaction. Missing ids are generated and a
// missing status defaults to pending.
func (s *jobService) PutJobs(ctx context.Context, jobs []models.InsightJob) ([]models.InsightJob, error) {
	for i := range jobs {
		if jobs[i].ID == "" {
			jobs[i].ID = uuid.NewString()
		}
		if jobs[i].Status == "" {
			jobs[i].Status = models.JobPending
		}
	}
	if !crud.Insert(ctx, s.engine, models.InsightJobView, jobs) {
		return nil, fmt.Errorf("couldn't insert %d jobs", len(jobs))
	}
	return jobs, nil
}

func (s *jobService) SearchJobs(ctx context.Context, spec query.FilterSpec, page search.PageRequest) (search.PageResult[models.InsightJob], error) {
	return searchPage(ctx, s.engine, s.logger, models.InsightJobView, spec, page)
}

// ListJobsForEngine returns the jobs of every engine named engineName.
func (s *jobService) ListJobsForEngine(ctx context.Context, engineName string, page search.PageRequest) (search.PageResult[models.InsightJob], error) {
	engineIDs, err := s.engineIDs(ctx, engineName)
	if err != nil {
		return search.PageResult[models.InsightJob]{}, err
	}

	var spec query.FilterSpec
	spec.Add("insight_engine_id", engineIDs...)
	return searchPage(ctx, s.engine, s.logger, models.InsightJobView, spec, page)
}

// ListMediaWithoutJobs returns media that no engine named engineName has a
// job for, optionally restricted to the given upload statuses.
func (s *jobService) ListMediaWithoutJobs(ctx context.Context, engineName string, page search.PageRequest, statuses ...models.MediaUploadStatus) (search.PageResult[models.MediaStorage], error) {
	engineIDs, err := s.engineIDs(ctx, engineName)
	if err != nil {
		return search.PageResult[models.MediaStorage]{}, err
	}

	var jobs query.FilterSpec
	jobs.Add("insight_engine_id", engineIDs...)

	var spec query.FilterSpec
	if len(statuses) > 0 {
		query.AddStrings(&spec, "upload_status", statuses...)
	}
	spec.Exclude(models.InsightJobEntity, "media_id", "media_id", jobs)

	return searchPage(ctx, s.engine, s.logger, models.MediaStorageView, spec, page)
}

// UpdateJobs applies each update on its own. Updates that fail are skipped
// and reported together in a *JobUpdateError next to the jobs that were
// updated.
func (s *jobService) UpdateJobs(ctx context.Context, updates []models.InsightJobUpdate) ([]models.InsightJob, error) {
	var updated []models.InsightJob
	var failed []string
	for _, u := range updates {
		job, err := crud.Update(ctx, s.engine, u, models.InsightJobUpdateView, models.InsightJobView, "id")
		if err != nil {
			s.logger.Warn("Failed to update job",
				zap.String("job_id", u.ID),
				zap.Error(err))
			failed = append(failed, u.ID)
			continue
		}
		updated = append(updated, job)
	}

	if len(failed) > 0 {
		s.logger.Error("Failed to update jobs", zap.Strings("job_ids", failed))
		return updated, &JobUpdateError{Failed: failed}
	}
	return updated, nil
}

func (s *jobService) engineIDs(ctx context.Context, engineName string) ([]any, error) {
	var spec query.FilterSpec
	spec.Add("name", engineName)
	engines, err := crud.Select(ctx, s.engine, models.InsightEngineBasicView, spec)
	if err != nil {
		return nil, err
	}
	if len(engines) == 0 {
		return nil, apperrors.NotFound(models.InsightEngineEntity.Name)
	}

	ids := make([]any, len(engines))
	for i, e := range engines {
		ids[i] = e.ID
	}
	return ids, nil
}
