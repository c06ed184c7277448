package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/project-shkedia/media-db-service/pkg/schema"
)

type InsightJobStatus string

const (
	JobPending  InsightJobStatus = "PENDING"
	JobDone     InsightJobStatus = "DONE"
	JobCanceled InsightJobStatus = "CANCELED"
	JobFailed   InsightJobStatus = "FAILED"
)

// InsightJob records one engine run over one media item.
type InsightJob struct {
	ID              string           `json:"id"`
	InsightEngineID string           `json:"insight_engine_id"`
	MediaID         string           `json:"media_id"`
	Status          InsightJobStatus `json:"status"`
	StartTime       time.Time        `json:"start_time"`
	EndTime         *time.Time       `json:"end_time,omitempty"`
	NetTimeSeconds  *int             `json:"net_time_seconds,omitempty"`
}

// InsightJobUpdate carries the fields a worker reports back.
type InsightJobUpdate struct {
	ID             string            `json:"id"`
	Status         *InsightJobStatus `json:"status,omitempty"`
	EndTime        *time.Time        `json:"end_time,omitempty"`
	NetTimeSeconds *int              `json:"net_time_seconds,omitempty"`
}

// NewInsightJob builds a pending job started now.
func NewInsightJob(engineID, mediaID string) InsightJob {
	return InsightJob{
		ID:              uuid.NewString(),
		InsightEngineID: engineID,
		MediaID:         mediaID,
		Status:          JobPending,
		StartTime:       time.Now().UTC(),
	}
}

var (
	InsightJobView = schema.MustView(Views, InsightJobEntity, "InsightJob",
		schema.Text("id", func(j *InsightJob) *string { return &j.ID }),
		schema.Text("insight_engine_id", func(j *InsightJob) *string { return &j.InsightEngineID }),
		schema.Text("media_id", func(j *InsightJob) *string { return &j.MediaID }),
		schema.Text("status", func(j *InsightJob) *InsightJobStatus { return &j.Status }).WithDefault(string(JobPending)),
		schema.Time("start_time", func(j *InsightJob) *time.Time { return &j.StartTime }),
		schema.OptTime("end_time", func(j *InsightJob) **time.Time { return &j.EndTime }),
		schema.OptInt("net_time_seconds", func(j *InsightJob) **int { return &j.NetTimeSeconds }),
	)

	InsightJobUpdateView = schema.MustView(Views, InsightJobEntity, "InsightJobUpdate",
		schema.Text("id", func(j *InsightJobUpdate) *string { return &j.ID }),
		schema.OptText("status", func(j *InsightJobUpdate) **InsightJobStatus { return &j.Status }),
		schema.OptTime("end_time", func(j *InsightJobUpdate) **time.Time { return &j.EndTime }),
		schema.OptInt("net_time_seconds", func(j *InsightJobUpdate) **int { return &j.NetTimeSeconds }),
	)
)
