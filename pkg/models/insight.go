package models

import (
	"github.com/google/uuid"

	"github.com/project-shkedia/media-db-service/pkg/schema"
)

type InsightEngineStatus string

const (
	EngineActive   InsightEngineStatus = "ACTIVE"
	EngineInactive InsightEngineStatus = "INACTIVE"
)

type InsightStatus string

const (
	InsightPredicted InsightStatus = "PREDICTED"
	InsightApproved  InsightStatus = "APPROVED"
	InsightRejected  InsightStatus = "REJECTED"
)

type InsightEngineBasic struct {
	ID     string              `json:"id"`
	Name   string              `json:"name"`
	Status InsightEngineStatus `json:"status"`
}

type InsightEngine struct {
	ID                 string              `json:"id"`
	Name               string              `json:"name"`
	Status             InsightEngineStatus `json:"status"`
	Description        *string             `json:"description,omitempty"`
	InputSource        string              `json:"input_source"`
	InputQueueName     string              `json:"input_queue_name"`
	OutputExchangeName string              `json:"output_exchange_name"`
}

// InsightEngineValues lists the distinct insight names an engine produced.
type InsightEngineValues struct {
	ID       string              `json:"id"`
	Name     string              `json:"name"`
	Status   InsightEngineStatus `json:"status"`
	Insights []string            `json:"insights"`
}

// InsightEngineUpdate carries the mutable engine fields.
type InsightEngineUpdate struct {
	ID                 string               `json:"id"`
	Name               *string              `json:"name,omitempty"`
	Status             *InsightEngineStatus `json:"status,omitempty"`
	Description        *string              `json:"description,omitempty"`
	InputSource        *string              `json:"input_source,omitempty"`
	InputQueueName     *string              `json:"input_queue_name,omitempty"`
	OutputExchangeName *string              `json:"output_exchange_name,omitempty"`
}

type InsightBasic struct {
	ID              string        `json:"id"`
	InsightEngineID string        `json:"insight_engine_id"`
	MediaID         string        `json:"media_id"`
	Name            string        `json:"name"`
	Status          InsightStatus `json:"status"`
}

type Insight struct {
	ID              string        `json:"id"`
	InsightEngineID string        `json:"insight_engine_id"`
	MediaID         string        `json:"media_id"`
	Name            string        `json:"name"`
	Status          InsightStatus `json:"status"`
	BoundingBox     *string       `json:"bounding_box,omitempty"`
	Description     *string       `json:"description,omitempty"`
}

// InsightName is a single insight label.
type InsightName struct {
	Name string `json:"name"`
}

// NewInsightEngine builds an active engine with a generated id.
func NewInsightEngine(name, inputSource, inputQueue, outputExchange string) InsightEngine {
	return InsightEngine{
		ID:                 uuid.NewString(),
		Name:               name,
		Status:             EngineActive,
		InputSource:        inputSource,
		InputQueueName:     inputQueue,
		OutputExchangeName: outputExchange,
	}
}

// NewInsight builds a predicted insight with a generated id.
func NewInsight(engineID, mediaID, name string) Insight {
	return Insight{
		ID:              uuid.NewString(),
		InsightEngineID: engineID,
		MediaID:         mediaID,
		Name:            name,
		Status:          InsightPredicted,
	}
}

var (
	InsightEngineView = schema.MustView(Views, InsightEngineEntity, "InsightEngine",
		schema.Text("id", func(e *InsightEngine) *string { return &e.ID }),
		schema.Text("name", func(e *InsightEngine) *string { return &e.Name }),
		schema.Text("status", func(e *InsightEngine) *InsightEngineStatus { return &e.Status }).WithDefault(string(EngineActive)),
		schema.OptText("description", func(e *InsightEngine) **string { return &e.Description }),
		schema.Text("input_source", func(e *InsightEngine) *string { return &e.InputSource }),
		schema.Text("input_queue_name", func(e *InsightEngine) *string { return &e.InputQueueName }),
		schema.Text("output_exchange_name", func(e *InsightEngine) *string { return &e.OutputExchangeName }),
	)

	InsightEngineBasicView = schema.MustView(Views, InsightEngineEntity, "InsightEngineBasic",
		schema.Text("id", func(e *InsightEngineBasic) *string { return &e.ID }),
		schema.Text("name", func(e *InsightEngineBasic) *string { return &e.Name }),
		schema.Text("status", func(e *InsightEngineBasic) *InsightEngineStatus { return &e.Status }).WithDefault(string(EngineActive)),
	)

	InsightEngineValuesView = schema.MustView(Views, InsightEngineEntity, "InsightEngineValues",
		schema.Text("id", func(e *InsightEngineValues) *string { return &e.ID }),
		schema.Text("name", func(e *InsightEngineValues) *string { return &e.Name }),
		schema.Text("status", func(e *InsightEngineValues) *InsightEngineStatus { return &e.Status }).WithDefault(string(EngineActive)),
		schema.Derived[InsightEngineValues]("insights"),
	)

	InsightEngineUpdateView = schema.MustView(Views, InsightEngineEntity, "InsightEngineUpdate",
		schema.Text("id", func(e *InsightEngineUpdate) *string { return &e.ID }),
		schema.OptText("name", func(e *InsightEngineUpdate) **string { return &e.Name }),
		schema.OptText("status", func(e *InsightEngineUpdate) **InsightEngineStatus { return &e.Status }),
		schema.OptText("description", func(e *InsightEngineUpdate) **string { return &e.Description }),
		schema.OptText("input_source", func(e *InsightEngineUpdate) **string { return &e.InputSource }),
		schema.OptText("input_queue_name", func(e *InsightEngineUpdate) **string { return &e.InputQueueName }),
		schema.OptText("output_exchange_name", func(e *InsightEngineUpdate) **string { return &e.OutputExchangeName }),
	)

	InsightView = schema.MustView(Views, InsightEntity, "Insight",
		schema.Text("id", func(i *Insight) *string { return &i.ID }),
		schema.Text("insight_engine_id", func(i *Insight) *string { return &i.InsightEngineID }),
		schema.Text("media_id", func(i *Insight) *string { return &i.MediaID }),
		schema.Text("name", func(i *Insight) *string { return &i.Name }),
		schema.Text("status", func(i *Insight) *InsightStatus { return &i.Status }).WithDefault(string(InsightPredicted)),
		schema.OptText("bounding_box", func(i *Insight) **string { return &i.BoundingBox }),
		schema.OptText("description", func(i *Insight) **string { return &i.Description }),
	)

	InsightNameView = schema.MustView(Views, InsightEntity, "InsightName",
		schema.Text("name", func(i *InsightName) *string { return &i.Name }),
	)

	InsightBasicView = schema.MustView(Views, InsightEntity, "InsightBasic",
		schema.Text("id", func(i *InsightBasic) *string { return &i.ID }),
		schema.Text("insight_engine_id", func(i *InsightBasic) *string { return &i.InsightEngineID }),
		schema.Text("media_id", func(i *InsightBasic) *string { return &i.MediaID }),
		schema.Text("name", func(i *InsightBasic) *string { return &i.Name }),
		schema.Text("status", func(i *InsightBasic) *InsightStatus { return &i.Status }).WithDefault(string(InsightPredicted)),
	)
)
