package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/project-shkedia/media-db-service/pkg/crud"
	"github.com/project-shkedia/media-db-service/pkg/models"
	"github.com/project-shkedia/media-db-service/pkg/repositories"
	"github.com/project-shkedia/media-db-service/pkg/testhelpers"
)

var t0 = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

type testServices struct {
	engine      *crud.Engine
	users       UserService
	devices     DeviceService
	media       MediaService
	insights    InsightService
	jobs        JobService
	collections CollectionService
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()
	logger := zap.NewNop()
	engine := crud.NewEngine(testhelpers.NewSQLiteManager(t), logger)
	users := NewUserService(engine, logger)
	return &testServices{
		engine:      engine,
		users:       users,
		devices:     NewDeviceService(engine, users, logger),
		media:       NewMediaService(engine, logger),
		insights:    NewInsightService(engine, logger),
		jobs:        NewJobService(engine, logger),
		collections: NewCollectionService(engine, repositories.NewCollectionRepository(engine.DB()), logger),
	}
}

// seedOwners stores user u1 with device d1 and media m1..m4 (one minute
// apart, m1 oldest), and user u2 with device d2 and no media.
func (s *testServices) seedOwners(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, crud.InsertRecords(ctx, s.engine, models.UserView, []models.User{
		{UserID: "u1", UserName: "alice", CreatedOn: t0},
		{UserID: "u2", UserName: "bob", CreatedOn: t0},
	}))
	require.NoError(t, crud.InsertRecords(ctx, s.engine, models.DeviceView, []models.Device{
		{DeviceID: "d1", DeviceName: "pixel", OwnerID: "u1", CreatedOn: t0, Status: models.DeviceActive},
		{DeviceID: "d2", DeviceName: "iphone", OwnerID: "u2", CreatedOn: t0, Status: models.DeviceActive},
	}))

	var media []models.Media
	for i, id := range []string{"m1", "m2", "m3", "m4"} {
		m := models.NewMedia(models.MediaRequest{
			MediaName:      id + ".jpg",
			MediaThumbnail: "thumb-" + id,
			MediaType:      models.MediaImage,
			MediaSizeBytes: int64(100 * (i + 1)),
			CreatedOn:      t0.Add(time.Duration(i) * time.Minute),
			DeviceID:       "d1",
			DeviceMediaURI: "/dcim/" + id,
		}, "u1")
		m.MediaID = id
		media = append(media, m)
	}
	require.NoError(t, crud.InsertRecords(ctx, s.engine, models.MediaFullView, media))
}

// seedEngines stores engines E1 (id e1) and E2 (id e2).
func (s *testServices) seedEngines(t *testing.T) {
	t.Helper()
	_, err := s.insights.PutEngines(context.Background(), []models.InsightEngine{
		{ID: "e1", Name: "E1", InputSource: "s3", InputQueueName: "q1", OutputExchangeName: "x1"},
		{ID: "e2", Name: "E2", InputSource: "s3", InputQueueName: "q2", OutputExchangeName: "x2"},
	})
	require.NoError(t, err)
}

func label(engineID, mediaID, name string) models.Insight {
	return models.NewInsight(engineID, mediaID, name)
}

func intPtr(n int) *int { return &n }
