package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/project-shkedia/media-db-service/pkg/auth"
	"github.com/project-shkedia/media-db-service/pkg/crud"
	"github.com/project-shkedia/media-db-service/pkg/models"
	"github.com/project-shkedia/media-db-service/pkg/testhelpers"
)

// seedLabels stores two owners with one device each. u1 owns m1 (older) and
// m2, u2 owns m3. Engine "faces" labels m2 and m1 "anna" and m3 "anna";
// engine "objects" labels m1 "tree".
func seedLabels(t *testing.T) (CollectionRepository, context.Context) {
	t.Helper()
	ctx := context.Background()
	engine := crud.NewEngine(testhelpers.NewSQLiteManager(t), zap.NewNop())
	base := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, crud.InsertRecords(ctx, engine, models.UserView, []models.User{
		{UserID: "u1", UserName: "alice", CreatedOn: base},
		{UserID: "u2", UserName: "bob", CreatedOn: base},
	}))
	require.NoError(t, crud.InsertRecords(ctx, engine, models.DeviceView, []models.Device{
		{DeviceID: "d1", DeviceName: "pixel", OwnerID: "u1", CreatedOn: base, Status: models.DeviceActive},
		{DeviceID: "d2", DeviceName: "iphone", OwnerID: "u2", CreatedOn: base, Status: models.DeviceActive},
	}))

	media := func(id, device, owner string, offset time.Duration) models.Media {
		m := models.NewMedia(models.MediaRequest{
			MediaName:      id + ".jpg",
			MediaThumbnail: "thumb-" + id,
			MediaType:      models.MediaImage,
			MediaSizeBytes: 10,
			CreatedOn:      base.Add(offset),
			DeviceID:       device,
			DeviceMediaURI: "/dcim/" + id,
		}, owner)
		m.MediaID = id
		return m
	}
	require.NoError(t, crud.InsertRecords(ctx, engine, models.MediaFullView, []models.Media{
		media("m2", "d1", "u1", time.Hour),
		media("m1", "d1", "u1", 0),
		media("m3", "d2", "u2", 2*time.Hour),
	}))

	require.NoError(t, crud.InsertRecords(ctx, engine, models.InsightEngineView, []models.InsightEngine{
		{ID: "ef", Name: "faces", Status: models.EngineActive, InputSource: "s3", InputQueueName: "qf", OutputExchangeName: "xf"},
		{ID: "eo", Name: "objects", Status: models.EngineActive, InputSource: "s3", InputQueueName: "qo", OutputExchangeName: "xo"},
	}))
	require.NoError(t, crud.InsertRecords(ctx, engine, models.InsightView, []models.Insight{
		models.NewInsight("ef", "m2", "anna"),
		models.NewInsight("ef", "m1", "anna"),
		models.NewInsight("ef", "m1", "anna"),
		models.NewInsight("ef", "m3", "anna"),
		models.NewInsight("eo", "m1", "tree"),
	}))

	return NewCollectionRepository(engine.DB()), ctx
}

func TestListMembers_OrderedAndDistinct(t *testing.T) {
	repo, ctx := seedLabels(t)

	members, err := repo.ListMembers(auth.WithOwnerID(ctx, "u1"), []string{"anna"}, models.CollectionByName)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "m1", members[0].MediaID, "oldest media first")
	assert.Equal(t, "m2", members[1].MediaID)
	require.NotNil(t, members[0].MediaThumbnail)
	assert.Equal(t, "thumb-m1", *members[0].MediaThumbnail)
	assert.Equal(t, "faces", members[0].EngineName)
}

func TestListMembers_ByEngineName(t *testing.T) {
	repo, ctx := seedLabels(t)

	members, err := repo.ListMembers(auth.WithOwnerID(ctx, "u1"), []string{"objects"}, models.CollectionByEngine)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, CollectionMember{Name: "tree", EngineName: "objects", MediaID: "m1", MediaThumbnail: members[0].MediaThumbnail}, members[0])
}

func TestListMembers_Unscoped(t *testing.T) {
	repo, ctx := seedLabels(t)

	members, err := repo.ListMembers(ctx, []string{"anna"}, models.CollectionByName)
	require.NoError(t, err)
	assert.Len(t, members, 3)
}

func TestListMembers_NoNames(t *testing.T) {
	repo, ctx := seedLabels(t)

	members, err := repo.ListMembers(ctx, nil, models.CollectionByName)
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestListCollections(t *testing.T) {
	repo, ctx := seedLabels(t)

	all, err := repo.ListCollections(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.CollectionBasic{
		{Name: "anna", EngineName: "faces"},
		{Name: "tree", EngineName: "objects"},
	}, all)

	u2, err := repo.ListCollections(auth.WithOwnerID(ctx, "u2"))
	require.NoError(t, err)
	assert.Equal(t, []models.CollectionBasic{{Name: "anna", EngineName: "faces"}}, u2)
}

func TestCollectionJoin_FollowsEntityDeclarations(t *testing.T) {
	assert.Contains(t, collectionJoin, `FROM "insights" AS "i"`)
	assert.Contains(t, collectionJoin, `JOIN "insight_engines" AS "e" ON "e"."id" = "i"."insight_engine_id"`)
	assert.Contains(t, collectionJoin, `JOIN "media" AS "m" ON "m"."media_id" = "i"."media_id"`)
	assert.Equal(t, `"m"."owner_id"`, mediaOwner)

	assert.Panics(t, func() { column(models.MediaEntity, mediaAlias, "media_colour") })
	assert.Panics(t, func() { joinOn(models.MediaEntity, mediaAlias, models.InsightEngineEntity, engineAlias) })
}
