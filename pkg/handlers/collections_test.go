package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/project-shkedia/media-db-service/pkg/models"
	"github.com/project-shkedia/media-db-service/pkg/search"
)

type stubCollections struct {
	previews []models.CollectionPreview
}

func (s *stubCollections) GetCollectionsMetadataByNames(context.Context, []string, models.CollectionSearchField) ([]models.CollectionPreview, error) {
	return s.previews, nil
}

func (s *stubCollections) GetMediaByCollectionName(context.Context, string, search.PageRequest) (search.PageResult[models.MediaThumbnail], error) {
	return search.PageResult[models.MediaThumbnail]{}, nil
}

func (s *stubCollections) ListCollections(context.Context) ([]models.CollectionBasic, error) {
	return nil, nil
}

func (s *stubCollections) GetCollection(context.Context, string) ([]models.CollectionPreview, error) {
	return s.previews, nil
}

func searchCollections(t *testing.T, previews []models.CollectionPreview, query string) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	NewCollectionHandler(&stubCollections{previews: previews}, zap.NewNop()).RegisterRoutes(mux)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/collections/search?"+query, nil))
	return rec
}

// Both collections render as the key "a_b_c".
var collidingPreviews = []models.CollectionPreview{
	{Name: "c", EngineName: "a_b", MediaList: []string{"m1"}},
	{Name: "b_c", EngineName: "a", MediaList: []string{"m2"}},
}

func TestSearchCollections_KeyCollisionIsAConflict(t *testing.T) {
	rec := searchCollections(t, collidingPreviews, "search_value=c&search_value=b_c")

	assert.Equal(t, http.StatusConflict, rec.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "ambiguous_collection_key", body["error"])
}

func TestSearchCollections_ListKeepsOrderAndEveryCollection(t *testing.T) {
	rec := searchCollections(t, collidingPreviews, "search_value=c&search_value=b_c&response_type=CollectionList")

	require.Equal(t, http.StatusOK, rec.Code)
	var got []models.CollectionPreview
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, collidingPreviews, got)
}

func TestSearchCollections_ListEmpty(t *testing.T) {
	rec := searchCollections(t, nil, "search_value=nothing&response_type=CollectionList")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestSearchCollections_DefaultMap(t *testing.T) {
	rec := searchCollections(t, []models.CollectionPreview{
		{Name: "cat", EngineName: "E1", MediaList: []string{"m1"}},
		{Name: "cat", EngineName: "E2", MediaList: []string{"m2"}},
	}, "search_value=cat")

	require.Equal(t, http.StatusOK, rec.Code)
	var got map[string]models.CollectionPreview
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Len(t, got, 2)
	assert.Equal(t, []string{"m2"}, got["E2_cat"].MediaList)
}

func TestSearchCollections_UnknownResponseType(t *testing.T) {
	rec := searchCollections(t, nil, "search_value=cat&response_type=CollectionMap")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
