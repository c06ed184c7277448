package search

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/project-shkedia/media-db-service/pkg/query"
)

func TestExtractFilters_SkipsReservedParams(t *testing.T) {
	params := []Param{
		{Name: "media_type", Value: "IMAGE"},
		{Name: "page_size", Value: "10"},
		{Name: "media_type", Value: "VIDEO"},
		{Name: "response_type", Value: "MediaIDs"},
		{Name: "device_id", Value: "d1"},
	}

	spec := ExtractFilters(params, DefaultDenylist)

	assert.Equal(t, []string{"device_id", "media_type"}, spec.Fields())
	values, ok := spec.Values("media_type")
	require.True(t, ok)
	assert.Equal(t, []any{"IMAGE", "VIDEO"}, values)
}

func TestExtractFilters_NoParams(t *testing.T) {
	spec := ExtractFilters(nil, DefaultDenylist)
	assert.True(t, spec.IsEmpty())
}

func TestExtractFilterValues(t *testing.T) {
	values := url.Values{
		"upload_status": {"PENDING", "UPLOADED"},
		"page_number":   {"2"},
	}

	spec := ExtractFilterValues(values, DefaultDenylist)

	assert.Equal(t, []string{"upload_status"}, spec.Fields())
	got, _ := spec.Values("upload_status")
	assert.Equal(t, []any{"PENDING", "UPLOADED"}, got)
}

func TestAddSearchValue(t *testing.T) {
	var spec query.FilterSpec
	spec.Add("media_name", "a.jpg")

	AddSearchValue(&spec, "media_name", "b.jpg")
	got, _ := spec.Values("media_name")
	assert.Equal(t, []any{"a.jpg", "b.jpg"}, got)

	AddSearchValue(&spec, "device_id", "")
	AddSearchValue(&spec, "", "x")
	assert.Equal(t, []string{"media_name"}, spec.Fields())
}
