package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/project-shkedia/media-db-service/pkg/apperrors"
)

type shade string

type widget struct {
	ID      string
	Name    string
	Shade   shade
	Size    int64
	Note    *string
	Weight  *int
	Made    time.Time
	Retired *time.Time
	Tags    []string
}

var widgetEntity = NewEntity("widget", "widget_id",
	[]string{"widget_id", "name", "shade", "size", "note", "weight", "made", "retired", "owner_id"},
	WithOwner("owner_id"))

func widgetFields() []Field[widget] {
	return []Field[widget]{
		Text("widget_id", func(w *widget) *string { return &w.ID }),
		Text("name", func(w *widget) *string { return &w.Name }),
		Text("shade", func(w *widget) *shade { return &w.Shade }).WithDefault("GREY"),
		Int("size", func(w *widget) *int64 { return &w.Size }),
		OptText("note", func(w *widget) **string { return &w.Note }),
		OptInt("weight", func(w *widget) **int { return &w.Weight }),
		Time("made", func(w *widget) *time.Time { return &w.Made }),
		OptTime("retired", func(w *widget) **time.Time { return &w.Retired }),
		Derived[widget]("tags"),
	}
}

func TestNewEntity(t *testing.T) {
	assert.Equal(t, "widgets", widgetEntity.Table)
	assert.True(t, widgetEntity.HasColumn("size"))
	assert.False(t, widgetEntity.HasColumn("colour"))
	assert.Equal(t, "owner_id", widgetEntity.OwnerColumn)

	err := widgetEntity.CheckColumn("colour")
	assert.ErrorIs(t, err, apperrors.ErrInvalidField)

	assert.Panics(t, func() {
		NewEntity("gadget", "gadget_id", []string{"name"})
	}, "primary key must be a column")
}

func TestNewView_SkipsDerivedAndRejectsUnknown(t *testing.T) {
	v, err := NewView(widgetEntity, "full", widgetFields()...)
	require.NoError(t, err)

	assert.Equal(t, []string{"widget_id", "name", "shade", "size", "note", "weight", "made", "retired"}, v.Columns())
	assert.Equal(t, []string{"tags"}, v.DerivedFields())

	_, err = NewView(widgetEntity, "bad",
		Text("colour", func(w *widget) *string { return &w.Name }))
	assert.ErrorIs(t, err, apperrors.ErrInvalidField)
}

func TestView_Decode(t *testing.T) {
	v, err := NewView(widgetEntity, "full", widgetFields()...)
	require.NoError(t, err)

	made := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	rec, err := v.Decode([]any{"w1", []byte("bolt"), nil, int32(7), nil, int64(3), "2024-03-01 10:00:00", nil})
	require.NoError(t, err)

	assert.Equal(t, "w1", rec.ID)
	assert.Equal(t, "bolt", rec.Name)
	assert.Equal(t, shade("GREY"), rec.Shade, "NULL takes the declared default")
	assert.Equal(t, int64(7), rec.Size)
	assert.Nil(t, rec.Note, "NULL without default is omitted")
	require.NotNil(t, rec.Weight)
	assert.Equal(t, 3, *rec.Weight)
	assert.True(t, made.Equal(rec.Made))
	assert.Nil(t, rec.Retired)

	_, err = v.Decode([]any{"w1"})
	assert.Error(t, err, "row width must match the projection")

	_, err = v.Decode([]any{"w1", "bolt", nil, "seven", nil, nil, made, nil})
	assert.Error(t, err)
}

func TestView_Encode(t *testing.T) {
	v, err := NewView(widgetEntity, "full", widgetFields()...)
	require.NoError(t, err)

	note := "fragile"
	made := time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("X", 2*3600))
	rec := widget{ID: "w1", Name: "bolt", Shade: "RED", Size: 4, Note: &note, Made: made}

	got := v.Encode(&rec)
	assert.Equal(t, []ColumnValue{
		{Column: "widget_id", Value: "w1"},
		{Column: "name", Value: "bolt"},
		{Column: "shade", Value: "RED"},
		{Column: "size", Value: int64(4)},
		{Column: "note", Value: "fragile"},
		{Column: "made", Value: made.UTC()},
	}, got, "unset optional members are left out")

	val, ok := v.Value(&rec, "weight")
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestMustView_RegistersOnce(t *testing.T) {
	reg := NewRegistry()
	v := MustView(reg, widgetEntity, "basic",
		Text("widget_id", func(w *widget) *string { return &w.ID }),
		Text("name", func(w *widget) *string { return &w.Name }))

	cols, ok := reg.Columns("widget", "basic")
	require.True(t, ok)
	assert.Equal(t, v.Columns(), cols)
	assert.Equal(t, []string{"basic"}, reg.Views("widget"))

	assert.Panics(t, func() {
		MustView(reg, widgetEntity, "basic",
			Text("widget_id", func(w *widget) *string { return &w.ID }))
	})
}
