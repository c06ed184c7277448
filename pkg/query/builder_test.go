package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/project-shkedia/media-db-service/pkg/apperrors"
	"github.com/project-shkedia/media-db-service/pkg/database"
	"github.com/project-shkedia/media-db-service/pkg/schema"
)

var (
	photo = schema.NewEntity("photo", "photo_id",
		[]string{"photo_id", "title", "kind", "status", "owner_id", "taken_on"},
		schema.WithOwner("owner_id"))
	tag = schema.NewEntity("tag", "tag_id",
		[]string{"tag_id", "photo_id", "engine_id", "label"},
		schema.WithForeignKey("photo_id", "photo", "photo_id"))
)

func TestSelect_FieldsAndOwner(t *testing.T) {
	b := NewBuilder(database.Postgres)

	var spec FilterSpec
	spec.Add("status", "UPLOADED", "PENDING")
	spec.Add("kind", "IMAGE")

	stmt, err := b.Select(photo, []string{"photo_id", "title"}, spec, "u1")
	require.NoError(t, err)

	assert.Equal(t,
		`SELECT "t"."photo_id", "t"."title" FROM "photos" AS "t" `+
			`WHERE "t"."kind" IN ($1) AND "t"."status" IN ($2, $3) AND "t"."owner_id" = $4 `+
			`ORDER BY "t"."photo_id"`,
		stmt.SQL)
	assert.Equal(t, []any{"IMAGE", "UPLOADED", "PENDING", "u1"}, stmt.Args)
}

func TestSelect_EmptyValueListMatchesNothing(t *testing.T) {
	b := NewBuilder(database.Postgres)

	var spec FilterSpec
	spec.Add("status")

	stmt, err := b.Select(photo, nil, spec, "")
	require.NoError(t, err)
	assert.Contains(t, stmt.SQL, "WHERE 1 = 0")
	assert.Empty(t, stmt.Args)
}

func TestSelect_NoFilters(t *testing.T) {
	b := NewBuilder(database.SQLite)

	stmt, err := b.Select(photo, nil, FilterSpec{}, "")
	require.NoError(t, err)
	assert.Equal(t,
		`SELECT "t"."photo_id", "t"."title", "t"."kind", "t"."status", "t"."owner_id", "t"."taken_on" `+
			`FROM "photos" AS "t" ORDER BY "t"."photo_id"`,
		stmt.SQL)
}

func TestSelect_UnknownField(t *testing.T) {
	b := NewBuilder(database.Postgres)

	var spec FilterSpec
	spec.Add("colour", "red")
	_, err := b.Select(photo, nil, spec, "")

	var fieldErr *apperrors.InvalidFieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "colour", fieldErr.Field)

	_, err = b.Select(photo, []string{"nope"}, FilterSpec{}, "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidField)

	_, err = b.Select(photo, nil, FilterSpec{OrderBy: "nope"}, "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidField)
}

func TestSelect_OrderDistinctAndPage(t *testing.T) {
	b := NewBuilder(database.Postgres)

	spec := FilterSpec{Distinct: true, OrderBy: "taken_on", Descending: true}
	spec.Page(10, 20)

	stmt, err := b.Select(photo, []string{"title", "taken_on"}, spec, "")
	require.NoError(t, err)
	assert.Equal(t,
		`SELECT DISTINCT "t"."title", "t"."taken_on" FROM "photos" AS "t" `+
			`ORDER BY "t"."taken_on" DESC LIMIT 10 OFFSET 20`,
		stmt.SQL)

	_, err = b.Select(photo, []string{"title"}, FilterSpec{Distinct: true, OrderBy: "taken_on"}, "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidField, "distinct order field must be projected")

	stmt, err = b.Select(photo, []string{"title"}, FilterSpec{}, "")
	require.NoError(t, err)
	assert.Contains(t, stmt.SQL, `ORDER BY "t"."title"`, "first projected column when key is absent")
}

func TestSelect_OffsetWithoutLimit(t *testing.T) {
	offset := 5

	stmt, err := NewBuilder(database.SQLite).Select(photo, nil, FilterSpec{Offset: &offset}, "")
	require.NoError(t, err)
	assert.Contains(t, stmt.SQL, "LIMIT -1 OFFSET 5")

	stmt, err = NewBuilder(database.Postgres).Select(photo, nil, FilterSpec{Offset: &offset}, "")
	require.NoError(t, err)
	assert.NotContains(t, stmt.SQL, "LIMIT")
	assert.Contains(t, stmt.SQL, "OFFSET 5")

	negative := -1
	_, err = NewBuilder(database.Postgres).Select(photo, nil, FilterSpec{Limit: &negative}, "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidField)
}

func TestSelect_AntiJoin(t *testing.T) {
	b := NewBuilder(database.Postgres)

	var related FilterSpec
	related.Add("engine_id", "e1")

	var spec FilterSpec
	spec.Add("status", "UPLOADED")
	spec.Exclude(tag, "photo_id", "photo_id", related)

	stmt, err := b.Select(photo, []string{"photo_id"}, spec, "u1")
	require.NoError(t, err)
	assert.Equal(t,
		`SELECT "t"."photo_id" FROM "photos" AS "t" `+
			`WHERE "t"."status" IN ($1) AND "t"."owner_id" = $2 `+
			`AND NOT EXISTS (SELECT 1 FROM "tags" AS "r0" WHERE "r0"."photo_id" = "t"."photo_id" AND "r0"."engine_id" IN ($3)) `+
			`ORDER BY "t"."photo_id"`,
		stmt.SQL)
	assert.Equal(t, []any{"UPLOADED", "u1", "e1"}, stmt.Args)
}

func TestSelect_SemiJoinValidatesRelatedFields(t *testing.T) {
	b := NewBuilder(database.SQLite)

	var related FilterSpec
	related.Add("label", "cat")
	var spec FilterSpec
	spec.Require(tag, "photo_id", "photo_id", related)

	stmt, err := b.Select(photo, []string{"photo_id"}, spec, "")
	require.NoError(t, err)
	assert.Contains(t, stmt.SQL, `WHERE EXISTS (SELECT 1 FROM "tags" AS "r0" WHERE "r0"."photo_id" = "t"."photo_id" AND "r0"."label" IN (?))`)

	var bad FilterSpec
	bad.Add("title", "x")
	spec = FilterSpec{}
	spec.Require(tag, "photo_id", "photo_id", bad)
	_, err = b.Select(photo, nil, spec, "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidField)
}

func TestCount_DropsPaging(t *testing.T) {
	b := NewBuilder(database.Postgres)

	var spec FilterSpec
	spec.Add("kind", "VIDEO").Page(5, 10)

	stmt, err := b.Count(photo, []string{"photo_id"}, spec, "u1")
	require.NoError(t, err)
	assert.Equal(t,
		`SELECT COUNT(*) FROM (SELECT "t"."photo_id" FROM "photos" AS "t" WHERE "t"."kind" IN ($1) AND "t"."owner_id" = $2 ORDER BY "t"."photo_id") AS "counted"`,
		stmt.SQL)
	require.NotNil(t, spec.Limit, "original spec is untouched")
}

func TestInsertAndUpdate(t *testing.T) {
	b := NewBuilder(database.Postgres)

	stmt, err := b.Insert(photo, []schema.ColumnValue{{Column: "photo_id", Value: "p1"}, {Column: "title", Value: "sunset"}})
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO "photos" ("photo_id", "title") VALUES ($1, $2)`, stmt.SQL)
	assert.Equal(t, []any{"p1", "sunset"}, stmt.Args)

	stmt, err = b.Update(photo, "photo_id", "p1", []schema.ColumnValue{{Column: "title", Value: "dawn"}}, "u1")
	require.NoError(t, err)
	assert.Equal(t, `UPDATE "photos" SET "title" = $1 WHERE "photo_id" = $2 AND "owner_id" = $3`, stmt.SQL)
	assert.Equal(t, []any{"dawn", "p1", "u1"}, stmt.Args)

	_, err = b.Update(photo, "photo_id", "p1", []schema.ColumnValue{{Column: "photo_id", Value: "p2"}}, "")
	assert.Error(t, err, "primary key is immutable")

	_, err = b.Update(photo, "photo_id", "p1", nil, "")
	assert.Error(t, err)
}

func TestUpdate_ByNonPrimaryKeyColumn(t *testing.T) {
	b := NewBuilder(database.SQLite)

	stmt, err := b.Update(photo, "title", "sunset", []schema.ColumnValue{{Column: "status", Value: "DONE"}}, "")
	require.NoError(t, err)
	assert.Equal(t, `UPDATE "photos" SET "status" = ? WHERE "title" = ?`, stmt.SQL)
	assert.Equal(t, []any{"DONE", "sunset"}, stmt.Args)

	_, err = b.Update(photo, "title", "sunset", []schema.ColumnValue{{Column: "title", Value: "dawn"}}, "")
	assert.Error(t, err, "key column is immutable")

	_, err = b.Update(photo, "slug", "sunset", []schema.ColumnValue{{Column: "status", Value: "DONE"}}, "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidField)
}

func TestFilterSpec_CloneIsIndependent(t *testing.T) {
	var spec FilterSpec
	spec.Add("kind", "IMAGE")
	clone := spec.Clone()
	clone.Add("kind", "VIDEO")
	clone.Add("status", "PENDING")

	values, _ := spec.Values("kind")
	assert.Equal(t, []any{"IMAGE"}, values)
	assert.Equal(t, []string{"kind"}, spec.Fields())
	assert.Equal(t, []string{"kind", "status"}, clone.Fields())
}
