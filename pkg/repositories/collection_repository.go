package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/project-shkedia/media-db-service/pkg/auth"
	"github.com/project-shkedia/media-db-service/pkg/database"
	"github.com/project-shkedia/media-db-service/pkg/models"
	"github.com/project-shkedia/media-db-service/pkg/query"
	"github.com/project-shkedia/media-db-service/pkg/schema"
)

// CollectionMember is one media item carrying a label from one engine.
type CollectionMember struct {
	Name           string
	EngineName     string
	MediaID        string
	MediaThumbnail *string
}

// CollectionRepository reads collections: media grouped by insight label
// and engine. Rows are scoped to the context's owner.
type CollectionRepository interface {
	// ListMembers returns the members of the collections whose label (or
	// engine name) is in names, ordered by label, engine name, media creation
	// time and media id.
	ListMembers(ctx context.Context, names []string, field models.CollectionSearchField) ([]CollectionMember, error)
	// ListCollections returns the distinct (label, engine name) pairs.
	ListCollections(ctx context.Context) ([]models.CollectionBasic, error)
}

type collectionRepository struct {
	db *database.Manager
}

func NewCollectionRepository(db *database.Manager) CollectionRepository {
	return &collectionRepository{db: db}
}

var _ CollectionRepository = (*collectionRepository)(nil)

const (
	insightAlias = "i"
	engineAlias  = "e"
	mediaAlias   = "m"
)

// Column references of the collection join, resolved against the entity
// declarations at init.
var (
	labelName      = column(models.InsightEntity, insightAlias, "name")
	engineName     = column(models.InsightEngineEntity, engineAlias, "name")
	mediaID        = column(models.MediaEntity, mediaAlias, models.MediaEntity.PrimaryKey)
	mediaThumbnail = column(models.MediaEntity, mediaAlias, "media_thumbnail")
	mediaCreatedOn = column(models.MediaEntity, mediaAlias, "created_on")
	mediaOwner     = column(models.MediaEntity, mediaAlias, models.MediaEntity.OwnerColumn)

	collectionJoin = "\n\t\tFROM " + table(models.InsightEntity, insightAlias) +
		"\n\t\tJOIN " + table(models.InsightEngineEntity, engineAlias) + " ON " +
		joinOn(models.InsightEntity, insightAlias, models.InsightEngineEntity, engineAlias) +
		"\n\t\tJOIN " + table(models.MediaEntity, mediaAlias) + " ON " +
		joinOn(models.InsightEntity, insightAlias, models.MediaEntity, mediaAlias)
)

func table(e *schema.Entity, alias string) string {
	return query.Ident(e.Table) + " AS " + query.Ident(alias)
}

func column(e *schema.Entity, alias, name string) string {
	if err := e.CheckColumn(name); err != nil {
		panic(err)
	}
	return query.Ident(alias, name)
}

// joinOn renders the equality of from's foreign key to its referenced column.
func joinOn(from *schema.Entity, fromAlias string, to *schema.Entity, toAlias string) string {
	fk, ok := from.ForeignKeyTo(to.Name)
	if !ok {
		panic(fmt.Sprintf("%s declares no foreign key to %s", from.Name, to.Name))
	}
	return column(to, toAlias, fk.RefColumn) + " = " + column(from, fromAlias, fk.Column)
}

func (r *collectionRepository) ListMembers(ctx context.Context, names []string, field models.CollectionSearchField) ([]CollectionMember, error) {
	searchColumn := labelName
	if field == models.CollectionByEngine {
		searchColumn = engineName
	}

	args := query.NewArgs(r.db.Dialect())
	values := make([]any, len(names))
	for i, n := range names {
		values[i] = n
	}
	conditions := []string{args.In(searchColumn, values)}
	conditions = r.ownerCondition(ctx, conditions, args)

	// created_on is selected because DISTINCT requires ORDER BY columns in
	// the select list.
	stmt := `
		SELECT DISTINCT ` + strings.Join([]string{labelName, engineName, mediaID, mediaThumbnail, mediaCreatedOn}, ", ") +
		collectionJoin + `
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY ` + strings.Join([]string{labelName, engineName, mediaCreatedOn, mediaID}, ", ")

	rs, err := r.db.Query(ctx, stmt, args.Values()...)
	if err != nil {
		return nil, fmt.Errorf("failed to list collection members: %w", err)
	}

	members := make([]CollectionMember, 0, rs.Len())
	for _, row := range rs.Rows {
		var m CollectionMember
		var err error
		if m.Name, err = textValue(row[0]); err != nil {
			return nil, err
		}
		if m.EngineName, err = textValue(row[1]); err != nil {
			return nil, err
		}
		if m.MediaID, err = textValue(row[2]); err != nil {
			return nil, err
		}
		if row[3] != nil {
			thumb, err := textValue(row[3])
			if err != nil {
				return nil, err
			}
			m.MediaThumbnail = &thumb
		}
		members = append(members, m)
	}
	return members, nil
}

func (r *collectionRepository) ListCollections(ctx context.Context) ([]models.CollectionBasic, error) {
	args := query.NewArgs(r.db.Dialect())
	conditions := r.ownerCondition(ctx, nil, args)

	stmt := `SELECT DISTINCT ` + labelName + ", " + engineName + collectionJoin
	if len(conditions) > 0 {
		stmt += `
		WHERE ` + strings.Join(conditions, " AND ")
	}
	stmt += `
		ORDER BY ` + labelName + ", " + engineName

	rs, err := r.db.Query(ctx, stmt, args.Values()...)
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}

	collections := make([]models.CollectionBasic, 0, rs.Len())
	for _, row := range rs.Rows {
		name, err := textValue(row[0])
		if err != nil {
			return nil, err
		}
		engine, err := textValue(row[1])
		if err != nil {
			return nil, err
		}
		collections = append(collections, models.CollectionBasic{Name: name, EngineName: engine})
	}
	return collections, nil
}

func (r *collectionRepository) ownerCondition(ctx context.Context, conditions []string, args *query.Args) []string {
	if ownerID := auth.OwnerIDFromContext(ctx); ownerID != "" {
		conditions = append(conditions, mediaOwner+" = "+args.Add(ownerID))
	}
	return conditions
}

func textValue(v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case []byte:
		return string(s), nil
	}
	return "", fmt.Errorf("expected text, got %T", v)
}
