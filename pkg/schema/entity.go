// Package schema declares stored entities and the named views projected from
// them. Declarations are built once at process start.
package schema

import (
	"fmt"
	"slices"

	"github.com/jinzhu/inflection"

	"github.com/project-shkedia/media-db-service/pkg/apperrors"
)

// ForeignKey links a column to another entity's column.
type ForeignKey struct {
	Column    string
	RefEntity string
	RefColumn string
}

// Entity is a stored relation with an immutable primary key.
type Entity struct {
	Name        string
	Table       string
	PrimaryKey  string
	OwnerColumn string
	Columns     []string
	ForeignKeys []ForeignKey

	columnSet map[string]struct{}
}

type EntityOption func(*Entity)

// WithOwner marks the column holding the owning user's id. Queries given an
// owner id are scoped by it.
func WithOwner(column string) EntityOption {
	return func(e *Entity) { e.OwnerColumn = column }
}

func WithForeignKey(column, refEntity, refColumn string) EntityOption {
	return func(e *Entity) {
		e.ForeignKeys = append(e.ForeignKeys, ForeignKey{Column: column, RefEntity: refEntity, RefColumn: refColumn})
	}
}

// NewEntity declares an entity stored in the plural of its name. It panics if
// the primary key, owner column or a foreign key column is not declared.
func NewEntity(name, primaryKey string, columns []string, opts ...EntityOption) *Entity {
	e := &Entity{
		Name:       name,
		Table:      inflection.Plural(name),
		PrimaryKey: primaryKey,
		Columns:    slices.Clone(columns),
		columnSet:  make(map[string]struct{}, len(columns)),
	}
	for _, c := range columns {
		if _, dup := e.columnSet[c]; dup {
			panic(fmt.Sprintf("schema: entity %s declares column %q twice", name, c))
		}
		e.columnSet[c] = struct{}{}
	}
	for _, opt := range opts {
		opt(e)
	}

	mustHave := []string{primaryKey}
	if e.OwnerColumn != "" {
		mustHave = append(mustHave, e.OwnerColumn)
	}
	for _, fk := range e.ForeignKeys {
		mustHave = append(mustHave, fk.Column)
	}
	for _, c := range mustHave {
		if !e.HasColumn(c) {
			panic(fmt.Sprintf("schema: entity %s has no column %q", name, c))
		}
	}
	return e
}

func (e *Entity) HasColumn(column string) bool {
	_, ok := e.columnSet[column]
	return ok
}

// CheckColumn returns an InvalidFieldError when column is not declared.
func (e *Entity) CheckColumn(column string) error {
	if !e.HasColumn(column) {
		return &apperrors.InvalidFieldError{Entity: e.Name, Field: column}
	}
	return nil
}

// ForeignKeyTo returns the first foreign key referencing refEntity.
func (e *Entity) ForeignKeyTo(refEntity string) (ForeignKey, bool) {
	for _, fk := range e.ForeignKeys {
		if fk.RefEntity == refEntity {
			return fk, true
		}
	}
	return ForeignKey{}, false
}

func (e *Entity) String() string { return e.Name }
