// Package crud runs typed reads and writes of schema views against the store.
package crud

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/project-shkedia/media-db-service/pkg/apperrors"
	"github.com/project-shkedia/media-db-service/pkg/auth"
	"github.com/project-shkedia/media-db-service/pkg/database"
	"github.com/project-shkedia/media-db-service/pkg/logging"
	"github.com/project-shkedia/media-db-service/pkg/query"
	"github.com/project-shkedia/media-db-service/pkg/schema"
)

// Engine binds the connection manager to a query builder for its dialect.
// Reads and writes are scoped to the owner id in the context when the entity
// has an owner column.
type Engine struct {
	db      *database.Manager
	builder *query.Builder
	logger  *zap.Logger
}

func NewEngine(db *database.Manager, logger *zap.Logger) *Engine {
	return &Engine{
		db:      db,
		builder: query.NewBuilder(db.Dialect()),
		logger:  logger.Named("crud"),
	}
}

func (e *Engine) DB() *database.Manager { return e.db }

func (e *Engine) Builder() *query.Builder { return e.builder }

// Select returns the rows of view's entity matching spec.
func Select[T any](ctx context.Context, e *Engine, view *schema.View[T], spec query.FilterSpec) ([]T, error) {
	return selectWith(ctx, e.db, e.builder, view, spec, auth.OwnerIDFromContext(ctx))
}

// SelectAll returns every visible row. Calling it twice without writes in
// between yields the same rows in the same order.
func SelectAll[T any](ctx context.Context, e *Engine, view *schema.View[T]) ([]T, error) {
	return Select(ctx, e, view, query.FilterSpec{})
}

// SelectOne returns the first matching row or an ErrNotFound error.
func SelectOne[T any](ctx context.Context, e *Engine, view *schema.View[T], spec query.FilterSpec) (T, error) {
	spec = spec.Clone()
	limit := 1
	spec.Limit = &limit

	var zero T
	rows, err := Select(ctx, e, view, spec)
	if err != nil {
		return zero, err
	}
	if len(rows) == 0 {
		return zero, apperrors.NotFound(view.Entity.Name)
	}
	return rows[0], nil
}

// SelectAntiJoin returns rows matching spec that have no related row matching
// anti's filters.
func SelectAntiJoin[T any](ctx context.Context, e *Engine, view *schema.View[T], anti query.Correlation, spec query.FilterSpec) ([]T, error) {
	spec = spec.Clone()
	anti.Exclude = true
	spec.Correlations = append(spec.Correlations, anti)
	return Select(ctx, e, view, spec)
}

// Count returns the number of rows matching spec across all pages. columns
// matter only for DISTINCT specs; empty means every entity column.
func Count(ctx context.Context, e *Engine, entity *schema.Entity, spec query.FilterSpec, columns ...string) (int, error) {
	stmt, err := e.builder.Count(entity, columns, spec, auth.OwnerIDFromContext(ctx))
	if err != nil {
		return 0, err
	}
	rs, err := e.db.Query(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", entity.Name, err)
	}
	if rs.Len() != 1 || len(rs.Rows[0]) != 1 {
		return 0, fmt.Errorf("failed to count %s: unexpected result shape", entity.Name)
	}
	switch n := rs.Rows[0][0].(type) {
	case int64:
		return int(n), nil
	case int32:
		return int(n), nil
	case int:
		return n, nil
	}
	return 0, fmt.Errorf("failed to count %s: unexpected %T", entity.Name, rs.Rows[0][0])
}

// Insert writes records in one transaction. It reports true only when every
// record was committed; otherwise nothing is written and the failure is logged.
func Insert[T any](ctx context.Context, e *Engine, view *schema.View[T], records []T) bool {
	if err := InsertRecords(ctx, e, view, records); err != nil {
		e.logger.Error("Insert failed",
			zap.String("entity", view.Entity.Name),
			zap.Int("records", len(records)),
			zap.String("error", logging.SanitizeError(err)))
		return false
	}
	return true
}

// InsertRecords is Insert returning the failure.
func InsertRecords[T any](ctx context.Context, e *Engine, view *schema.View[T], records []T) error {
	if len(records) == 0 {
		return nil
	}
	stmts := make([]query.Statement, len(records))
	for i := range records {
		stmt, err := e.builder.Insert(view.Entity, view.Encode(&records[i]))
		if err != nil {
			return err
		}
		stmts[i] = stmt
	}

	return e.db.InTx(ctx, func(ctx context.Context, q database.Querier) error {
		for i, stmt := range stmts {
			if _, err := q.Exec(ctx, stmt.SQL, stmt.Args...); err != nil {
				return fmt.Errorf("failed to insert %s record %d: %w", view.Entity.Name, i, err)
			}
		}
		return nil
	})
}

func selectWith[T any](ctx context.Context, q database.Querier, b *query.Builder, view *schema.View[T], spec query.FilterSpec, ownerID string) ([]T, error) {
	stmt, err := b.Select(view.Entity, view.Columns(), spec, ownerID)
	if err != nil {
		return nil, err
	}
	rs, err := q.Query(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select %s: %w", view.Entity.Name, err)
	}
	return view.DecodeAll(rs.Rows)
}
