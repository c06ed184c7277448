package crud

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/project-shkedia/media-db-service/pkg/apperrors"
	"github.com/project-shkedia/media-db-service/pkg/auth"
	"github.com/project-shkedia/media-db-service/pkg/database"
	"github.com/project-shkedia/media-db-service/pkg/query"
	"github.com/project-shkedia/media-db-service/pkg/schema"
)

// Diff lists the columns whose submitted value differs from the stored one.
type Diff []schema.ColumnValue

// Columns returns the changed column names.
func (d Diff) Columns() []string {
	cols := make([]string, len(d))
	for i, cv := range d {
		cols[i] = cv.Column
	}
	return cols
}

// ComputeDiff compares submitted against current over the view's columns.
// The key column and the primary key are never part of the diff and unset
// optional members of submitted are skipped.
func ComputeDiff[T any](view *schema.View[T], current, submitted *T, keyField string) Diff {
	var diff Diff
	for _, col := range view.Columns() {
		if col == keyField || col == view.Entity.PrimaryKey {
			continue
		}
		next, ok := view.Value(submitted, col)
		if !ok {
			continue
		}
		prev, had := view.Value(current, col)
		if had && valuesEqual(prev, next) {
			continue
		}
		diff = append(diff, schema.ColumnValue{Column: col, Value: next})
	}
	return diff
}

func valuesEqual(a, b any) bool {
	at, aIsTime := a.(time.Time)
	bt, bIsTime := b.(time.Time)
	if aIsTime || bIsTime {
		return aIsTime && bIsTime && at.Equal(bt)
	}
	return a == b
}

// Update applies the fields of submitted that differ from the stored row
// identified by keyField, then returns the row as projected through out. The
// read, the write and the re-read share one transaction. A row that does not
// exist, or is not visible to the context's owner, yields ErrNotFound.
func Update[T, R any](ctx context.Context, e *Engine, submitted T, in *schema.View[T], out *schema.View[R], keyField string) (R, error) {
	var result R

	if !in.HasColumn(keyField) {
		return result, &apperrors.InvalidFieldError{Entity: in.Entity.Name, Field: keyField}
	}
	key, ok := in.Value(&submitted, keyField)
	if !ok {
		return result, fmt.Errorf("update %s: key %q not set", in.Entity.Name, keyField)
	}
	if in.Entity != out.Entity {
		return result, fmt.Errorf("update %s: output view belongs to %s", in.Entity.Name, out.Entity.Name)
	}

	ownerID := auth.OwnerIDFromContext(ctx)
	var byKey query.FilterSpec
	byKey.Add(keyField, key)

	err := e.db.InTx(ctx, func(ctx context.Context, q database.Querier) error {
		current, err := selectWith(ctx, q, e.builder, in, byKey, ownerID)
		if err != nil {
			return err
		}
		if len(current) == 0 {
			return apperrors.NotFound(in.Entity.Name)
		}
		if len(current) > 1 {
			return fmt.Errorf("update %s: %q does not identify a single row", in.Entity.Name, keyField)
		}

		diff := ComputeDiff(in, &current[0], &submitted, keyField)
		if len(diff) > 0 {
			stmt, err := e.builder.Update(in.Entity, keyField, key, diff, ownerID)
			if err != nil {
				return err
			}
			affected, err := q.Exec(ctx, stmt.SQL, stmt.Args...)
			if err != nil {
				return fmt.Errorf("failed to update %s: %w", in.Entity.Name, err)
			}
			if affected != 1 {
				return fmt.Errorf("update %s: %w (%d rows affected)", in.Entity.Name, apperrors.ErrNotFound, affected)
			}
			e.logger.Debug("Updated record",
				zap.String("entity", in.Entity.Name),
				zap.Any("key", key),
				zap.Strings("columns", diff.Columns()))
		}

		updated, err := selectWith(ctx, q, e.builder, out, byKey, ownerID)
		if err != nil {
			return err
		}
		if len(updated) == 0 {
			return apperrors.NotFound(in.Entity.Name)
		}
		result = updated[0]
		return nil
	})
	if err != nil {
		var zero R
		return zero, err
	}
	return result, nil
}
