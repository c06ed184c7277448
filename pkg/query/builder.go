package query

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/project-shkedia/media-db-service/pkg/apperrors"
	"github.com/project-shkedia/media-db-service/pkg/database"
	"github.com/project-shkedia/media-db-service/pkg/schema"
)

const (
	mainAlias = "t"
	// falseCondition stands in for an IN over an empty list.
	falseCondition = "1 = 0"
)

// Statement is SQL text with its bind arguments in placeholder order.
type Statement struct {
	SQL  string
	Args []any
}

// Ident quotes an identifier, joining parts with dots.
func Ident(parts ...string) string {
	return pgx.Identifier(parts).Sanitize()
}

// Args collects bind arguments and hands out placeholders.
type Args struct {
	dialect database.Dialect
	values  []any
}

func NewArgs(dialect database.Dialect) *Args {
	return &Args{dialect: dialect}
}

// Add appends v and returns its placeholder.
func (a *Args) Add(v any) string {
	a.values = append(a.values, v)
	return a.dialect.Placeholder(len(a.values))
}

// In renders "expr IN (...)" over values, or an always-false condition when
// values is empty.
func (a *Args) In(expr string, values []any) string {
	if len(values) == 0 {
		return falseCondition
	}
	marks := make([]string, len(values))
	for i, v := range values {
		marks[i] = a.Add(v)
	}
	return expr + " IN (" + strings.Join(marks, ", ") + ")"
}

func (a *Args) Values() []any { return a.values }

// Builder renders statements for one dialect.
type Builder struct {
	dialect database.Dialect
}

func NewBuilder(dialect database.Dialect) *Builder {
	return &Builder{dialect: dialect}
}

func (b *Builder) Dialect() database.Dialect { return b.dialect }

// Select renders a query projecting columns (all entity columns when empty)
// from entity. A non-empty ownerID scopes rows when the entity has an owner
// column.
func (b *Builder) Select(entity *schema.Entity, columns []string, spec FilterSpec, ownerID string) (Statement, error) {
	if len(columns) == 0 {
		columns = entity.Columns
	}
	for _, c := range columns {
		if err := entity.CheckColumn(c); err != nil {
			return Statement{}, err
		}
	}

	orderBy, err := b.orderColumn(entity, columns, spec)
	if err != nil {
		return Statement{}, err
	}
	if err := checkPage(spec); err != nil {
		return Statement{}, err
	}

	args := NewArgs(b.dialect)
	where, err := b.where(entity, spec, ownerID, args)
	if err != nil {
		return Statement{}, err
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	if spec.Distinct {
		sb.WriteString("DISTINCT ")
	}
	for i, c := range columns {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(Ident(mainAlias, c))
	}
	sb.WriteString(" FROM ")
	sb.WriteString(Ident(entity.Table))
	sb.WriteString(" AS ")
	sb.WriteString(Ident(mainAlias))
	if where != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(where)
	}
	sb.WriteString(" ORDER BY ")
	sb.WriteString(Ident(mainAlias, orderBy))
	if spec.Descending {
		sb.WriteString(" DESC")
	}
	sb.WriteString(b.page(spec))

	return Statement{SQL: sb.String(), Args: args.Values()}, nil
}

// Count renders a query returning the number of rows Select would return
// without limit and offset.
func (b *Builder) Count(entity *schema.Entity, columns []string, spec FilterSpec, ownerID string) (Statement, error) {
	unpaged := spec.Clone()
	unpaged.Limit = nil
	unpaged.Offset = nil

	inner, err := b.Select(entity, columns, unpaged, ownerID)
	if err != nil {
		return Statement{}, err
	}
	return Statement{
		SQL:  "SELECT COUNT(*) FROM (" + inner.SQL + ") AS " + Ident("counted"),
		Args: inner.Args,
	}, nil
}

// Insert renders a single-row insert.
func (b *Builder) Insert(entity *schema.Entity, values []schema.ColumnValue) (Statement, error) {
	if len(values) == 0 {
		return Statement{}, fmt.Errorf("insert into %s: no values", entity.Name)
	}
	args := NewArgs(b.dialect)
	cols := make([]string, len(values))
	marks := make([]string, len(values))
	for i, cv := range values {
		if err := entity.CheckColumn(cv.Column); err != nil {
			return Statement{}, err
		}
		cols[i] = Ident(cv.Column)
		marks[i] = args.Add(cv.Value)
	}
	sql := "INSERT INTO " + Ident(entity.Table) +
		" (" + strings.Join(cols, ", ") + ") VALUES (" + strings.Join(marks, ", ") + ")"
	return Statement{SQL: sql, Args: args.Values()}, nil
}

// Update renders an update of set on the rows whose keyColumn equals key.
// Neither the primary key nor the key column can be assigned.
func (b *Builder) Update(entity *schema.Entity, keyColumn string, key any, set []schema.ColumnValue, ownerID string) (Statement, error) {
	if len(set) == 0 {
		return Statement{}, fmt.Errorf("update %s: nothing to set", entity.Name)
	}
	if err := entity.CheckColumn(keyColumn); err != nil {
		return Statement{}, err
	}
	args := NewArgs(b.dialect)
	assignments := make([]string, len(set))
	for i, cv := range set {
		if err := entity.CheckColumn(cv.Column); err != nil {
			return Statement{}, err
		}
		if cv.Column == entity.PrimaryKey || cv.Column == keyColumn {
			return Statement{}, fmt.Errorf("update %s: key column %q is immutable", entity.Name, cv.Column)
		}
		assignments[i] = Ident(cv.Column) + " = " + args.Add(cv.Value)
	}

	sql := "UPDATE " + Ident(entity.Table) + " SET " + strings.Join(assignments, ", ") +
		" WHERE " + Ident(keyColumn) + " = " + args.Add(key)
	if ownerID != "" && entity.OwnerColumn != "" {
		sql += " AND " + Ident(entity.OwnerColumn) + " = " + args.Add(ownerID)
	}
	return Statement{SQL: sql, Args: args.Values()}, nil
}

func (b *Builder) where(entity *schema.Entity, spec FilterSpec, ownerID string, args *Args) (string, error) {
	conds, err := fieldConditions(entity, mainAlias, spec, args)
	if err != nil {
		return "", err
	}
	if ownerID != "" && entity.OwnerColumn != "" {
		conds = append(conds, Ident(mainAlias, entity.OwnerColumn)+" = "+args.Add(ownerID))
	}

	for i, corr := range spec.Correlations {
		cond, err := b.correlation(entity, corr, "r"+strconv.Itoa(i), args)
		if err != nil {
			return "", err
		}
		conds = append(conds, cond)
	}
	return strings.Join(conds, " AND "), nil
}

func (b *Builder) correlation(entity *schema.Entity, corr Correlation, alias string, args *Args) (string, error) {
	if corr.Entity == nil {
		return "", fmt.Errorf("correlation on %s: no related entity", entity.Name)
	}
	if err := entity.CheckColumn(corr.LocalColumn); err != nil {
		return "", err
	}
	if err := corr.Entity.CheckColumn(corr.RemoteColumn); err != nil {
		return "", err
	}

	conds := []string{Ident(alias, corr.RemoteColumn) + " = " + Ident(mainAlias, corr.LocalColumn)}
	filters, err := fieldConditions(corr.Entity, alias, corr.Filters, args)
	if err != nil {
		return "", err
	}
	conds = append(conds, filters...)

	op := "EXISTS"
	if corr.Exclude {
		op = "NOT EXISTS"
	}
	return op + " (SELECT 1 FROM " + Ident(corr.Entity.Table) + " AS " + Ident(alias) +
		" WHERE " + strings.Join(conds, " AND ") + ")", nil
}

func fieldConditions(entity *schema.Entity, alias string, spec FilterSpec, args *Args) ([]string, error) {
	fields := spec.Fields()
	conds := make([]string, 0, len(fields))
	for _, field := range fields {
		if err := entity.CheckColumn(field); err != nil {
			return nil, err
		}
		values, _ := spec.Values(field)
		conds = append(conds, args.In(Ident(alias, field), values))
	}
	return conds, nil
}

// orderColumn picks the explicit order field, else the primary key when it is
// projected, else the first projected column.
func (b *Builder) orderColumn(entity *schema.Entity, columns []string, spec FilterSpec) (string, error) {
	if spec.OrderBy != "" {
		if err := entity.CheckColumn(spec.OrderBy); err != nil {
			return "", err
		}
		if spec.Distinct && !slices.Contains(columns, spec.OrderBy) {
			return "", &apperrors.InvalidFieldError{Entity: entity.Name, Field: spec.OrderBy}
		}
		return spec.OrderBy, nil
	}
	if slices.Contains(columns, entity.PrimaryKey) {
		return entity.PrimaryKey, nil
	}
	return columns[0], nil
}

func checkPage(spec FilterSpec) error {
	if spec.Limit != nil && *spec.Limit < 0 {
		return fmt.Errorf("%w: negative limit %d", apperrors.ErrInvalidField, *spec.Limit)
	}
	if spec.Offset != nil && *spec.Offset < 0 {
		return fmt.Errorf("%w: negative offset %d", apperrors.ErrInvalidField, *spec.Offset)
	}
	return nil
}

func (b *Builder) page(spec FilterSpec) string {
	var sb strings.Builder
	switch {
	case spec.Limit != nil:
		sb.WriteString(" LIMIT " + strconv.Itoa(*spec.Limit))
	case spec.Offset != nil && b.dialect == database.SQLite:
		// SQLite only accepts OFFSET after a LIMIT.
		sb.WriteString(" LIMIT -1")
	}
	if spec.Offset != nil {
		sb.WriteString(" OFFSET " + strconv.Itoa(*spec.Offset))
	}
	return sb.String()
}
