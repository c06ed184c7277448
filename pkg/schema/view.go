package schema

import (
	"fmt"
	"slices"
)

// ColumnValue is one (column, value) pair read from a record.
type ColumnValue struct {
	Column string
	Value  any
}

// View is a named projection of an entity onto the struct T.
type View[T any] struct {
	Name   string
	Entity *Entity

	fields  []Field[T]
	columns []string
	derived []string
	byCol   map[string]int
}

// NewView checks every non-derived field against the entity's columns.
func NewView[T any](entity *Entity, name string, fields ...Field[T]) (*View[T], error) {
	v := &View[T]{
		Name:   name,
		Entity: entity,
		byCol:  make(map[string]int, len(fields)),
	}
	for _, f := range fields {
		if f.Derived {
			v.derived = append(v.derived, f.Column)
			continue
		}
		if err := entity.CheckColumn(f.Column); err != nil {
			return nil, fmt.Errorf("view %s.%s: %w", entity.Name, name, err)
		}
		if _, dup := v.byCol[f.Column]; dup {
			return nil, fmt.Errorf("view %s.%s: column %q bound twice", entity.Name, name, f.Column)
		}
		v.byCol[f.Column] = len(v.fields)
		v.fields = append(v.fields, f)
		v.columns = append(v.columns, f.Column)
	}
	if len(v.fields) == 0 {
		return nil, fmt.Errorf("view %s.%s: projects no columns", entity.Name, name)
	}
	return v, nil
}

// MustView builds a view and records it in reg, panicking on any declaration
// error. Intended for package-level declarations.
func MustView[T any](reg *Registry, entity *Entity, name string, fields ...Field[T]) *View[T] {
	v, err := NewView(entity, name, fields...)
	if err != nil {
		panic(err)
	}
	if reg != nil {
		if err := reg.Register(entity, name, v.columns); err != nil {
			panic(err)
		}
	}
	return v
}

// Columns returns the projected columns in declaration order.
func (v *View[T]) Columns() []string { return slices.Clone(v.columns) }

// DerivedFields returns the names of members filled outside the query.
func (v *View[T]) DerivedFields() []string { return slices.Clone(v.derived) }

func (v *View[T]) HasColumn(column string) bool {
	_, ok := v.byCol[column]
	return ok
}

func (v *View[T]) field(column string) (Field[T], bool) {
	i, ok := v.byCol[column]
	if !ok {
		return Field[T]{}, false
	}
	return v.fields[i], true
}

// Decode builds a T from a row aligned with Columns. NULL columns leave the
// member at its zero value unless the field has a default.
func (v *View[T]) Decode(row []any) (T, error) {
	var rec T
	if len(row) != len(v.fields) {
		return rec, fmt.Errorf("view %s.%s: row has %d values, want %d", v.Entity.Name, v.Name, len(row), len(v.fields))
	}
	for i, f := range v.fields {
		val := row[i]
		if val == nil {
			if f.defaultVal == nil {
				continue
			}
			val = f.defaultVal
		}
		if err := f.decode(&rec, val); err != nil {
			return rec, fmt.Errorf("failed to decode %s.%s: %w", v.Entity.Name, f.Column, err)
		}
	}
	return rec, nil
}

// DecodeAll decodes rows in order.
func (v *View[T]) DecodeAll(rows [][]any) ([]T, error) {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		rec, err := v.Decode(row)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// Encode returns the present (column, value) pairs of rec in column order.
// Unset optional members are left out.
func (v *View[T]) Encode(rec *T) []ColumnValue {
	out := make([]ColumnValue, 0, len(v.fields))
	for _, f := range v.fields {
		val, ok := f.encode(rec)
		if !ok {
			continue
		}
		out = append(out, ColumnValue{Column: f.Column, Value: val})
	}
	return out
}

// Value returns the encoded value of one column and whether it is present.
func (v *View[T]) Value(rec *T, column string) (any, bool) {
	f, ok := v.field(column)
	if !ok {
		return nil, false
	}
	return f.encode(rec)
}
