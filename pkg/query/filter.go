// Package query turns declarative filters into parameterized SQL.
package query

import (
	"maps"
	"slices"

	"github.com/project-shkedia/media-db-service/pkg/schema"
)

// FilterSpec selects rows: values within a field are alternatives, fields are
// combined with AND. A field with an empty value list matches nothing.
// The zero value matches every row.
type FilterSpec struct {
	fields map[string][]any

	Distinct   bool
	OrderBy    string
	Descending bool
	Limit      *int
	Offset     *int

	Correlations []Correlation
}

// Correlation restricts rows by the existence of related rows. With Exclude
// set it is an anti-join: keep rows that have no related row matching
// Filters.
type Correlation struct {
	Entity       *schema.Entity
	LocalColumn  string
	RemoteColumn string
	Filters      FilterSpec
	Exclude      bool
}

// Add appends values to field. Calling it with no values still records the
// field, so the filter matches nothing until values are added.
func (f *FilterSpec) Add(field string, values ...any) *FilterSpec {
	if f.fields == nil {
		f.fields = make(map[string][]any)
	}
	f.fields[field] = append(f.fields[field], values...)
	if f.fields[field] == nil {
		f.fields[field] = []any{}
	}
	return f
}

// AddStrings is Add for string values.
func AddStrings[S ~string](f *FilterSpec, field string, values ...S) *FilterSpec {
	vals := make([]any, len(values))
	for i, v := range values {
		vals[i] = string(v)
	}
	return f.Add(field, vals...)
}

// Set replaces the values of field.
func (f *FilterSpec) Set(field string, values ...any) *FilterSpec {
	if f.fields == nil {
		f.fields = make(map[string][]any)
	}
	f.fields[field] = append([]any{}, values...)
	return f
}

// Remove drops field from the filter.
func (f *FilterSpec) Remove(field string) {
	delete(f.fields, field)
}

// Fields returns the filtered field names, sorted.
func (f FilterSpec) Fields() []string {
	return slices.Sorted(maps.Keys(f.fields))
}

// Values returns the accepted values of field.
func (f FilterSpec) Values(field string) ([]any, bool) {
	v, ok := f.fields[field]
	return v, ok
}

// IsEmpty reports whether the filter has no field filters and no correlations.
func (f FilterSpec) IsEmpty() bool {
	return len(f.fields) == 0 && len(f.Correlations) == 0
}

// Page sets query-level limit and offset.
func (f *FilterSpec) Page(limit, offset int) *FilterSpec {
	f.Limit = &limit
	f.Offset = &offset
	return f
}

// Exclude adds an anti-join correlation.
func (f *FilterSpec) Exclude(related *schema.Entity, localColumn, remoteColumn string, filters FilterSpec) *FilterSpec {
	f.Correlations = append(f.Correlations, Correlation{
		Entity: related, LocalColumn: localColumn, RemoteColumn: remoteColumn, Filters: filters, Exclude: true,
	})
	return f
}

// Require adds a semi-join correlation.
func (f *FilterSpec) Require(related *schema.Entity, localColumn, remoteColumn string, filters FilterSpec) *FilterSpec {
	f.Correlations = append(f.Correlations, Correlation{
		Entity: related, LocalColumn: localColumn, RemoteColumn: remoteColumn, Filters: filters,
	})
	return f
}

// Clone returns a deep copy that can be changed independently.
func (f FilterSpec) Clone() FilterSpec {
	out := f
	if f.fields != nil {
		out.fields = make(map[string][]any, len(f.fields))
		for k, v := range f.fields {
			out.fields[k] = slices.Clone(v)
		}
	}
	if f.Limit != nil {
		l := *f.Limit
		out.Limit = &l
	}
	if f.Offset != nil {
		o := *f.Offset
		out.Offset = &o
	}
	out.Correlations = slices.Clone(f.Correlations)
	for i := range out.Correlations {
		out.Correlations[i].Filters = out.Correlations[i].Filters.Clone()
	}
	return out
}
