package schema

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Field binds one column to a member of the view struct T.
type Field[T any] struct {
	Column   string
	Optional bool
	// Derived fields are filled by services after the query and are never
	// projected.
	Derived bool

	decode     func(rec *T, v any) error
	encode     func(rec *T) (any, bool)
	defaultVal any
}

// WithDefault sets the value decoded when the column is NULL.
func (f Field[T]) WithDefault(v any) Field[T] {
	f.defaultVal = v
	return f
}

// Text binds a string-kinded member.
func Text[T any, S ~string](column string, get func(*T) *S) Field[T] {
	return Field[T]{
		Column: column,
		decode: func(rec *T, v any) error {
			s, err := toString(v)
			if err != nil {
				return err
			}
			*get(rec) = S(s)
			return nil
		},
		encode: func(rec *T) (any, bool) { return string(*get(rec)), true },
	}
}

// OptText binds a nullable string-kinded member.
func OptText[T any, S ~string](column string, get func(*T) **S) Field[T] {
	return Field[T]{
		Column:   column,
		Optional: true,
		decode: func(rec *T, v any) error {
			s, err := toString(v)
			if err != nil {
				return err
			}
			val := S(s)
			*get(rec) = &val
			return nil
		},
		encode: func(rec *T) (any, bool) {
			p := *get(rec)
			if p == nil {
				return nil, false
			}
			return string(*p), true
		},
	}
}

// Int binds an integer member.
func Int[T any, N ~int | ~int32 | ~int64](column string, get func(*T) *N) Field[T] {
	return Field[T]{
		Column: column,
		decode: func(rec *T, v any) error {
			n, err := toInt64(v)
			if err != nil {
				return err
			}
			*get(rec) = N(n)
			return nil
		},
		encode: func(rec *T) (any, bool) { return int64(*get(rec)), true },
	}
}

// OptInt binds a nullable integer member.
func OptInt[T any, N ~int | ~int32 | ~int64](column string, get func(*T) **N) Field[T] {
	return Field[T]{
		Column:   column,
		Optional: true,
		decode: func(rec *T, v any) error {
			n, err := toInt64(v)
			if err != nil {
				return err
			}
			val := N(n)
			*get(rec) = &val
			return nil
		},
		encode: func(rec *T) (any, bool) {
			p := *get(rec)
			if p == nil {
				return nil, false
			}
			return int64(*p), true
		},
	}
}

// Time binds a timestamp member. Values are stored in UTC.
func Time[T any](column string, get func(*T) *time.Time) Field[T] {
	return Field[T]{
		Column: column,
		decode: func(rec *T, v any) error {
			t, err := toTime(v)
			if err != nil {
				return err
			}
			*get(rec) = t
			return nil
		},
		encode: func(rec *T) (any, bool) { return get(rec).UTC(), true },
	}
}

// OptTime binds a nullable timestamp member.
func OptTime[T any](column string, get func(*T) **time.Time) Field[T] {
	return Field[T]{
		Column:   column,
		Optional: true,
		decode: func(rec *T, v any) error {
			t, err := toTime(v)
			if err != nil {
				return err
			}
			*get(rec) = &t
			return nil
		},
		encode: func(rec *T) (any, bool) {
			p := *get(rec)
			if p == nil {
				return nil, false
			}
			return p.UTC(), true
		},
	}
}

// Derived declares a view member that has no column.
func Derived[T any](name string) Field[T] {
	return Field[T]{Column: name, Derived: true}
}

func toString(v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case []byte:
		return string(s), nil
	}
	return "", fmt.Errorf("cannot read %T as text", v)
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int32:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int:
		return int64(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("cannot read %v as integer", n)
		}
		return int64(n), nil
	case []byte:
		return strconv.ParseInt(string(n), 10, 64)
	case string:
		return strconv.ParseInt(n, 10, 64)
	}
	return 0, fmt.Errorf("cannot read %T as integer", v)
}

// timeLayouts covers what SQLite hands back for DATETIME columns.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func toTime(v any) (time.Time, error) {
	var s string
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), nil
	case string:
		s = t
	case []byte:
		s = string(t)
	default:
		return time.Time{}, fmt.Errorf("cannot read %T as time", v)
	}

	s = strings.TrimSpace(s)
	// time.Time.String() appends a monotonic clock reading.
	if i := strings.Index(s, " m="); i >= 0 {
		s = s[:i]
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as time", s)
}
