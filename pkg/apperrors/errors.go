package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrConnection     = errors.New("store connection failed")
	ErrInvalidField   = errors.New("invalid field")
	ErrTransientStore = errors.New("store connection dropped")
)

// ConnectionError reports a store session that could not be established, or one
// that kept dropping after the reconnect budget was spent. It is fatal to the
// caller's larger operation.
type ConnectionError struct {
	Op       string
	Attempts int
	Err      error
}

func (e *ConnectionError) Error() string {
	if e.Attempts > 0 {
		return fmt.Sprintf("%s: %v after %d attempts: %v", e.Op, ErrConnection, e.Attempts, e.Err)
	}
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, ErrConnection)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, ErrConnection, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

func (e *ConnectionError) Is(target error) bool { return target == ErrConnection }

// InvalidFieldError reports a filter, order or key field that the entity does
// not declare.
type InvalidFieldError struct {
	Entity string
	Field  string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("%v: %q is not a column of %s", ErrInvalidField, e.Field, e.Entity)
}

func (e *InvalidFieldError) Is(target error) bool { return target == ErrInvalidField }

// NotFound wraps ErrNotFound with the entity that was searched.
func NotFound(entity string) error {
	return fmt.Errorf("%s %w", entity, ErrNotFound)
}
