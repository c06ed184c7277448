package database

import (
	"context"
	"strconv"
)

// ResultSet is a fully read query result. Rows are aligned with Columns.
type ResultSet struct {
	Columns      []string
	Rows         [][]any
	RowsAffected int64
}

// Len returns the number of rows.
func (r *ResultSet) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

// Querier runs single statements. Sessions and transactions both satisfy it.
type Querier interface {
	Exec(ctx context.Context, stmt string, args ...any) (int64, error)
	Query(ctx context.Context, stmt string, args ...any) (*ResultSet, error)
}

// Tx is a transaction opened on a Session.
type Tx interface {
	Querier
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Session is a live handle on the store.
type Session interface {
	Querier
	Begin(ctx context.Context) (Tx, error)
	Ping(ctx context.Context) error
	Closed() bool
	Close()
}

// Connector opens sessions against one store.
type Connector interface {
	Connect(ctx context.Context) (Session, error)
	Dialect() Dialect
	// String describes the target without credentials.
	String() string
}

// Dialect covers the syntax that differs between supported stores.
type Dialect interface {
	Name() string
	// Placeholder returns the bind marker for the n-th argument, counting from 1.
	Placeholder(n int) string
}

var (
	Postgres Dialect = postgresDialect{}
	SQLite   Dialect = sqliteDialect{}
)

type postgresDialect struct{}

func (postgresDialect) Name() string             { return "postgres" }
func (postgresDialect) Placeholder(n int) string { return "$" + strconv.Itoa(n) }

type sqliteDialect struct{}

func (sqliteDialect) Name() string           { return "sqlite" }
func (sqliteDialect) Placeholder(int) string { return "?" }
