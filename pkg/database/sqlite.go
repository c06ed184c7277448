package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"sync/atomic"

	_ "modernc.org/sqlite"
)

// SQLiteConnector opens sessions on a SQLite file through modernc.org/sqlite.
type SQLiteConnector struct {
	path string
}

func NewSQLiteConnector(path string) *SQLiteConnector {
	return &SQLiteConnector{path: path}
}

func (c *SQLiteConnector) Dialect() Dialect { return SQLite }

func (c *SQLiteConnector) String() string { return "sqlite " + c.path }

// DSN returns the driver DSN with the pragmas every connection needs.
func (c *SQLiteConnector) DSN() string {
	params := url.Values{}
	params.Add("_pragma", "foreign_keys(1)")
	params.Add("_pragma", "busy_timeout(30000)")
	params.Set("_time_format", "sqlite")
	if c.path != ":memory:" {
		params.Add("_pragma", "journal_mode(WAL)")
	}
	return fmt.Sprintf("file:%s?%s", c.path, params.Encode())
}

func (c *SQLiteConnector) Connect(ctx context.Context) (Session, error) {
	db, err := sql.Open("sqlite", c.DSN())
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	// Single writer; statements queue instead of failing with SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite: %w", err)
	}
	return &sqlSession{db: db}, nil
}

type sqlSession struct {
	db     *sql.DB
	closed atomic.Bool
}

func (s *sqlSession) Exec(ctx context.Context, stmt string, args ...any) (int64, error) {
	res, err := s.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *sqlSession) Query(ctx context.Context, stmt string, args ...any) (*ResultSet, error) {
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	return collectSQLRows(rows)
}

func (s *sqlSession) Begin(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqlTx{tx: tx}, nil
}

func (s *sqlSession) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *sqlSession) Closed() bool { return s.closed.Load() }

func (s *sqlSession) Close() {
	if s.closed.CompareAndSwap(false, true) {
		_ = s.db.Close()
	}
}

type sqlTx struct {
	tx *sql.Tx
}

func (t *sqlTx) Exec(ctx context.Context, stmt string, args ...any) (int64, error) {
	res, err := t.tx.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (t *sqlTx) Query(ctx context.Context, stmt string, args ...any) (*ResultSet, error) {
	rows, err := t.tx.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	return collectSQLRows(rows)
}

func (t *sqlTx) Commit(context.Context) error   { return t.tx.Commit() }
func (t *sqlTx) Rollback(context.Context) error { return t.tx.Rollback() }

func collectSQLRows(rows *sql.Rows) (*ResultSet, error) {
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	rs := &ResultSet{Columns: columns}

	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		rs.Rows = append(rs.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rs, nil
}
