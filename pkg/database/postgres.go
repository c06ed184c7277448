package database

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/project-shkedia/media-db-service/pkg/logging"
)

// PostgresConfig holds PostgreSQL pool configuration.
type PostgresConfig struct {
	URL             string
	MaxConnections  int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// PostgresConnector opens pgxpool-backed sessions.
type PostgresConnector struct {
	cfg PostgresConfig
}

func NewPostgresConnector(cfg PostgresConfig) *PostgresConnector {
	return &PostgresConnector{cfg: cfg}
}

func (c *PostgresConnector) Dialect() Dialect { return Postgres }

func (c *PostgresConnector) String() string {
	return "postgres " + logging.SanitizeConnectionString(c.cfg.URL)
}

// Connect creates a pool and pings it once.
func (c *PostgresConnector) Connect(ctx context.Context) (Session, error) {
	poolConfig, err := pgxpool.ParseConfig(c.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	poolConfig.MaxConns = c.cfg.MaxConnections
	if poolConfig.MaxConns == 0 {
		poolConfig.MaxConns = 25
	}

	poolConfig.MaxConnLifetime = c.cfg.MaxConnLifetime
	if poolConfig.MaxConnLifetime == 0 {
		poolConfig.MaxConnLifetime = time.Hour
	}

	poolConfig.MaxConnIdleTime = c.cfg.MaxConnIdleTime
	if poolConfig.MaxConnIdleTime == 0 {
		poolConfig.MaxConnIdleTime = time.Minute * 30
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &pgxSession{pool: pool}, nil
}

type pgxSession struct {
	pool   *pgxpool.Pool
	closed atomic.Bool
}

func (s *pgxSession) Exec(ctx context.Context, stmt string, args ...any) (int64, error) {
	tag, err := s.pool.Exec(ctx, stmt, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *pgxSession) Query(ctx context.Context, stmt string, args ...any) (*ResultSet, error) {
	rows, err := s.pool.Query(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	return collectPgxRows(rows)
}

func (s *pgxSession) Begin(ctx context.Context) (Tx, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &pgxTx{tx: tx}, nil
}

func (s *pgxSession) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

func (s *pgxSession) Closed() bool { return s.closed.Load() }

func (s *pgxSession) Close() {
	if s.closed.CompareAndSwap(false, true) {
		s.pool.Close()
	}
}

type pgxTx struct {
	tx pgx.Tx
}

func (t *pgxTx) Exec(ctx context.Context, stmt string, args ...any) (int64, error) {
	tag, err := t.tx.Exec(ctx, stmt, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (t *pgxTx) Query(ctx context.Context, stmt string, args ...any) (*ResultSet, error) {
	rows, err := t.tx.Query(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	return collectPgxRows(rows)
}

func (t *pgxTx) Commit(ctx context.Context) error   { return t.tx.Commit(ctx) }
func (t *pgxTx) Rollback(ctx context.Context) error { return t.tx.Rollback(ctx) }

func collectPgxRows(rows pgx.Rows) (*ResultSet, error) {
	defer rows.Close()

	fields := rows.FieldDescriptions()
	rs := &ResultSet{Columns: make([]string, len(fields))}
	for i, f := range fields {
		rs.Columns[i] = f.Name
	}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		rs.Rows = append(rs.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rs.RowsAffected = rows.CommandTag().RowsAffected()
	return rs, nil
}
