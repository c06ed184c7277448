package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/project-shkedia/media-db-service/pkg/apperrors"
	"github.com/project-shkedia/media-db-service/pkg/logging"
	"github.com/project-shkedia/media-db-service/pkg/retry"
)

const (
	DefaultRetryBudget    = 10
	DefaultReconnectWait  = time.Second
	DefaultConnectTimeout = 10 * time.Second
)

var errSessionClosed = errors.New("session reported closed right after connecting")

// Options tunes connection establishment and recovery.
type Options struct {
	// RetryBudget is the number of reconnect-and-retry rounds after the first
	// failed attempt. Zero means DefaultRetryBudget; negative disables retries.
	RetryBudget    int
	ReconnectWait  time.Duration
	ConnectTimeout time.Duration
	Metrics        *Metrics
}

func (o Options) withDefaults() Options {
	if o.RetryBudget == 0 {
		o.RetryBudget = DefaultRetryBudget
	}
	if o.RetryBudget < 0 {
		o.RetryBudget = 0
	}
	if o.ReconnectWait <= 0 {
		o.ReconnectWait = DefaultReconnectWait
	}
	if o.ConnectTimeout <= 0 {
		o.ConnectTimeout = DefaultConnectTimeout
	}
	return o
}

// Manager owns the process-wide store session. Statements that fail because
// the session dropped are re-run on a fresh session until the budget is spent.
type Manager struct {
	connector Connector
	opts      Options
	logger    *zap.Logger

	mu      sync.RWMutex
	session Session
	closed  bool
}

// Connect opens the first session. Failure here is not retried.
func Connect(ctx context.Context, connector Connector, opts Options, logger *zap.Logger) (*Manager, error) {
	m := &Manager{
		connector: connector,
		opts:      opts.withDefaults(),
		logger:    logger.Named("store"),
	}

	session, err := m.open(ctx)
	if err != nil {
		m.logger.Error("Failed to connect to store",
			zap.String("target", connector.String()),
			zap.String("error", logging.SanitizeError(err)))
		return nil, &apperrors.ConnectionError{Op: "connect", Err: err}
	}
	m.session = session

	m.logger.Info("Connected to store",
		zap.String("target", connector.String()),
		zap.String("dialect", connector.Dialect().Name()))
	return m, nil
}

func (m *Manager) open(ctx context.Context) (Session, error) {
	ctx, cancel := context.WithTimeout(ctx, m.opts.ConnectTimeout)
	defer cancel()

	session, err := m.connector.Connect(ctx)
	if err != nil {
		return nil, err
	}
	if session.Closed() {
		session.Close()
		return nil, errSessionClosed
	}
	return session, nil
}

// Dialect returns the placeholder syntax of the connected store.
func (m *Manager) Dialect() Dialect { return m.connector.Dialect() }

// IsReady reports whether a live session is held. It does not touch the store.
func (m *Manager) IsReady() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return !m.closed && m.session != nil && !m.session.Closed()
}

// Ping checks the current session against the store.
func (m *Manager) Ping(ctx context.Context) error {
	session, err := m.current()
	if err != nil {
		return err
	}
	return session.Ping(ctx)
}

// Close releases the session. Later statements fail with a ConnectionError.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	if m.session != nil {
		m.session.Close()
		m.session = nil
		m.logger.Info("Store session closed")
	}
}

func (m *Manager) current() (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, &apperrors.ConnectionError{Op: "use after close"}
	}
	if m.session == nil {
		return nil, fmt.Errorf("%w: no open session", apperrors.ErrTransientStore)
	}
	return m.session, nil
}

// reconnect replaces failed with a fresh session. If another caller already
// swapped it, the newer session is kept.
func (m *Manager) reconnect(ctx context.Context, failed Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return &apperrors.ConnectionError{Op: "reconnect after close"}
	}
	if m.session != nil && m.session != failed && !m.session.Closed() {
		return nil
	}
	if m.session != nil {
		m.session.Close()
		m.session = nil
	}

	session, err := m.open(ctx)
	m.opts.Metrics.observeReconnect(err)
	if err != nil {
		m.logger.Warn("Reconnect failed",
			zap.String("target", m.connector.String()),
			zap.String("error", logging.SanitizeError(err)))
		return fmt.Errorf("%w: reconnect: %v", apperrors.ErrTransientStore, err)
	}
	m.session = session
	m.logger.Info("Reconnected to store", zap.String("target", m.connector.String()))
	return nil
}

func (m *Manager) retryConfig() *retry.Config {
	return &retry.Config{
		MaxRetries:   m.opts.RetryBudget,
		InitialDelay: m.opts.ReconnectWait,
		MaxDelay:     m.opts.ReconnectWait,
		Multiplier:   1.0,
		Retryable:    IsConnectionDropped,
	}
}

// withSession runs fn against the current session, reconnecting between
// attempts while fn keeps failing with a dropped connection.
func withSession[T any](ctx context.Context, m *Manager, op string, fn func(Session) (T, error)) (T, error) {
	var used Session

	cfg := m.retryConfig()
	cfg.OnRetry = func(ctx context.Context, attempt int, err error) error {
		m.logger.Warn("Store connection dropped, reconnecting",
			zap.String("op", op),
			zap.Int("attempt", attempt),
			zap.Int("budget", m.opts.RetryBudget),
			zap.String("error", logging.SanitizeError(err)))
		return m.reconnect(ctx, used)
	}

	result, err := retry.DoWithResult(ctx, cfg, func() (T, error) {
		session, err := m.current()
		used = session
		if err != nil {
			var zero T
			return zero, err
		}
		return fn(session)
	})
	if err == nil {
		return result, nil
	}

	if attempts, ok := retry.IsExhausted(err); ok {
		m.opts.Metrics.observeExhausted()
		m.logger.Error("Giving up on store operation",
			zap.String("op", op),
			zap.Int("attempts", attempts),
			zap.String("error", logging.SanitizeError(err)))
		return result, &apperrors.ConnectionError{Op: op, Attempts: attempts, Err: errors.Unwrap(err)}
	}
	return result, err
}

// Execute runs one statement. With wantsRows the full result set is returned;
// otherwise only RowsAffected is set.
func (m *Manager) Execute(ctx context.Context, stmt string, args []any, wantsRows bool) (*ResultSet, error) {
	if wantsRows {
		return m.Query(ctx, stmt, args...)
	}
	n, err := m.Exec(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	return &ResultSet{RowsAffected: n}, nil
}

// Query runs a row-returning statement.
func (m *Manager) Query(ctx context.Context, stmt string, args ...any) (*ResultSet, error) {
	return withSession(ctx, m, "query", func(s Session) (*ResultSet, error) {
		started := time.Now()
		rs, err := s.Query(ctx, stmt, args...)
		m.opts.Metrics.observeStatement("query", started, err)
		if err != nil {
			m.logFailure("query", stmt, err)
		}
		return rs, err
	})
}

// Exec runs a statement that returns no rows.
func (m *Manager) Exec(ctx context.Context, stmt string, args ...any) (int64, error) {
	return withSession(ctx, m, "exec", func(s Session) (int64, error) {
		started := time.Now()
		n, err := s.Exec(ctx, stmt, args...)
		m.opts.Metrics.observeStatement("exec", started, err)
		if err != nil {
			m.logFailure("exec", stmt, err)
		}
		return n, err
	})
}

// InTx runs fn inside a fresh transaction, committing when fn returns nil.
// If the session drops at any point the unit was rolled back by the store and
// fn is run again from the start, so fn must only touch the store through q.
func (m *Manager) InTx(ctx context.Context, fn func(ctx context.Context, q Querier) error) error {
	_, err := withSession(ctx, m, "transaction", func(s Session) (struct{}, error) {
		started := time.Now()
		err := m.runTx(ctx, s, fn)
		m.opts.Metrics.observeStatement("transaction", started, err)
		return struct{}{}, err
	})
	return err
}

func (m *Manager) runTx(ctx context.Context, s Session, fn func(ctx context.Context, q Querier) error) error {
	tx, err := s.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !IsConnectionDropped(rbErr) {
			m.logger.Warn("Rollback failed", zap.String("error", logging.SanitizeError(rbErr)))
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (m *Manager) logFailure(kind, stmt string, err error) {
	if IsConnectionDropped(err) {
		return
	}
	m.logger.Error("Statement failed",
		zap.String("kind", kind),
		zap.String("statement", logging.SanitizeStatement(stmt)),
		zap.String("error", logging.SanitizeError(err)))
}
