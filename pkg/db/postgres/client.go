package postgres

import (
	"context"
	"fmt"

	"github.com/cardano-node-tests/dbsyncx/pkg/retry"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// Conn is the subset of *pgx.Conn the access layer relies on.
type Conn interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Dialer opens a new session to the database.
type Dialer func(ctx context.Context) (Conn, error)

// Manager owns the single db-sync connection of the process and replaces it
// when asked to. It is not safe for concurrent use; callers serialize access.
type Manager struct {
	Logger *zap.Logger

	dial  Dialer
	retry retry.Config
	conn  Conn
	dials int
}

// NewManager returns a Manager dialing with pgx according to cfg. No
// connection is opened until the first call to Current.
func NewManager(logger *zap.Logger, cfg Config) (*Manager, error) {
	connConfig, err := pgx.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres config: %w", err)
	}

	logger = logger.With(
		zap.String("host", connConfig.Host),
		zap.Uint16("port", connConfig.Port),
		zap.String("database", connConfig.Database),
	)

	return NewManagerWithDialer(logger, PgxDialer(connConfig), retry.ConnectConfig(cfg.ConnectAttempts)), nil
}

// NewManagerWithDialer returns a Manager using a caller supplied dialer.
func NewManagerWithDialer(logger *zap.Logger, dial Dialer, retryCfg retry.Config) *Manager {
	return &Manager{
		Logger: logger,
		dial:   dial,
		retry:  retryCfg,
	}
}

// PgxDialer connects with pgx and pings the server before handing the
// connection out.
func PgxDialer(connConfig *pgx.ConnConfig) Dialer {
	return func(ctx context.Context) (Conn, error) {
		conn, err := pgx.ConnectConfig(ctx, connConfig.Copy())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		if err := conn.Ping(ctx); err != nil {
			_ = conn.Close(ctx)
			return nil, fmt.Errorf("failed to ping postgres: %w", err)
		}
		return conn, nil
	}
}

// Current returns the active connection, dialing one if none exists yet.
func (m *Manager) Current(ctx context.Context) (Conn, error) {
	if m.conn != nil {
		return m.conn, nil
	}
	return m.connect(ctx, "connect")
}

// Reconnect drops the current connection, if any, and dials a new one.
func (m *Manager) Reconnect(ctx context.Context) (Conn, error) {
	m.discard(ctx)
	return m.connect(ctx, "reconnect")
}

// Close closes the connection. The next Current dials again.
func (m *Manager) Close(ctx context.Context) error {
	if m.conn == nil {
		return nil
	}
	err := m.conn.Close(ctx)
	m.conn = nil
	if err != nil {
		return fmt.Errorf("failed to close postgres connection: %w", err)
	}
	return nil
}

// Connected reports whether a connection is currently held.
func (m *Manager) Connected() bool {
	return m.conn != nil
}

// Dials returns how many connections have been opened so far.
func (m *Manager) Dials() int {
	return m.dials
}

func (m *Manager) connect(ctx context.Context, op string) (Conn, error) {
	var conn Conn
	err := retry.WithBackoff(ctx, m.retry, m.Logger, "postgres_"+op, func() error {
		c, dialErr := m.dial(ctx)
		if dialErr != nil {
			return dialErr
		}
		conn = c
		return nil
	})
	if err != nil {
		return nil, &ConnectionError{Op: op, Err: err}
	}

	m.conn = conn
	m.dials++
	m.Logger.Debug("PostgreSQL connection established",
		zap.String("op", op),
		zap.Int("dials", m.dials))

	return conn, nil
}

// discard closes the old handle; a failing close is expected when the
// server went away, so it is only logged.
func (m *Manager) discard(ctx context.Context) {
	if m.conn == nil {
		return
	}
	if err := m.conn.Close(ctx); err != nil {
		m.Logger.Debug("Closing stale connection failed", zap.Error(err))
	}
	m.conn = nil
}
