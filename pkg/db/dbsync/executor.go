package dbsync

import (
	"context"

	"github.com/cardano-node-tests/dbsyncx/pkg/db/postgres"
	"go.uber.org/zap"
)

// ConnSource hands out the current connection and replaces it on request.
// *postgres.Manager implements it.
type ConnSource interface {
	Current(ctx context.Context) (postgres.Conn, error)
	Reconnect(ctx context.Context) (postgres.Conn, error)
}

// Executor runs queries with a single reconnect-and-retry cycle: a failed
// query triggers one reconnect and one more attempt, then the failure is
// returned. Every Execute call gets its own cycle.
type Executor struct {
	Logger *zap.Logger

	conns      ConnSource
	reconnects int
}

func NewExecutor(logger *zap.Logger, conns ConnSource) *Executor {
	return &Executor{Logger: logger, conns: conns}
}

// Reconnects returns how many times the executor replaced the connection.
func (e *Executor) Reconnects() int {
	return e.reconnects
}

// Execute runs sql and returns a cursor positioned before the first row.
// The caller owns the cursor and must Close it.
func (e *Executor) Execute(ctx context.Context, sql string, args ...any) (*Cursor, error) {
	conn, err := e.conns.Current(ctx)
	if err != nil {
		return nil, err
	}

	cur, err := open(ctx, conn, sql, args)
	if err == nil {
		return cur, nil
	}

	if ctx.Err() != nil {
		return nil, &QueryError{Query: sql, Attempts: 1, Err: err}
	}

	e.Logger.Warn("Query failed, reconnecting to db-sync",
		zap.String("query", summarize(sql)),
		zap.Error(err))

	conn, err = e.conns.Reconnect(ctx)
	if err != nil {
		return nil, err
	}
	e.reconnects++

	cur, err = open(ctx, conn, sql, args)
	if err != nil {
		e.Logger.Error("Query failed after reconnect",
			zap.String("query", summarize(sql)),
			zap.Error(err))
		return nil, &QueryError{Query: sql, Attempts: 2, Err: err}
	}

	e.Logger.Info("Query succeeded after reconnect", zap.String("query", summarize(sql)))
	return cur, nil
}

// With runs sql and hands the cursor to fn, closing it however fn returns.
func (e *Executor) With(ctx context.Context, sql string, args []any, fn func(*Cursor) error) error {
	cur, err := e.Execute(ctx, sql, args...)
	if err != nil {
		return err
	}
	defer cur.Close()

	if err := fn(cur); err != nil {
		return err
	}
	return cur.Err()
}

// open sends the query and pulls the first row. pgx reports many server
// errors only once rows are read, so a query counts as executed when the
// first fetch went through.
func open(ctx context.Context, conn postgres.Conn, sql string, args []any) (*Cursor, error) {
	rows, err := conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}

	if rows.Next() {
		return &Cursor{rows: rows, query: sql, buffered: true}, nil
	}

	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}

	return &Cursor{rows: rows, query: sql, done: true}, nil
}
