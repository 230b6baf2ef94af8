package dbsync

import (
	"context"
	"fmt"

	"github.com/cardano-node-tests/dbsyncx/pkg/db/models/ledger"
	"go.uber.org/zap"
)

// ConnManager is a ConnSource that can also be torn down.
type ConnManager interface {
	ConnSource
	Close(ctx context.Context) error
}

// Service is the db-sync access layer: one connection, one cached schema
// version, and the per-entity streamers. It is built once and passed to
// whoever needs it. It is not safe for concurrent use.
//
// The connection carries one result set at a time: drain or Close every
// Rows before starting the next query. A query issued while another result
// is still open fails with "conn busy", and the reconnect that follows
// invalidates the open Rows as well.
type Service struct {
	Logger *zap.Logger
	Schema *Resolver
	Exec   *Executor

	conns ConnManager
}

func New(logger *zap.Logger, conns ConnManager) *Service {
	return &Service{
		Logger: logger,
		Schema: NewResolver(logger, conns),
		Exec:   NewExecutor(logger, conns),
		conns:  conns,
	}
}

// Stages returns the cached db-sync schema version.
func (s *Service) Stages(ctx context.Context) (SchemaVersion, error) {
	return s.Schema.Stages(ctx)
}

// Ping runs a trivial query through the executor, reconnecting if needed.
func (s *Service) Ping(ctx context.Context) error {
	return s.Exec.With(ctx, "SELECT 1", nil, func(cur *Cursor) error {
		var one int
		_, err := cur.FetchOne(&one)
		return err
	})
}

// Close drops the database connection.
func (s *Service) Close(ctx context.Context) error {
	return s.conns.Close(ctx)
}

// EpochRange bounds epoch filtered queries, both ends inclusive.
type EpochRange struct {
	From int64
	To   int64
}

// AllEpochs matches every epoch.
func AllEpochs() EpochRange {
	return EpochRange{From: 0, To: 99999999}
}

func (r EpochRange) String() string {
	return fmt.Sprintf("%d..%d", r.From, r.To)
}

func txHashArg(hash string) ([]byte, error) {
	if hash == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidHash)
	}
	h, err := ledger.HashFromHex(hash)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidHash, hash, err)
	}
	return []byte(h), nil
}
