package db

import (
	"context"

	"github.com/cardano-node-tests/dbsyncx/pkg/db/dbsync"
	"github.com/cardano-node-tests/dbsyncx/pkg/db/models/ledger"
)

// Store exposes the db-sync reads used by the query server and the CLI.
// List methods hand at most limit rows to fn one at a time, as they come off
// the connection; a non-positive limit reads all. fn must not use the store
// while the rows hold its connection.
type Store interface {
	Ping(ctx context.Context) error
	Stages(ctx context.Context) (dbsync.SchemaVersion, error)
	ListTableNames(ctx context.Context) ([]string, error)
	LatestBlock(ctx context.Context) (ledger.BlockRow, error)

	GetTxRecord(ctx context.Context, txHash string) (*ledger.TxRecord, error)
	TxInputs(ctx context.Context, txHash string, limit int, fn func(ledger.TxInRow) error) error
	TxStakeDelegations(ctx context.Context, txHash string, limit int, fn func(ledger.StakeDelegRow) error) error
	TxWithdrawals(ctx context.Context, txHash string, limit int, fn func(ledger.WithdrawalRow) error) error

	ADAPots(ctx context.Context, epochs dbsync.EpochRange, limit int, fn func(ledger.ADAPotsRow) error) error
	AddressRewards(ctx context.Context, address string, epochs dbsync.EpochRange, limit int, fn func(ledger.RewardRow) error) error
	Blocks(ctx context.Context, epochs dbsync.EpochRange, limit int, fn func(ledger.BlockRow) error) error
	// EpochParams returns nil when db-sync has no parameters for epoch yet.
	EpochParams(ctx context.Context, epoch int64) (*ledger.EpochParamRow, error)
	PoolData(ctx context.Context, poolID string, limit int, fn func(ledger.PoolDataRow) error) error

	Close(ctx context.Context) error
}
