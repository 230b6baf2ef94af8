package db

import (
	"context"

	"github.com/cardano-node-tests/dbsyncx/pkg/db/dbsync"
	"github.com/cardano-node-tests/dbsyncx/pkg/db/models/ledger"
	"github.com/cardano-node-tests/dbsyncx/pkg/db/postgres"
	"go.uber.org/zap"
)

// SyncStore is the Store backed by a db-sync database.
type SyncStore struct {
	*dbsync.Service
}

var _ Store = (*SyncStore)(nil)

// NewSyncStore wires the connection manager and the access layer for cfg.
// No connection is opened until the first read.
func NewSyncStore(logger *zap.Logger, cfg postgres.Config) (*SyncStore, error) {
	mgr, err := postgres.NewManager(logger, cfg)
	if err != nil {
		return nil, err
	}
	return &SyncStore{Service: dbsync.New(logger, mgr)}, nil
}

func (s *SyncStore) TxInputs(ctx context.Context, txHash string, limit int, fn func(ledger.TxInRow) error) error {
	rows, err := s.QueryTxIns(ctx, txHash)
	if err != nil {
		return err
	}
	return rows.EachN(limit, fn)
}

func (s *SyncStore) TxStakeDelegations(ctx context.Context, txHash string, limit int, fn func(ledger.StakeDelegRow) error) error {
	rows, err := s.QueryTxStakeDeleg(ctx, txHash)
	if err != nil {
		return err
	}
	return rows.EachN(limit, fn)
}

func (s *SyncStore) TxWithdrawals(ctx context.Context, txHash string, limit int, fn func(ledger.WithdrawalRow) error) error {
	rows, err := s.QueryTxWithdrawal(ctx, txHash)
	if err != nil {
		return err
	}
	return rows.EachN(limit, fn)
}

func (s *SyncStore) ADAPots(ctx context.Context, epochs dbsync.EpochRange, limit int, fn func(ledger.ADAPotsRow) error) error {
	rows, err := s.QueryADAPots(ctx, epochs)
	if err != nil {
		return err
	}
	return rows.EachN(limit, fn)
}

func (s *SyncStore) AddressRewards(ctx context.Context, address string, epochs dbsync.EpochRange, limit int, fn func(ledger.RewardRow) error) error {
	rows, err := s.QueryAddressReward(ctx, address, epochs)
	if err != nil {
		return err
	}
	return rows.EachN(limit, fn)
}

func (s *SyncStore) Blocks(ctx context.Context, epochs dbsync.EpochRange, limit int, fn func(ledger.BlockRow) error) error {
	rows, err := s.QueryBlocks(ctx, epochs)
	if err != nil {
		return err
	}
	return rows.EachN(limit, fn)
}

func (s *SyncStore) EpochParams(ctx context.Context, epoch int64) (*ledger.EpochParamRow, error) {
	rows, err := s.QueryEpochParams(ctx, epoch)
	if err != nil {
		return nil, err
	}
	params, err := rows.CollectN(1)
	if err != nil || len(params) == 0 {
		return nil, err
	}
	return &params[0], nil
}

func (s *SyncStore) PoolData(ctx context.Context, poolID string, limit int, fn func(ledger.PoolDataRow) error) error {
	rows, err := s.QueryPoolData(ctx, poolID)
	if err != nil {
		return err
	}
	return rows.EachN(limit, fn)
}
