package dbsync

import (
	"context"

	"github.com/cardano-node-tests/dbsyncx/pkg/db/models/ledger"
)

func adaStashQuery(table string) queryDescriptor[ledger.ADAStashRow] {
	return queryDescriptor[ledger.ADAStashRow]{
		name: "tx_" + table,
		current: `
			SELECT ` + table + `.id, stake_address.view, ` + table + `.cert_index, ` + table + `.amount, ` + table + `.tx_id
			FROM ` + table + `
			INNER JOIN stake_address ON ` + table + `.addr_id = stake_address.id
			INNER JOIN tx ON tx.id = ` + table + `.tx_id
			WHERE tx.hash = $1
		`,
		scan: func(s RowScanner) (ledger.ADAStashRow, error) {
			var r ledger.ADAStashRow
			err := s.Scan(&r.ID, &r.AddrView, &r.CertIndex, &r.Amount, &r.TxID)
			return r, err
		},
	}
}

var (
	txReserveQuery  = adaStashQuery("reserve")
	txTreasuryQuery = adaStashQuery("treasury")
)

var txPotTransfersQuery = queryDescriptor[ledger.PotTransferRow]{
	name: "tx_pot_transfers",
	current: `
		SELECT pot_transfer.id, pot_transfer.cert_index, pot_transfer.treasury, pot_transfer.reserves, pot_transfer.tx_id
		FROM pot_transfer
		INNER JOIN tx ON tx.id = pot_transfer.tx_id
		WHERE tx.hash = $1
	`,
	scan: func(s RowScanner) (ledger.PotTransferRow, error) {
		var r ledger.PotTransferRow
		err := s.Scan(&r.ID, &r.CertIndex, &r.Treasury, &r.Reserves, &r.TxID)
		return r, err
	},
}

func stakeAddrQuery(table string) queryDescriptor[ledger.StakeAddrRow] {
	return queryDescriptor[ledger.StakeAddrRow]{
		name: "tx_" + table,
		current: `
			SELECT ` + table + `.addr_id, stake_address.view, ` + table + `.tx_id
			FROM ` + table + `
			INNER JOIN stake_address ON ` + table + `.addr_id = stake_address.id
			INNER JOIN tx ON tx.id = ` + table + `.tx_id
			WHERE tx.hash = $1
		`,
		scan: func(s RowScanner) (ledger.StakeAddrRow, error) {
			var r ledger.StakeAddrRow
			err := s.Scan(&r.ID, &r.View, &r.TxID)
			return r, err
		},
	}
}

var (
	txStakeRegQuery   = stakeAddrQuery("stake_registration")
	txStakeDeregQuery = stakeAddrQuery("stake_deregistration")
)

var txStakeDelegQuery = queryDescriptor[ledger.StakeDelegRow]{
	name: "tx_stake_deleg",
	current: `
		SELECT tx.id, delegation.active_epoch_no, pool_hash.view AS pool_view, stake_address.view AS address_view
		FROM delegation
		INNER JOIN stake_address ON delegation.addr_id = stake_address.id
		INNER JOIN tx ON tx.id = delegation.tx_id
		INNER JOIN pool_hash ON pool_hash.id = delegation.pool_hash_id
		WHERE tx.hash = $1
	`,
	scan: func(s RowScanner) (ledger.StakeDelegRow, error) {
		var r ledger.StakeDelegRow
		err := s.Scan(&r.TxID, &r.ActiveEpochNo, &r.PoolID, &r.Address)
		return r, err
	},
}

var txWithdrawalQuery = queryDescriptor[ledger.WithdrawalRow]{
	name: "tx_withdrawal",
	current: `
		SELECT tx.id, stake_address.view, withdrawal.amount
		FROM withdrawal
		INNER JOIN stake_address ON withdrawal.addr_id = stake_address.id
		INNER JOIN tx ON tx.id = withdrawal.tx_id
		WHERE tx.hash = $1
	`,
	scan: func(s RowScanner) (ledger.WithdrawalRow, error) {
		var r ledger.WithdrawalRow
		err := s.Scan(&r.TxID, &r.Address, &r.Amount)
		return r, err
	},
}

// QueryTxReserve streams MIR certificates paid from the reserves.
func (s *Service) QueryTxReserve(ctx context.Context, txHash string) (*Rows[ledger.ADAStashRow], error) {
	return streamByTxHash(ctx, s, txReserveQuery, txHash)
}

// QueryTxTreasury streams MIR certificates paid from the treasury.
func (s *Service) QueryTxTreasury(ctx context.Context, txHash string) (*Rows[ledger.ADAStashRow], error) {
	return streamByTxHash(ctx, s, txTreasuryQuery, txHash)
}

func (s *Service) QueryTxPotTransfers(ctx context.Context, txHash string) (*Rows[ledger.PotTransferRow], error) {
	return streamByTxHash(ctx, s, txPotTransfersQuery, txHash)
}

func (s *Service) QueryTxStakeReg(ctx context.Context, txHash string) (*Rows[ledger.StakeAddrRow], error) {
	return streamByTxHash(ctx, s, txStakeRegQuery, txHash)
}

func (s *Service) QueryTxStakeDereg(ctx context.Context, txHash string) (*Rows[ledger.StakeAddrRow], error) {
	return streamByTxHash(ctx, s, txStakeDeregQuery, txHash)
}

// QueryTxStakeDeleg streams the delegation certificates of a transaction with
// the bech32 pool id and stake address resolved.
func (s *Service) QueryTxStakeDeleg(ctx context.Context, txHash string) (*Rows[ledger.StakeDelegRow], error) {
	return streamByTxHash(ctx, s, txStakeDelegQuery, txHash)
}

func (s *Service) QueryTxWithdrawal(ctx context.Context, txHash string) (*Rows[ledger.WithdrawalRow], error) {
	return streamByTxHash(ctx, s, txWithdrawalQuery, txHash)
}
