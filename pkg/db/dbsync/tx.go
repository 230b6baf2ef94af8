package dbsync

import (
	"context"

	"github.com/cardano-node-tests/dbsyncx/pkg/db/models/ledger"
)

const txColumns = `
	tx.id, tx.hash, tx.block_id, tx.block_index, tx.out_sum, tx.fee, tx.deposit, tx.size,
	tx.invalid_before, tx.invalid_hereafter,
	tx_out.id, tx_out.tx_id, tx_out.index, tx_out.address, tx_out.value,
	(SELECT COUNT(id) FROM tx_metadata WHERE tx_id = tx.id) AS metadata_count,
	(SELECT COUNT(id) FROM reserve WHERE tx_id = tx.id) AS reserve_count,
	(SELECT COUNT(id) FROM treasury WHERE tx_id = tx.id) AS treasury_count,
	(SELECT COUNT(id) FROM pot_transfer WHERE tx_id = tx.id) AS pot_transfer_count,
	(SELECT COUNT(id) FROM stake_registration WHERE tx_id = tx.id) AS reg_count,
	(SELECT COUNT(id) FROM stake_deregistration WHERE tx_id = tx.id) AS dereg_count,
	(SELECT COUNT(id) FROM delegation WHERE tx_id = tx.id) AS deleg_count,
	(SELECT COUNT(id) FROM withdrawal WHERE tx_id = tx.id) AS withdrawal_count,
	(SELECT COUNT(id) FROM collateral_tx_in WHERE tx_in_id = tx.id) AS collateral_count,
	(SELECT COUNT(id) FROM script WHERE tx_id = tx.id) AS script_count,
	(SELECT COUNT(id) FROM redeemer WHERE tx_id = tx.id) AS redeemer_count,`

var txQuery = queryDescriptor[ledger.TxRow]{
	name: "tx",
	legacy: `
		SELECT` + txColumns + `
			ma_tx_out.id, ma_tx_out.policy, ma_tx_out.name, ma_tx_out.quantity,
			ma_tx_mint.id, ma_tx_mint.policy, ma_tx_mint.name, ma_tx_mint.quantity
		FROM tx
		LEFT JOIN tx_out ON tx.id = tx_out.tx_id
		LEFT JOIN ma_tx_out ON tx_out.id = ma_tx_out.tx_out_id
		LEFT JOIN ma_tx_mint ON tx.id = ma_tx_mint.tx_id
		WHERE tx.hash = $1
	`,
	current: `
		SELECT` + txColumns + `
			ma_tx_out.id, join_ma_out.policy, join_ma_out.name, ma_tx_out.quantity,
			ma_tx_mint.id, join_ma_mint.policy, join_ma_mint.name, ma_tx_mint.quantity
		FROM tx
		LEFT JOIN tx_out ON tx.id = tx_out.tx_id
		LEFT JOIN ma_tx_out ON tx_out.id = ma_tx_out.tx_out_id
		LEFT JOIN ma_tx_mint ON tx.id = ma_tx_mint.tx_id
		LEFT JOIN multi_asset join_ma_out ON ma_tx_out.ident = join_ma_out.id
		LEFT JOIN multi_asset join_ma_mint ON ma_tx_mint.ident = join_ma_mint.id
		WHERE tx.hash = $1
	`,
	scan: func(s RowScanner) (ledger.TxRow, error) {
		var r ledger.TxRow
		err := s.Scan(
			&r.TxID, &r.TxHash, &r.BlockID, &r.BlockIndex, &r.OutSum, &r.Fee, &r.Deposit, &r.Size,
			&r.InvalidBefore, &r.InvalidHereafter,
			&r.TxOutID, &r.TxOutTxID, &r.UtxoIx, &r.TxOutAddr, &r.TxOutValue,
			&r.MetadataCount, &r.ReserveCount, &r.TreasuryCount, &r.PotTransferCount,
			&r.StakeRegCount, &r.StakeDeregCount, &r.StakeDelegCount, &r.WithdrawalCount,
			&r.CollateralCount, &r.ScriptCount, &r.RedeemerCount,
			&r.MaTxOutID, &r.MaTxOutPolicy, &r.MaTxOutName, &r.MaTxOutQuantity,
			&r.MaTxMintID, &r.MaTxMintPolicy, &r.MaTxMintName, &r.MaTxMintQuantity,
		)
		return r, err
	},
}

var txInsQuery = queryDescriptor[ledger.TxInRow]{
	name: "tx_ins",
	legacy: `
		SELECT
			tx_out.id, tx_out.index, tx_out.address, tx_out.value,
			(SELECT hash FROM tx WHERE id = tx_out.tx_id) AS tx_hash,
			ma_tx_out.id, ma_tx_out.policy, ma_tx_out.name, ma_tx_out.quantity
		FROM tx_in
		LEFT JOIN tx_out ON (tx_out.tx_id = tx_in.tx_out_id AND tx_out.index = tx_in.tx_out_index)
		LEFT JOIN tx ON tx.id = tx_in.tx_in_id
		LEFT JOIN ma_tx_out ON tx_out.id = ma_tx_out.tx_out_id
		WHERE tx.hash = $1
	`,
	current: `
		SELECT
			tx_out.id, tx_out.index, tx_out.address, tx_out.value,
			(SELECT hash FROM tx WHERE id = tx_out.tx_id) AS tx_hash,
			ma_tx_out.id, join_ma_out.policy, join_ma_out.name, ma_tx_out.quantity
		FROM tx_in
		LEFT JOIN tx_out ON (tx_out.tx_id = tx_in.tx_out_id AND tx_out.index = tx_in.tx_out_index)
		LEFT JOIN tx ON tx.id = tx_in.tx_in_id
		LEFT JOIN ma_tx_out ON tx_out.id = ma_tx_out.tx_out_id
		LEFT JOIN multi_asset join_ma_out ON ma_tx_out.ident = join_ma_out.id
		WHERE tx.hash = $1
	`,
	scan: func(s RowScanner) (ledger.TxInRow, error) {
		var r ledger.TxInRow
		err := s.Scan(
			&r.TxOutID, &r.UtxoIx, &r.Address, &r.Value, &r.TxHash,
			&r.MaTxOutID, &r.MaTxOutPolicy, &r.MaTxOutName, &r.MaTxOutQuantity,
		)
		return r, err
	},
}

var collateralTxInsQuery = queryDescriptor[ledger.CollateralTxInRow]{
	name: "collateral_tx_ins",
	current: `
		SELECT
			tx_out.id, tx_out.index, tx_out.address, tx_out.value,
			(SELECT hash FROM tx WHERE id = tx_out.tx_id) AS tx_hash
		FROM collateral_tx_in
		LEFT JOIN tx_out ON (tx_out.tx_id = collateral_tx_in.tx_out_id AND tx_out.index = collateral_tx_in.tx_out_index)
		LEFT JOIN tx ON tx.id = collateral_tx_in.tx_in_id
		WHERE tx.hash = $1
	`,
	scan: func(s RowScanner) (ledger.CollateralTxInRow, error) {
		var r ledger.CollateralTxInRow
		err := s.Scan(&r.TxOutID, &r.UtxoIx, &r.Address, &r.Value, &r.TxHash)
		return r, err
	},
}

var plutusScriptsQuery = queryDescriptor[ledger.ScriptRow]{
	name: "plutus_scripts",
	current: `
		SELECT script.id, script.tx_id, script.hash, script.type::text, script.serialised_size
		FROM script
		LEFT JOIN tx ON tx.id = script.tx_id
		WHERE tx.hash = $1
	`,
	scan: func(s RowScanner) (ledger.ScriptRow, error) {
		var r ledger.ScriptRow
		err := s.Scan(&r.ID, &r.TxID, &r.Hash, &r.Type, &r.SerialisedSize)
		return r, err
	},
}

var redeemersQuery = queryDescriptor[ledger.RedeemerRow]{
	name: "redeemers",
	current: `
		SELECT
			redeemer.id, redeemer.tx_id, redeemer.unit_mem, redeemer.unit_steps, redeemer.fee,
			redeemer.purpose::text, redeemer.script_hash
		FROM redeemer
		LEFT JOIN tx ON tx.id = redeemer.tx_id
		WHERE tx.hash = $1
	`,
	scan: func(s RowScanner) (ledger.RedeemerRow, error) {
		var r ledger.RedeemerRow
		err := s.Scan(&r.ID, &r.TxID, &r.UnitMem, &r.UnitSteps, &r.Fee, &r.Purpose, &r.ScriptHash)
		return r, err
	},
}

var txMetadataQuery = queryDescriptor[ledger.MetadataRow]{
	name: "tx_metadata",
	current: `
		SELECT tx_metadata.id, tx_metadata.key, tx_metadata.json, tx_metadata.bytes, tx_metadata.tx_id
		FROM tx_metadata
		INNER JOIN tx ON tx.id = tx_metadata.tx_id
		WHERE tx.hash = $1
	`,
	scan: func(s RowScanner) (ledger.MetadataRow, error) {
		var r ledger.MetadataRow
		err := s.Scan(&r.ID, &r.Key, &r.JSON, &r.Bytes, &r.TxID)
		return r, err
	},
}

// QueryTx streams the rows of a transaction, one per output / output asset /
// minted asset combination.
func (s *Service) QueryTx(ctx context.Context, txHash string) (*Rows[ledger.TxRow], error) {
	return streamByTxHash(ctx, s, txQuery, txHash)
}

// QueryTxIns streams the outputs spent by a transaction.
func (s *Service) QueryTxIns(ctx context.Context, txHash string) (*Rows[ledger.TxInRow], error) {
	return streamByTxHash(ctx, s, txInsQuery, txHash)
}

func (s *Service) QueryCollateralTxIns(ctx context.Context, txHash string) (*Rows[ledger.CollateralTxInRow], error) {
	return streamByTxHash(ctx, s, collateralTxInsQuery, txHash)
}

func (s *Service) QueryPlutusScripts(ctx context.Context, txHash string) (*Rows[ledger.ScriptRow], error) {
	return streamByTxHash(ctx, s, plutusScriptsQuery, txHash)
}

func (s *Service) QueryRedeemers(ctx context.Context, txHash string) (*Rows[ledger.RedeemerRow], error) {
	return streamByTxHash(ctx, s, redeemersQuery, txHash)
}

func (s *Service) QueryTxMetadata(ctx context.Context, txHash string) (*Rows[ledger.MetadataRow], error) {
	return streamByTxHash(ctx, s, txMetadataQuery, txHash)
}

func streamByTxHash[T any](ctx context.Context, s *Service, d queryDescriptor[T], txHash string) (*Rows[T], error) {
	arg, err := txHashArg(txHash)
	if err != nil {
		return nil, err
	}
	return stream(ctx, s, d, arg)
}
