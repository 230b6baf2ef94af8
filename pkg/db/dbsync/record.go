package dbsync

import (
	"context"
	"fmt"

	"github.com/cardano-node-tests/dbsyncx/pkg/db/models/ledger"
)

// GetTxRecord loads a transaction and folds its fan-out rows into one record.
// Detail tables are only queried when the tx row counted entries in them.
// The single connection cannot interleave result sets, so every stream is
// drained before the next query is sent.
func (s *Service) GetTxRecord(ctx context.Context, txHash string) (*ledger.TxRecord, error) {
	rows, err := s.QueryTx(ctx, txHash)
	if err != nil {
		return nil, err
	}
	txRows, err := rows.Collect()
	if err != nil {
		return nil, fmt.Errorf("failed to read tx %s: %w", txHash, err)
	}
	if len(txRows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTxNotFound, txHash)
	}

	rec := foldTxRows(txRows)
	counts := txRows[0]

	rec.TxIns, err = collect(ctx, txHash, s.QueryTxIns)
	if err != nil {
		return nil, err
	}

	if counts.CollateralCount > 0 {
		if rec.Collateral, err = collect(ctx, txHash, s.QueryCollateralTxIns); err != nil {
			return nil, err
		}
	}
	if counts.MetadataCount > 0 {
		if rec.Metadata, err = collect(ctx, txHash, s.QueryTxMetadata); err != nil {
			return nil, err
		}
	}
	if counts.ReserveCount > 0 {
		if rec.Reserve, err = collect(ctx, txHash, s.QueryTxReserve); err != nil {
			return nil, err
		}
	}
	if counts.TreasuryCount > 0 {
		if rec.Treasury, err = collect(ctx, txHash, s.QueryTxTreasury); err != nil {
			return nil, err
		}
	}
	if counts.PotTransferCount > 0 {
		if rec.PotTransfers, err = collect(ctx, txHash, s.QueryTxPotTransfers); err != nil {
			return nil, err
		}
	}
	if counts.StakeRegCount > 0 {
		regs, err := collect(ctx, txHash, s.QueryTxStakeReg)
		if err != nil {
			return nil, err
		}
		rec.StakeRegistration = stakeViews(regs)
	}
	if counts.StakeDeregCount > 0 {
		deregs, err := collect(ctx, txHash, s.QueryTxStakeDereg)
		if err != nil {
			return nil, err
		}
		rec.StakeDeregistration = stakeViews(deregs)
	}
	if counts.StakeDelegCount > 0 {
		if rec.StakeDelegation, err = collect(ctx, txHash, s.QueryTxStakeDeleg); err != nil {
			return nil, err
		}
	}
	if counts.WithdrawalCount > 0 {
		if rec.Withdrawals, err = collect(ctx, txHash, s.QueryTxWithdrawal); err != nil {
			return nil, err
		}
	}
	if counts.ScriptCount > 0 {
		if rec.Scripts, err = collect(ctx, txHash, s.QueryPlutusScripts); err != nil {
			return nil, err
		}
	}
	if counts.RedeemerCount > 0 {
		if rec.Redeemers, err = collect(ctx, txHash, s.QueryRedeemers); err != nil {
			return nil, err
		}
	}

	return rec, nil
}

func collect[T any](ctx context.Context, txHash string, query func(context.Context, string) (*Rows[T], error)) ([]T, error) {
	rows, err := query(ctx, txHash)
	if err != nil {
		return nil, err
	}
	return rows.Collect()
}

// foldTxRows merges the output x output-asset x mint product back into
// distinct outputs, output assets and mints, keeping first-seen order.
func foldTxRows(rows []ledger.TxRow) *ledger.TxRecord {
	first := rows[0]
	rec := &ledger.TxRecord{
		TxID:             first.TxID,
		TxHash:           first.TxHash,
		BlockID:          first.BlockID,
		BlockIndex:       first.BlockIndex,
		OutSum:           first.OutSum,
		Fee:              first.Fee,
		Deposit:          first.Deposit,
		Size:             first.Size,
		InvalidBefore:    first.InvalidBefore,
		InvalidHereafter: first.InvalidHereafter,
	}

	outIdx := make(map[int64]int)
	seenOutAsset := make(map[int64]struct{})
	seenMint := make(map[int64]struct{})

	for _, r := range rows {
		if r.TxOutID.Valid {
			i, ok := outIdx[r.TxOutID.Int64]
			if !ok {
				i = len(rec.TxOuts)
				outIdx[r.TxOutID.Int64] = i
				rec.TxOuts = append(rec.TxOuts, ledger.TxOut{
					ID:      r.TxOutID.Int64,
					UtxoIx:  r.UtxoIx.Int64,
					Address: r.TxOutAddr.String,
					Value:   r.TxOutValue.Decimal,
				})
			}
			if r.MaTxOutID.Valid {
				if _, dup := seenOutAsset[r.MaTxOutID.Int64]; !dup {
					seenOutAsset[r.MaTxOutID.Int64] = struct{}{}
					rec.TxOuts[i].Assets = append(rec.TxOuts[i].Assets, ledger.Asset{
						ID:       r.MaTxOutID.Int64,
						Policy:   r.MaTxOutPolicy,
						Name:     r.MaTxOutName,
						Quantity: r.MaTxOutQuantity.Decimal,
					})
				}
			}
		}

		if r.MaTxMintID.Valid {
			if _, dup := seenMint[r.MaTxMintID.Int64]; !dup {
				seenMint[r.MaTxMintID.Int64] = struct{}{}
				rec.Mint = append(rec.Mint, ledger.Asset{
					ID:       r.MaTxMintID.Int64,
					Policy:   r.MaTxMintPolicy,
					Name:     r.MaTxMintName,
					Quantity: r.MaTxMintQuantity.Decimal,
				})
			}
		}
	}

	return rec
}

func stakeViews(rows []ledger.StakeAddrRow) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.View)
	}
	return out
}
