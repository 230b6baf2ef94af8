package dbsync

import (
	"context"
	"fmt"

	"github.com/cardano-node-tests/dbsyncx/pkg/db/models/ledger"
)

var adaPotsQuery = queryDescriptor[ledger.ADAPotsRow]{
	name: "ada_pots",
	current: `
		SELECT id, slot_no, epoch_no, treasury, reserves, rewards, utxo, deposits, fees, block_id
		FROM ada_pots
		WHERE epoch_no BETWEEN $1 AND $2
		ORDER BY epoch_no
	`,
	scan: func(s RowScanner) (ledger.ADAPotsRow, error) {
		var r ledger.ADAPotsRow
		err := s.Scan(&r.ID, &r.SlotNo, &r.EpochNo, &r.Treasury, &r.Reserves, &r.Rewards,
			&r.Utxo, &r.Deposits, &r.Fees, &r.BlockID)
		return r, err
	},
}

var addressRewardQuery = queryDescriptor[ledger.RewardRow]{
	name: "address_reward",
	current: `
		SELECT
			stake_address.view, reward.type::text, reward.amount, reward.earned_epoch,
			reward.spendable_epoch, pool_hash.view AS pool_view
		FROM reward
		INNER JOIN stake_address ON reward.addr_id = stake_address.id
		INNER JOIN pool_hash ON pool_hash.id = reward.pool_id
		WHERE (stake_address.view = $1) AND (reward.spendable_epoch BETWEEN $2 AND $3)
	`,
	scan: func(s RowScanner) (ledger.RewardRow, error) {
		var r ledger.RewardRow
		err := s.Scan(&r.Address, &r.Type, &r.Amount, &r.EarnedEpoch, &r.SpendableEpoch, &r.PoolID)
		return r, err
	},
}

const blockColumns = `id, epoch_no, slot_no, epoch_slot_no, block_no, previous_id`

func scanBlock(s RowScanner) (ledger.BlockRow, error) {
	var r ledger.BlockRow
	err := s.Scan(&r.ID, &r.EpochNo, &r.SlotNo, &r.EpochSlotNo, &r.BlockNo, &r.PreviousID)
	return r, err
}

var blocksQuery = queryDescriptor[ledger.BlockRow]{
	name: "blocks",
	current: `
		SELECT ` + blockColumns + `
		FROM block
		WHERE (epoch_no BETWEEN $1 AND $2)
	`,
	scan: scanBlock,
}

var latestBlockQuery = queryDescriptor[ledger.BlockRow]{
	name: "latest_block",
	current: `
		SELECT ` + blockColumns + `
		FROM block
		ORDER BY id DESC
		LIMIT 1
	`,
	scan: scanBlock,
}

var epochParamsQuery = queryDescriptor[ledger.EpochParamRow]{
	name: "epoch_params",
	current: `
		SELECT
			epoch_no, min_fee_a, min_fee_b, max_block_size, max_tx_size, max_bh_size,
			key_deposit, pool_deposit, max_epoch, optimal_pool_count, influence,
			monetary_expand_rate, treasury_growth_rate, protocol_major, protocol_minor,
			min_utxo_value, min_pool_cost
		FROM epoch_param
		WHERE epoch_no = $1
	`,
	scan: func(s RowScanner) (ledger.EpochParamRow, error) {
		var r ledger.EpochParamRow
		err := s.Scan(&r.EpochNo, &r.MinFeeA, &r.MinFeeB, &r.MaxBlockSize, &r.MaxTxSize, &r.MaxBhSize,
			&r.KeyDeposit, &r.PoolDeposit, &r.MaxEpoch, &r.OptimalPoolCount, &r.Influence,
			&r.MonetaryExpandRate, &r.TreasuryGrowthRate, &r.ProtocolMajor, &r.ProtocolMinor,
			&r.MinUtxoValue, &r.MinPoolCost)
		return r, err
	},
}

// QueryADAPots streams the pot snapshots taken in the given epochs.
func (s *Service) QueryADAPots(ctx context.Context, epochs EpochRange) (*Rows[ledger.ADAPotsRow], error) {
	return stream(ctx, s, adaPotsQuery, epochs.From, epochs.To)
}

// QueryAddressReward streams the rewards of a stake address (bech32 view)
// that become spendable in the given epochs.
func (s *Service) QueryAddressReward(ctx context.Context, address string, epochs EpochRange) (*Rows[ledger.RewardRow], error) {
	return stream(ctx, s, addressRewardQuery, address, epochs.From, epochs.To)
}

func (s *Service) QueryBlocks(ctx context.Context, epochs EpochRange) (*Rows[ledger.BlockRow], error) {
	return stream(ctx, s, blocksQuery, epochs.From, epochs.To)
}

// QueryEpochParams streams the protocol parameters recorded for an epoch.
// db-sync writes at most one row per epoch.
func (s *Service) QueryEpochParams(ctx context.Context, epoch int64) (*Rows[ledger.EpochParamRow], error) {
	return stream(ctx, s, epochParamsQuery, epoch)
}

// LatestBlock returns the tip of the chain as far as db-sync has synced.
func (s *Service) LatestBlock(ctx context.Context) (ledger.BlockRow, error) {
	rows, err := stream(ctx, s, latestBlockQuery)
	if err != nil {
		return ledger.BlockRow{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return ledger.BlockRow{}, err
		}
		return ledger.BlockRow{}, fmt.Errorf("latest_block: block table is empty")
	}
	return rows.Row(), nil
}
