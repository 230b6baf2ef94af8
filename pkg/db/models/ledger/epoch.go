package ledger

import (
	"github.com/guregu/null"
	"github.com/shopspring/decimal"
)

// ADAPotsRow is the snapshot of the ledger pots taken at an epoch boundary.
type ADAPotsRow struct {
	ID       int64           `json:"id"`
	SlotNo   int64           `json:"slot_no"`
	EpochNo  int64           `json:"epoch_no"`
	Treasury decimal.Decimal `json:"treasury"`
	Reserves decimal.Decimal `json:"reserves"`
	Rewards  decimal.Decimal `json:"rewards"`
	Utxo     decimal.Decimal `json:"utxo"`
	Deposits decimal.Decimal `json:"deposits"`
	Fees     decimal.Decimal `json:"fees"`
	BlockID  int64           `json:"block_id"`
}

type RewardRow struct {
	Address        string          `json:"address"`
	Type           string          `json:"type"`
	Amount         decimal.Decimal `json:"amount"`
	EarnedEpoch    int64           `json:"earned_epoch"`
	SpendableEpoch int64           `json:"spendable_epoch"`
	PoolID         string          `json:"pool_id"`
}

// BlockRow columns are nullable: Byron epoch boundary blocks have no slot.
type BlockRow struct {
	ID          int64    `json:"id"`
	EpochNo     null.Int `json:"epoch_no"`
	SlotNo      null.Int `json:"slot_no"`
	EpochSlotNo null.Int `json:"epoch_slot_no"`
	BlockNo     null.Int `json:"block_no"`
	PreviousID  null.Int `json:"previous_id"`
}

// EpochParamRow holds the protocol parameters in effect for an epoch.
type EpochParamRow struct {
	EpochNo            int64               `json:"epoch_no"`
	MinFeeA            int64               `json:"min_fee_a"`
	MinFeeB            int64               `json:"min_fee_b"`
	MaxBlockSize       int64               `json:"max_block_size"`
	MaxTxSize          int64               `json:"max_tx_size"`
	MaxBhSize          int64               `json:"max_bh_size"`
	KeyDeposit         decimal.Decimal     `json:"key_deposit"`
	PoolDeposit        decimal.Decimal     `json:"pool_deposit"`
	MaxEpoch           int64               `json:"max_epoch"`
	OptimalPoolCount   int64               `json:"optimal_pool_count"`
	Influence          float64             `json:"influence"`
	MonetaryExpandRate float64             `json:"monetary_expand_rate"`
	TreasuryGrowthRate float64             `json:"treasury_growth_rate"`
	ProtocolMajor      int64               `json:"protocol_major"`
	ProtocolMinor      int64               `json:"protocol_minor"`
	MinUtxoValue       decimal.NullDecimal `json:"min_utxo_value"`
	MinPoolCost        decimal.Decimal     `json:"min_pool_cost"`
}
