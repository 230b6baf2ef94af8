package ledger

import (
	"encoding/json"

	"github.com/guregu/null"
	"github.com/shopspring/decimal"
)

// TxRow is one row of the transaction query. The query fans out: one row per
// combination of output, output multi-asset and minted asset, so the tx
// columns repeat. Everything coming from a LEFT JOIN is nullable.
type TxRow struct {
	TxID             int64               `json:"tx_id"`
	TxHash           Hash                `json:"tx_hash"`
	BlockID          int64               `json:"block_id"`
	BlockIndex       int64               `json:"block_index"`
	OutSum           decimal.Decimal     `json:"out_sum"`
	Fee              decimal.Decimal     `json:"fee"`
	Deposit          null.Int            `json:"deposit"`
	Size             int64               `json:"size"`
	InvalidBefore    decimal.NullDecimal `json:"invalid_before"`
	InvalidHereafter decimal.NullDecimal `json:"invalid_hereafter"`

	TxOutID    null.Int            `json:"tx_out_id"`
	TxOutTxID  null.Int            `json:"tx_out_tx_id"`
	UtxoIx     null.Int            `json:"utxo_ix"`
	TxOutAddr  null.String         `json:"tx_out_addr"`
	TxOutValue decimal.NullDecimal `json:"tx_out_value"`

	MetadataCount    int64 `json:"metadata_count"`
	ReserveCount     int64 `json:"reserve_count"`
	TreasuryCount    int64 `json:"treasury_count"`
	PotTransferCount int64 `json:"pot_transfer_count"`
	StakeRegCount    int64 `json:"stake_reg_count"`
	StakeDeregCount  int64 `json:"stake_dereg_count"`
	StakeDelegCount  int64 `json:"stake_deleg_count"`
	WithdrawalCount  int64 `json:"withdrawal_count"`
	CollateralCount  int64 `json:"collateral_count"`
	ScriptCount      int64 `json:"script_count"`
	RedeemerCount    int64 `json:"redeemer_count"`

	MaTxOutID       null.Int            `json:"ma_tx_out_id"`
	MaTxOutPolicy   Hash                `json:"ma_tx_out_policy"`
	MaTxOutName     Hash                `json:"ma_tx_out_name"`
	MaTxOutQuantity decimal.NullDecimal `json:"ma_tx_out_quantity"`

	MaTxMintID       null.Int            `json:"ma_tx_mint_id"`
	MaTxMintPolicy   Hash                `json:"ma_tx_mint_policy"`
	MaTxMintName     Hash                `json:"ma_tx_mint_name"`
	MaTxMintQuantity decimal.NullDecimal `json:"ma_tx_mint_quantity"`
}

// TxInRow is a spent output, joined with its multi-assets.
type TxInRow struct {
	TxOutID         null.Int            `json:"tx_out_id"`
	UtxoIx          null.Int            `json:"utxo_ix"`
	Address         null.String         `json:"address"`
	Value           decimal.NullDecimal `json:"value"`
	TxHash          Hash                `json:"tx_hash"`
	MaTxOutID       null.Int            `json:"ma_tx_out_id"`
	MaTxOutPolicy   Hash                `json:"ma_tx_out_policy"`
	MaTxOutName     Hash                `json:"ma_tx_out_name"`
	MaTxOutQuantity decimal.NullDecimal `json:"ma_tx_out_quantity"`
}

// CollateralTxInRow is an output used as collateral.
type CollateralTxInRow struct {
	TxOutID null.Int            `json:"tx_out_id"`
	UtxoIx  null.Int            `json:"utxo_ix"`
	Address null.String         `json:"address"`
	Value   decimal.NullDecimal `json:"value"`
	TxHash  Hash                `json:"tx_hash"`
}

type ScriptRow struct {
	ID             int64    `json:"id"`
	TxID           int64    `json:"tx_id"`
	Hash           Hash     `json:"hash"`
	Type           string   `json:"type"`
	SerialisedSize null.Int `json:"serialised_size"`
}

type RedeemerRow struct {
	ID         int64           `json:"id"`
	TxID       int64           `json:"tx_id"`
	UnitMem    int64           `json:"unit_mem"`
	UnitSteps  int64           `json:"unit_steps"`
	Fee        decimal.Decimal `json:"fee"`
	Purpose    string          `json:"purpose"`
	ScriptHash Hash            `json:"script_hash"`
}

// MetadataRow carries both the JSON and the raw CBOR rendering of a label.
type MetadataRow struct {
	ID    int64           `json:"id"`
	Key   decimal.Decimal `json:"key"`
	JSON  json.RawMessage `json:"json"`
	Bytes Hash            `json:"bytes"`
	TxID  int64           `json:"tx_id"`
}
