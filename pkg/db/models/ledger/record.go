package ledger

import (
	"github.com/guregu/null"
	"github.com/shopspring/decimal"
)

// Asset is a multi-asset amount in an output or a mint.
type Asset struct {
	ID       int64           `json:"id"`
	Policy   Hash            `json:"policy"`
	Name     Hash            `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
}

type TxOut struct {
	ID      int64           `json:"id"`
	UtxoIx  int64           `json:"utxo_ix"`
	Address string          `json:"address"`
	Value   decimal.Decimal `json:"value"`
	Assets  []Asset         `json:"assets,omitempty"`
}

// TxRecord is a transaction with its fan-out rows folded back together and
// the certificates, withdrawals and scripts it carries attached.
type TxRecord struct {
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

	TxIns      []TxInRow           `json:"tx_ins"`
	TxOuts     []TxOut             `json:"tx_outs"`
	Mint       []Asset             `json:"mint,omitempty"`
	Collateral []CollateralTxInRow `json:"collateral,omitempty"`

	Metadata            []MetadataRow    `json:"metadata,omitempty"`
	Reserve             []ADAStashRow    `json:"reserve,omitempty"`
	Treasury            []ADAStashRow    `json:"treasury,omitempty"`
	PotTransfers        []PotTransferRow `json:"pot_transfers,omitempty"`
	StakeRegistration   []string         `json:"stake_registration,omitempty"`
	StakeDeregistration []string         `json:"stake_deregistration,omitempty"`
	StakeDelegation     []StakeDelegRow  `json:"stake_delegation,omitempty"`
	Withdrawals         []WithdrawalRow  `json:"withdrawals,omitempty"`
	Scripts             []ScriptRow      `json:"scripts,omitempty"`
	Redeemers           []RedeemerRow    `json:"redeemers,omitempty"`
}
