package ledger

import (
	"github.com/guregu/null"
	"github.com/shopspring/decimal"
)

// ADAStashRow is a MIR transfer from the reserves or the treasury to a stake address.
type ADAStashRow struct {
	ID        int64           `json:"id"`
	AddrView  string          `json:"addr_view"`
	CertIndex int64           `json:"cert_index"`
	Amount    decimal.Decimal `json:"amount"`
	TxID      int64           `json:"tx_id"`
}

// PotTransferRow moves funds between the reserves and the treasury.
type PotTransferRow struct {
	ID        int64           `json:"id"`
	CertIndex int64           `json:"cert_index"`
	Treasury  decimal.Decimal `json:"treasury"`
	Reserves  decimal.Decimal `json:"reserves"`
	TxID      int64           `json:"tx_id"`
}

// StakeAddrRow is a stake (de)registration certificate.
type StakeAddrRow struct {
	ID   int64  `json:"id"`
	View string `json:"view"`
	TxID int64  `json:"tx_id"`
}

type StakeDelegRow struct {
	TxID          int64       `json:"tx_id"`
	ActiveEpochNo null.Int    `json:"active_epoch_no"`
	PoolID        null.String `json:"pool_id"`
	Address       null.String `json:"address"`
}

type WithdrawalRow struct {
	TxID    int64           `json:"tx_id"`
	Address string          `json:"address"`
	Amount  decimal.Decimal `json:"amount"`
}
