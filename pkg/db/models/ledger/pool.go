package ledger

import (
	"github.com/guregu/null"
	"github.com/shopspring/decimal"
)

// PoolDataRow is one row of the pool registration query. A pool with several
// owners, relays or updates produces one row per combination; metadata,
// relay and retirement columns come from FULL JOINs and may be null.
type PoolDataRow struct {
	ID             int64           `json:"id"`
	Hash           Hash            `json:"hash"`
	View           string          `json:"view"`
	CertIndex      int64           `json:"cert_index"`
	VrfKeyHash     Hash            `json:"vrf_key_hash"`
	Pledge         decimal.Decimal `json:"pledge"`
	RewardAddr     Hash            `json:"reward_addr"`
	ActiveEpochNo  int64           `json:"active_epoch_no"`
	MetaID         null.Int        `json:"meta_id"`
	Margin         float64         `json:"margin"`
	FixedCost      decimal.Decimal `json:"fixed_cost"`
	RegisteredTxID int64           `json:"registered_tx_id"`

	MetadataURL  null.String `json:"metadata_url"`
	MetadataHash Hash        `json:"metadata_hash"`

	OwnerStakeAddressID int64 `json:"owner_stake_address_id"`
	Owner               Hash  `json:"owner"`

	IPv4    null.String `json:"ipv4"`
	IPv6    null.String `json:"ipv6"`
	DNSName null.String `json:"dns_name"`
	Port    null.Int    `json:"port"`

	RetireCertIndex     null.Int `json:"retire_cert_index"`
	RetireAnnouncedTxID null.Int `json:"retire_announced_tx_id"`
	RetiringEpoch       null.Int `json:"retiring_epoch"`
}
