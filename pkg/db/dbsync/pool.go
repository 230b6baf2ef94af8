package dbsync

import (
	"context"

	"github.com/cardano-node-tests/dbsyncx/pkg/db/models/ledger"
)

var poolDataQuery = queryDescriptor[ledger.PoolDataRow]{
	name: "pool_data",
	current: `
		SELECT DISTINCT
			pool_hash.id, pool_hash.hash_raw, pool_hash.view,
			pool_update.cert_index, pool_update.vrf_key_hash, pool_update.pledge,
			pool_update.reward_addr, pool_update.active_epoch_no, pool_update.meta_id,
			pool_update.margin, pool_update.fixed_cost, pool_update.registered_tx_id,
			pool_metadata_ref.url AS metadata_url, pool_metadata_ref.hash AS metadata_hash,
			pool_owner.addr_id AS owner_stake_address_id,
			stake_address.hash_raw AS owner,
			pool_relay.ipv4, pool_relay.ipv6, pool_relay.dns_name, pool_relay.port,
			pool_retire.cert_index AS retire_cert_index,
			pool_retire.announced_tx_id AS retire_announced_tx_id, pool_retire.retiring_epoch
		FROM pool_hash
		INNER JOIN pool_update ON pool_hash.id = pool_update.hash_id
		FULL JOIN pool_metadata_ref ON pool_update.meta_id = pool_metadata_ref.id
		INNER JOIN pool_owner ON pool_hash.id = pool_owner.pool_hash_id
		FULL JOIN pool_relay ON pool_update.id = pool_relay.update_id
		FULL JOIN pool_retire ON pool_hash.id = pool_retire.hash_id
		INNER JOIN stake_address ON pool_owner.addr_id = stake_address.id
		WHERE pool_hash.view = $1
		ORDER BY registered_tx_id
	`,
	scan: func(s RowScanner) (ledger.PoolDataRow, error) {
		var r ledger.PoolDataRow
		err := s.Scan(
			&r.ID, &r.Hash, &r.View,
			&r.CertIndex, &r.VrfKeyHash, &r.Pledge,
			&r.RewardAddr, &r.ActiveEpochNo, &r.MetaID,
			&r.Margin, &r.FixedCost, &r.RegisteredTxID,
			&r.MetadataURL, &r.MetadataHash,
			&r.OwnerStakeAddressID,
			&r.Owner,
			&r.IPv4, &r.IPv6, &r.DNSName, &r.Port,
			&r.RetireCertIndex,
			&r.RetireAnnouncedTxID, &r.RetiringEpoch,
		)
		return r, err
	},
}

// QueryPoolData streams the registration data of a pool by its bech32 id.
// Owners, relays and updates multiply the rows; consumers fold them.
func (s *Service) QueryPoolData(ctx context.Context, poolID string) (*Rows[ledger.PoolDataRow], error) {
	return stream(ctx, s, poolDataQuery, poolID)
}
