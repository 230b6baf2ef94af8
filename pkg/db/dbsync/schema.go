package dbsync

import (
	"context"
	"fmt"
	"sync"

	"github.com/cardano-node-tests/dbsyncx/pkg/db/postgres"
	"go.uber.org/zap"
)

const schemaVersionQuery = `SELECT stage_one, stage_two, stage_three FROM schema_version ORDER BY id DESC LIMIT 1`

// SchemaVersion is the (stage_one, stage_two, stage_three) revision of the
// deployed db-sync schema.
type SchemaVersion struct {
	One   int `json:"stage_one"`
	Two   int `json:"stage_two"`
	Three int `json:"stage_three"`
}

func (v SchemaVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", v.One, v.Two, v.Three)
}

// QueryVariant tags which SQL text a version-gated query uses.
type QueryVariant int

const (
	// VariantCurrent joins multi_asset for policy and asset name.
	VariantCurrent QueryVariant = iota
	// VariantLegacy reads policy and name straight off ma_tx_out / ma_tx_mint.
	VariantLegacy
)

func (q QueryVariant) String() string {
	if q == VariantLegacy {
		return "legacy"
	}
	return "current"
}

type stageRange struct {
	one            int
	twoMin, twoMax int
}

func (r stageRange) contains(v SchemaVersion) bool {
	return v.One == r.one && v.Two >= r.twoMin && v.Two <= r.twoMax
}

// legacyMultiAssetStages lists the deployed schemas that still carry the
// denormalized policy/name columns.
var legacyMultiAssetStages = []stageRange{
	{one: 9, twoMin: 20, twoMax: 24},
}

// MultiAssetVariant picks the multi-asset query shape for v. Versions outside
// the legacy ranges, including unknown ones, use the current shape.
func (v SchemaVersion) MultiAssetVariant() QueryVariant {
	for _, r := range legacyMultiAssetStages {
		if r.contains(v) {
			return VariantLegacy
		}
	}
	return VariantCurrent
}

// Resolver looks up the schema version once and keeps it for its lifetime.
// A schema migration requires a new Resolver.
type Resolver struct {
	Logger *zap.Logger

	conns  ConnSource
	mu     sync.Mutex
	stages *SchemaVersion
}

func NewResolver(logger *zap.Logger, conns ConnSource) *Resolver {
	return &Resolver{Logger: logger, conns: conns}
}

// Resolve reads the newest schema_version row over conn. It does not go
// through the executor: a missing version is a deployment error, and
// reconnecting would not fix it.
func (r *Resolver) Resolve(ctx context.Context, conn postgres.Conn) (SchemaVersion, error) {
	rows, err := conn.Query(ctx, schemaVersionQuery)
	if err != nil {
		return SchemaVersion{}, &SchemaUnavailableError{Err: err}
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return SchemaVersion{}, &SchemaUnavailableError{Err: err}
		}
		return SchemaVersion{}, &SchemaUnavailableError{Err: ErrNoSchemaVersion}
	}

	var v SchemaVersion
	if err := rows.Scan(&v.One, &v.Two, &v.Three); err != nil {
		return SchemaVersion{}, &SchemaUnavailableError{Err: fmt.Errorf("failed to scan schema_version: %w", err)}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return SchemaVersion{}, &SchemaUnavailableError{Err: err}
	}

	return v, nil
}

// Stages returns the cached schema version, resolving it on first use.
// A failed resolution is not cached, so a later call tries again.
func (r *Resolver) Stages(ctx context.Context) (SchemaVersion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stages != nil {
		return *r.stages, nil
	}

	conn, err := r.conns.Current(ctx)
	if err != nil {
		return SchemaVersion{}, err
	}

	v, err := r.Resolve(ctx, conn)
	if err != nil {
		return SchemaVersion{}, err
	}

	r.stages = &v
	r.Logger.Info("Resolved db-sync schema version",
		zap.Stringer("version", v),
		zap.Stringer("multi_asset_variant", v.MultiAssetVariant()))

	return v, nil
}
