package dbsync

import (
	"context"
	"fmt"
)

// queryDescriptor ties a logical query to its SQL texts and row decoder.
// legacy is only set for queries whose shape changed with the multi_asset
// table; the text is chosen from the cached schema version on every call.
type queryDescriptor[T any] struct {
	name    string
	current string
	legacy  string
	scan    func(RowScanner) (T, error)
}

func (d queryDescriptor[T]) sql(v SchemaVersion) string {
	if d.legacy != "" && v.MultiAssetVariant() == VariantLegacy {
		return d.legacy
	}
	return d.current
}

// stream resolves the schema version, picks the query text and returns the
// lazy rows. This is also what moves a fresh Service into its ready state.
func stream[T any](ctx context.Context, s *Service, d queryDescriptor[T], args ...any) (*Rows[T], error) {
	v, err := s.Schema.Stages(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", d.name, err)
	}

	cur, err := s.Exec.Execute(ctx, d.sql(v), args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", d.name, err)
	}

	return newRows(cur, d.scan), nil
}
