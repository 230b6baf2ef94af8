package dbsync

import (
	"context"
	"slices"
	"strings"
)

const tableNamesQuery = `
	SELECT tablename
	FROM pg_catalog.pg_tables
	WHERE schemaname != 'pg_catalog' AND schemaname != 'information_schema'
	ORDER BY tablename ASC
`

// ListTableNames returns the user table names visible in the database,
// sorted and de-duplicated, without system (pg_*) tables. Callers use it to
// check that a schema is complete, so it does not need schema_version.
func (s *Service) ListTableNames(ctx context.Context) ([]string, error) {
	var names []string
	err := s.Exec.With(ctx, tableNamesQuery, nil, func(cur *Cursor) error {
		return cur.FetchAll(func(row RowScanner) error {
			var name string
			if err := row.Scan(&name); err != nil {
				return err
			}
			if !strings.HasPrefix(name, "pg_") {
				names = append(names, name)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	// collation order in postgres is not byte order; tables with the same
	// name in several schemas show up more than once
	slices.Sort(names)
	return slices.Compact(names), nil
}
