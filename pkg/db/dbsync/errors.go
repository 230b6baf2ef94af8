package dbsync

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoSchemaVersion is wrapped by SchemaUnavailableError when the
	// schema_version table holds no row.
	ErrNoSchemaVersion = errors.New("schema_version table is empty")
	// ErrInvalidHash rejects a tx hash that is not hex before any query runs.
	ErrInvalidHash = errors.New("invalid transaction hash")
	// ErrTxNotFound is returned by GetTxRecord when db-sync has no such tx.
	ErrTxNotFound = errors.New("transaction not found in db-sync")
)

// QueryError is a query that failed even after the reconnect-and-retry cycle,
// or that broke while its rows were being read.
type QueryError struct {
	Query    string
	Attempts int
	Err      error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("dbsync query %q failed after %d attempt(s): %v", summarize(e.Query), e.Attempts, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// SchemaUnavailableError means the schema version could not be determined.
// It points at a deployment mismatch and is never retried.
type SchemaUnavailableError struct {
	Err error
}

func (e *SchemaUnavailableError) Error() string {
	return fmt.Sprintf("dbsync schema version unavailable: %v", e.Err)
}

func (e *SchemaUnavailableError) Unwrap() error {
	return e.Err
}

// summarize keeps error messages readable for the multi-line queries.
func summarize(query string) string {
	q := strings.Join(strings.Fields(query), " ")
	if len(q) > 80 {
		return q[:77] + "..."
	}
	return q
}
