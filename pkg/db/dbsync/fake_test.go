package dbsync

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/cardano-node-tests/dbsyncx/pkg/db/postgres"
	"github.com/cardano-node-tests/dbsyncx/pkg/retry"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

var (
	errConnReset  = errors.New("conn closed: unexpected EOF")
	errServerGone = errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")
)

// fakeResult answers every query containing match.
type fakeResult struct {
	match string
	rows  [][]any
	// err fails Query itself, rowErr fails the first fetch. Both only apply
	// while failures > 0, unless failures is -1.
	err      error
	rowErr   error
	failures int
}

type fakeQuery struct {
	sql  string
	args []any
}

// fakeDB plays a db-sync database behind a dialer. Connections can be broken
// and the server taken down to drive the reconnect paths.
type fakeDB struct {
	results []*fakeResult
	queries []fakeQuery
	conns   []*fakeConn
	rows    []*fakeRows
	down    bool
}

func newFakeDB(one, two, three int) *fakeDB {
	db := &fakeDB{}
	db.on("FROM schema_version", []any{one, two, three})
	return db
}

func (db *fakeDB) on(match string, rows ...[]any) *fakeResult {
	r := &fakeResult{match: match, rows: rows}
	// later registrations win
	db.results = append([]*fakeResult{r}, db.results...)
	return r
}

func (db *fakeDB) dial(context.Context) (postgres.Conn, error) {
	if db.down {
		return nil, errServerGone
	}
	c := &fakeConn{db: db}
	db.conns = append(db.conns, c)
	return c, nil
}

// breakConn makes the current connection fail every query from now on.
func (db *fakeDB) breakConn() {
	if len(db.conns) > 0 {
		db.conns[len(db.conns)-1].broken = true
	}
}

func (db *fakeDB) lastRows() *fakeRows {
	if len(db.rows) == 0 {
		return nil
	}
	return db.rows[len(db.rows)-1]
}

// queried counts the recorded queries containing match.
func (db *fakeDB) queried(match string) int {
	n := 0
	for _, q := range db.queries {
		if strings.Contains(q.sql, match) {
			n++
		}
	}
	return n
}

func (db *fakeDB) lastQuery() fakeQuery {
	return db.queries[len(db.queries)-1]
}

type fakeConn struct {
	db     *fakeDB
	broken bool
	closed bool
}

func (c *fakeConn) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	c.db.queries = append(c.db.queries, fakeQuery{sql: sql, args: args})
	if c.broken || c.closed || c.db.down {
		return nil, errConnReset
	}

	rows := &fakeRows{}
	for _, r := range c.db.results {
		if !strings.Contains(sql, r.match) {
			continue
		}
		failing := r.failures != 0
		if failing && r.failures > 0 {
			r.failures--
		}
		if failing && r.err != nil {
			return nil, r.err
		}
		if failing && r.rowErr != nil {
			rows.err = r.rowErr
		} else {
			rows.data = r.rows
		}
		break
	}
	c.db.rows = append(c.db.rows, rows)
	return rows, nil
}

func (c *fakeConn) Ping(context.Context) error {
	if c.broken {
		return errConnReset
	}
	return nil
}

func (c *fakeConn) Close(context.Context) error {
	c.closed = true
	if c.broken {
		return errConnReset
	}
	return nil
}

// fakeRows is an in-memory pgx.Rows. Scan mimics pgx closely enough for the
// destination types the row decoders use.
type fakeRows struct {
	data   [][]any
	pos    int
	err    error
	closed bool
	// scanErr fails Scan on the row with this 1-based position.
	scanErr int
}

func (r *fakeRows) Close() { r.closed = true }

func (r *fakeRows) Err() error { return r.err }

func (r *fakeRows) CommandTag() pgconn.CommandTag { return pgconn.NewCommandTag("SELECT") }

func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }

func (r *fakeRows) Next() bool {
	if r.closed || r.err != nil || r.pos >= len(r.data) {
		r.closed = true
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	if r.pos == 0 || r.pos > len(r.data) {
		return errors.New("no row to scan")
	}
	if r.scanErr == r.pos {
		return errors.New("can't scan into dest[0]: cannot scan text into *int64")
	}
	row := r.data[r.pos-1]
	if len(row) != len(dest) {
		return fmt.Errorf("number of field descriptions must equal number of destinations, got %d and %d", len(row), len(dest))
	}
	for i, d := range dest {
		if err := assign(d, row[i]); err != nil {
			return fmt.Errorf("can't scan into dest[%d]: %w", i, err)
		}
	}
	return nil
}

func (r *fakeRows) Values() ([]any, error) {
	if r.pos == 0 || r.pos > len(r.data) {
		return nil, errors.New("no row")
	}
	return r.data[r.pos-1], nil
}

func (r *fakeRows) RawValues() [][]byte { return nil }

func (r *fakeRows) Conn() *pgx.Conn { return nil }

type bytesScanner interface {
	ScanBytes(v []byte) error
}

func assign(dest, v any) error {
	if bs, ok := dest.(bytesScanner); ok {
		switch b := v.(type) {
		case nil:
			return bs.ScanBytes(nil)
		case []byte:
			return bs.ScanBytes(b)
		}
	}
	if sc, ok := dest.(sql.Scanner); ok {
		return sc.Scan(v)
	}

	dv := reflect.ValueOf(dest)
	if dv.Kind() != reflect.Pointer || dv.IsNil() {
		return fmt.Errorf("destination %T is not a pointer", dest)
	}
	target := dv.Elem()
	if v == nil {
		target.Set(reflect.Zero(target.Type()))
		return nil
	}

	sv := reflect.ValueOf(v)
	switch {
	case sv.Type().AssignableTo(target.Type()):
		target.Set(sv)
	case isNumber(sv.Kind()) && isNumber(target.Kind()),
		sv.Kind() == target.Kind() && sv.Type().ConvertibleTo(target.Type()):
		target.Set(sv.Convert(target.Type()))
	default:
		return fmt.Errorf("cannot scan %T into %T", v, dest)
	}
	return nil
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func newTestService(t *testing.T, db *fakeDB) (*Service, *postgres.Manager) {
	t.Helper()
	mgr := postgres.NewManagerWithDialer(zap.NewNop(), db.dial, retry.Config{MaxAttempts: 1})
	return New(zap.NewNop(), mgr), mgr
}
