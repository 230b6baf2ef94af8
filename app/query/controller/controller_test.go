package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cardano-node-tests/dbsyncx/app/query/types"
	"github.com/cardano-node-tests/dbsyncx/pkg/db/dbsync"
	"github.com/cardano-node-tests/dbsyncx/pkg/db/models/ledger"
	"github.com/cardano-node-tests/dbsyncx/pkg/db/postgres"
	"github.com/guregu/null"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// fakeStore answers from canned values and records the arguments it got.
type fakeStore struct {
	err error

	version dbsync.SchemaVersion
	tables  []string
	tip     ledger.BlockRow
	records map[string]*ledger.TxRecord
	delegs  []ledger.StakeDelegRow
	pots    []ledger.ADAPotsRow
	params  map[int64]ledger.EpochParamRow
	pools   map[string][]ledger.PoolDataRow

	lastLimit  int
	lastEpochs dbsync.EpochRange
	closed     bool
}

func (f *fakeStore) Ping(context.Context) error { return f.err }

func (f *fakeStore) Stages(context.Context) (dbsync.SchemaVersion, error) { return f.version, f.err }

func (f *fakeStore) ListTableNames(context.Context) ([]string, error) { return f.tables, f.err }

func (f *fakeStore) LatestBlock(context.Context) (ledger.BlockRow, error) { return f.tip, f.err }

func (f *fakeStore) GetTxRecord(_ context.Context, txHash string) (*ledger.TxRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	if _, err := ledger.HashFromHex(txHash); err != nil {
		return nil, fmt.Errorf("%w %q", dbsync.ErrInvalidHash, txHash)
	}
	rec, ok := f.records[txHash]
	if !ok {
		return nil, fmt.Errorf("%w: %s", dbsync.ErrTxNotFound, txHash)
	}
	return rec, nil
}

func (f *fakeStore) TxInputs(context.Context, string, int, func(ledger.TxInRow) error) error {
	return f.err
}

func (f *fakeStore) TxStakeDelegations(_ context.Context, _ string, limit int, fn func(ledger.StakeDelegRow) error) error {
	f.lastLimit = limit
	return emit(f.delegs, f.err, fn)
}

func (f *fakeStore) TxWithdrawals(context.Context, string, int, func(ledger.WithdrawalRow) error) error {
	return f.err
}

func (f *fakeStore) ADAPots(_ context.Context, epochs dbsync.EpochRange, limit int, fn func(ledger.ADAPotsRow) error) error {
	f.lastEpochs, f.lastLimit = epochs, limit
	return emit(f.pots, f.err, fn)
}

func (f *fakeStore) AddressRewards(_ context.Context, _ string, epochs dbsync.EpochRange, limit int, _ func(ledger.RewardRow) error) error {
	f.lastEpochs, f.lastLimit = epochs, limit
	return f.err
}

func (f *fakeStore) Blocks(_ context.Context, epochs dbsync.EpochRange, limit int, fn func(ledger.BlockRow) error) error {
	f.lastEpochs, f.lastLimit = epochs, limit
	return emit([]ledger.BlockRow{f.tip}, f.err, fn)
}

func (f *fakeStore) EpochParams(_ context.Context, epoch int64) (*ledger.EpochParamRow, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.params[epoch]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakeStore) PoolData(_ context.Context, poolID string, limit int, fn func(ledger.PoolDataRow) error) error {
	f.lastLimit = limit
	return emit(f.pools[poolID], f.err, fn)
}

func (f *fakeStore) Close(context.Context) error {
	f.closed = true
	return nil
}

// emit hands rows to fn the way a store streams them, unless err is set.
func emit[T any](rows []T, err error, fn func(T) error) error {
	if err != nil {
		return err
	}
	for _, row := range rows {
		if err := fn(row); err != nil {
			return err
		}
	}
	return nil
}

func newTestRouter(t *testing.T, store *fakeStore) http.Handler {
	t.Helper()
	app := &types.App{Store: store, Logger: zaptest.NewLogger(t)}
	router, err := NewController(app).NewRouter()
	require.NoError(t, err)
	return WithCORS(router)
}

func get(t *testing.T, h http.Handler, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return rec, body
}

func TestHandleHealth(t *testing.T) {
	store := &fakeStore{}
	h := newTestRouter(t, store)

	rec, body := get(t, h, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])

	store.err = &postgres.ConnectionError{Op: "reconnect", Err: errors.New("connection refused")}
	rec, body = get(t, h, "/health")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "errored", body["status"])
}

func TestHandleSchemaVersion(t *testing.T) {
	h := newTestRouter(t, &fakeStore{version: dbsync.SchemaVersion{One: 9, Two: 22}})

	rec, body := get(t, h, "/schema/version")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "legacy", body["multi_asset_variant"])
	assert.Equal(t, map[string]any{"stage_one": 9.0, "stage_two": 22.0, "stage_three": 0.0}, body["version"])
}

func TestHandleTables(t *testing.T) {
	h := newTestRouter(t, &fakeStore{tables: []string{"block", "tx"}})

	rec, body := get(t, h, "/schema/tables")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{"block", "tx"}, body["tables"])
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHandleTx(t *testing.T) {
	store := &fakeStore{records: map[string]*ledger.TxRecord{
		"abc123": {
			TxID:   10,
			TxHash: ledger.Hash{0xab, 0xc1, 0x23},
			Fee:    decimal.NewFromInt(170000),
			TxOuts: []ledger.TxOut{{ID: 101, Address: "addr_test1vq", Value: decimal.NewFromInt(5)}},
		},
	}}
	h := newTestRouter(t, store)

	tests := []struct {
		name string
		path string
		code int
	}{
		{name: "found", path: "/txs/abc123", code: http.StatusOK},
		{name: "unknown", path: "/txs/abc124", code: http.StatusNotFound},
		{name: "not hex", path: "/txs/pool1xyz", code: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := get(t, h, tt.path)
			assert.Equal(t, tt.code, rec.Code)
			if tt.code == http.StatusOK {
				assert.Equal(t, "abc123", body["tx_hash"])
				assert.Equal(t, "170000", body["fee"])
			} else {
				assert.NotEmpty(t, body["error"])
			}
		})
	}
}

func TestHandleTxDelegations(t *testing.T) {
	store := &fakeStore{delegs: []ledger.StakeDelegRow{{
		TxID:          10,
		ActiveEpochNo: null.IntFrom(42),
		PoolID:        null.StringFrom("pool1xyz"),
		Address:       null.StringFrom("stake_test1uzdeleg"),
	}}}
	h := newTestRouter(t, store)

	rec, body := get(t, h, "/txs/abc123/delegations?limit=5000")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, maxLimit, store.lastLimit)

	data := body["data"].([]any)
	require.Len(t, data, 1)
	row := data[0].(map[string]any)
	assert.Equal(t, "pool1xyz", row["pool_id"])
	assert.Equal(t, 42.0, row["active_epoch_no"])

	rec, _ = get(t, h, "/txs/abc123/delegations?limit=-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleTxInputs_EmptyListIsArray(t *testing.T) {
	h := newTestRouter(t, &fakeStore{})

	rec, body := get(t, h, "/txs/abc123/inputs")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{}, body["data"])
	assert.Equal(t, float64(defaultLimit), body["limit"])
}

func TestHandleADAPots_EpochRange(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		code   int
		epochs dbsync.EpochRange
	}{
		{name: "defaults", query: "", code: http.StatusOK, epochs: dbsync.AllEpochs()},
		{name: "bounded", query: "?from=3&to=8", code: http.StatusOK, epochs: dbsync.EpochRange{From: 3, To: 8}},
		{name: "inverted", query: "?from=9&to=8", code: http.StatusBadRequest},
		{name: "not a number", query: "?from=x", code: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{}
			h := newTestRouter(t, store)

			rec, _ := get(t, h, "/epochs/ada-pots"+tt.query)
			assert.Equal(t, tt.code, rec.Code)
			if tt.code == http.StatusOK {
				assert.Equal(t, tt.epochs, store.lastEpochs)
			}
		})
	}
}

func TestHandleEpochParams(t *testing.T) {
	store := &fakeStore{params: map[int64]ledger.EpochParamRow{
		5: {EpochNo: 5, MinFeeA: 44, ProtocolMajor: 8},
	}}
	h := newTestRouter(t, store)

	rec, body := get(t, h, "/epochs/5/params")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 44.0, body["min_fee_a"])

	rec, _ = get(t, h, "/epochs/6/params")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = get(t, h, "/epochs/five/params")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlePool(t *testing.T) {
	store := &fakeStore{pools: map[string][]ledger.PoolDataRow{
		"pool1xyz": {{ID: 3, View: "pool1xyz", Pledge: decimal.NewFromInt(1000)}},
	}}
	h := newTestRouter(t, store)

	rec, body := get(t, h, "/pools/pool1xyz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["data"], 1)

	rec, _ = get(t, h, "/pools/pool1nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWriteStoreError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{name: "query failed after retry", err: &dbsync.QueryError{Query: "SELECT 1", Attempts: 2, Err: errors.New("boom")}, code: http.StatusInternalServerError},
		{name: "schema missing", err: &dbsync.SchemaUnavailableError{Err: dbsync.ErrNoSchemaVersion}, code: http.StatusServiceUnavailable},
		{name: "server gone", err: &postgres.ConnectionError{Op: "connect", Err: errors.New("refused")}, code: http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestRouter(t, &fakeStore{err: tt.err})

			rec, body := get(t, h, "/blocks/latest")
			assert.Equal(t, tt.code, rec.Code)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestWithCORS_Preflight(t *testing.T) {
	h := newTestRouter(t, &fakeStore{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/blocks", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
