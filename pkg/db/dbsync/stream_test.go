package dbsync

import (
	"context"
	"errors"
	"testing"

	"github.com/cardano-node-tests/dbsyncx/pkg/db/models/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withdrawals(n int) [][]any {
	rows := make([][]any, 0, n)
	for i := 1; i <= n; i++ {
		rows = append(rows, []any{int64(100), "stake_test1uqwithdrawal", int64(i * 1_000_000)})
	}
	return rows
}

func TestRows_EmptyResultReleasesCursor(t *testing.T) {
	db := newFakeDB(13, 2, 0)
	svc, _ := newTestService(t, db)

	rows, err := svc.QueryTxWithdrawal(context.Background(), "abc123")
	require.NoError(t, err)

	assert.False(t, rows.Next())
	require.NoError(t, rows.Err())
	assert.True(t, rows.cur.Closed())
	assert.True(t, db.lastRows().closed)
}

func TestRows_LazyIteration(t *testing.T) {
	db := newFakeDB(13, 2, 0)
	db.on("FROM withdrawal", withdrawals(3)...)
	svc, _ := newTestService(t, db)

	rows, err := svc.QueryTxWithdrawal(context.Background(), "abc123")
	require.NoError(t, err)
	defer rows.Close()

	raw := db.lastRows()
	require.True(t, rows.Next())
	assert.Equal(t, 1, raw.pos, "one row pulled per Next")
	assert.Equal(t, "1000000", rows.Row().Amount.String())

	require.True(t, rows.Next())
	assert.Equal(t, 2, raw.pos)
	assert.False(t, rows.cur.Closed())
}

func TestRows_AllEarlyBreakClosesCursor(t *testing.T) {
	db := newFakeDB(13, 2, 0)
	db.on("FROM withdrawal", withdrawals(5)...)
	svc, _ := newTestService(t, db)

	rows, err := svc.QueryTxWithdrawal(context.Background(), "abc123")
	require.NoError(t, err)

	seen := 0
	for w, err := range rows.All() {
		require.NoError(t, err)
		assert.Equal(t, int64(100), w.TxID)
		seen++
		if seen == 2 {
			break
		}
	}

	assert.Equal(t, 2, seen)
	assert.True(t, rows.cur.Closed())
	assert.True(t, db.lastRows().closed)
}

func TestRows_ScanErrorStopsIteration(t *testing.T) {
	db := newFakeDB(13, 2, 0)
	db.on("FROM withdrawal", withdrawals(3)...)
	svc, _ := newTestService(t, db)

	rows, err := svc.QueryTxWithdrawal(context.Background(), "abc123")
	require.NoError(t, err)
	db.lastRows().scanErr = 2

	var got []ledger.WithdrawalRow
	var iterErr error
	for w, err := range rows.All() {
		if err != nil {
			iterErr = err
			break
		}
		got = append(got, w)
	}

	assert.Len(t, got, 1)
	require.Error(t, iterErr)
	assert.Contains(t, iterErr.Error(), "can't scan")
	assert.True(t, rows.cur.Closed())
	assert.False(t, rows.Next(), "a failed sequence stays failed")
}

func TestRows_Collect(t *testing.T) {
	db := newFakeDB(13, 2, 0)
	db.on("FROM withdrawal", withdrawals(4)...)
	svc, _ := newTestService(t, db)

	rows, err := svc.QueryTxWithdrawal(context.Background(), "abc123")
	require.NoError(t, err)

	all, err := rows.Collect()
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "4000000", all[3].Amount.String())
	assert.True(t, rows.cur.Closed())
}

func TestRows_MidStreamFailure(t *testing.T) {
	db := newFakeDB(13, 2, 0)
	db.on("FROM withdrawal", withdrawals(3)...)
	svc, _ := newTestService(t, db)

	rows, err := svc.QueryTxWithdrawal(context.Background(), "abc123")
	require.NoError(t, err)

	require.True(t, rows.Next())
	db.lastRows().err = errConnReset

	assert.False(t, rows.Next())
	var qerr *QueryError
	require.ErrorAs(t, rows.Err(), &qerr)
	assert.Equal(t, 1, qerr.Attempts)
	assert.ErrorIs(t, rows.Err(), errConnReset)
	assert.True(t, rows.cur.Closed())
}

func TestRows_CollectN(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want int
	}{
		{name: "limited", n: 2, want: 2},
		{name: "limit above size", n: 10, want: 4},
		{name: "no limit", n: 0, want: 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newFakeDB(13, 2, 0)
			db.on("FROM withdrawal", withdrawals(4)...)
			svc, _ := newTestService(t, db)

			rows, err := svc.QueryTxWithdrawal(context.Background(), "abc123")
			require.NoError(t, err)

			got, err := rows.CollectN(tt.n)
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
			assert.True(t, db.lastRows().closed)
		})
	}
}

func TestRows_EachNHandsRowsOverAsTheyAreRead(t *testing.T) {
	db := newFakeDB(13, 2, 0)
	db.on("FROM withdrawal", withdrawals(3)...)
	svc, _ := newTestService(t, db)

	rows, err := svc.QueryTxWithdrawal(context.Background(), "abc123")
	require.NoError(t, err)
	raw := db.lastRows()

	var fetched []int
	err = rows.EachN(0, func(ledger.WithdrawalRow) error {
		fetched = append(fetched, raw.pos)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, fetched, "no row is read ahead of the callback")
	assert.True(t, raw.closed)
}

func TestRows_EachN(t *testing.T) {
	stop := errors.New("stop")
	tests := []struct {
		name    string
		n       int
		failAt  int
		want    int
		wantErr error
	}{
		{name: "all", n: 0, want: 4},
		{name: "limited", n: 2, want: 2},
		{name: "callback error stops", n: 0, failAt: 2, want: 2, wantErr: stop},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newFakeDB(13, 2, 0)
			db.on("FROM withdrawal", withdrawals(4)...)
			svc, _ := newTestService(t, db)

			rows, err := svc.QueryTxWithdrawal(context.Background(), "abc123")
			require.NoError(t, err)

			seen := 0
			err = rows.EachN(tt.n, func(ledger.WithdrawalRow) error {
				seen++
				if seen == tt.failAt {
					return stop
				}
				return nil
			})
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, seen)
			assert.True(t, db.lastRows().closed)
		})
	}
}

func TestService_SequentialStreamsShareOneConnection(t *testing.T) {
	db := newFakeDB(13, 2, 0)
	db.on("FROM withdrawal", withdrawals(3)...)
	db.on("FROM delegation", []any{int64(10), int64(42), "pool1xyz", "stake_test1uzdeleg"})
	svc, mgr := newTestService(t, db)
	ctx := context.Background()

	first, err := svc.QueryTxWithdrawal(ctx, "abc123")
	require.NoError(t, err)
	require.True(t, first.Next())
	first.Close()

	second, err := svc.QueryTxStakeDeleg(ctx, "abc123")
	require.NoError(t, err)
	delegs, err := second.Collect()
	require.NoError(t, err)

	assert.Len(t, delegs, 1)
	assert.Zero(t, svc.Exec.Reconnects())
	assert.Equal(t, 1, mgr.Dials())
}
