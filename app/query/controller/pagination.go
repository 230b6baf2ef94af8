package controller

import (
	"math"
	"net/http"
	"strconv"

	"github.com/cardano-node-tests/dbsyncx/pkg/db/dbsync"
)

const (
	defaultLimit = 100
	maxLimit     = 1000
)

func parseLimit(r *http.Request) (int, error) {
	limit := defaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return 0, errInvalidLimit
		}
		limit = int(math.Min(float64(n), maxLimit))
	}
	return limit, nil
}

// parseEpochRange reads from/to query parameters. Missing bounds default to
// the full range.
func parseEpochRange(r *http.Request) (dbsync.EpochRange, error) {
	qs := r.URL.Query()
	epochs := dbsync.AllEpochs()

	if v := qs.Get("from"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			return dbsync.EpochRange{}, errInvalidEpoch
		}
		epochs.From = n
	}
	if v := qs.Get("to"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			return dbsync.EpochRange{}, errInvalidEpoch
		}
		epochs.To = n
	}
	if epochs.From > epochs.To {
		return dbsync.EpochRange{}, errInvalidRange
	}

	return epochs, nil
}

var (
	errInvalidLimit = &parseError{msg: "invalid limit"}
	errInvalidEpoch = &parseError{msg: "invalid epoch"}
	errInvalidRange = &parseError{msg: "invalid epoch range, from must not exceed to"}
)

type parseError struct{ msg string }

func (e *parseError) Error() string { return e.msg }
