package controller

import (
	"context"
	"net/http"

	"github.com/cardano-node-tests/dbsyncx/pkg/db"
	"github.com/cardano-node-tests/dbsyncx/pkg/db/models/ledger"
	"github.com/gorilla/mux"
)

type listResponse[T any] struct {
	Data  []T `json:"data"`
	Limit int `json:"limit"`
}

// HandleTx returns the transaction with its outputs, mints, certificates
// and scripts folded into one record.
func (c *Controller) HandleTx(w http.ResponseWriter, r *http.Request) {
	hash := mux.Vars(r)["hash"]

	var rec *ledger.TxRecord
	err := c.App.WithStore(func(s db.Store) (err error) {
		rec, err = s.GetTxRecord(r.Context(), hash)
		return err
	})
	if err != nil {
		c.writeStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

func (c *Controller) HandleTxInputs(w http.ResponseWriter, r *http.Request) {
	handleTxList(c, w, r, db.Store.TxInputs)
}

func (c *Controller) HandleTxDelegations(w http.ResponseWriter, r *http.Request) {
	handleTxList(c, w, r, db.Store.TxStakeDelegations)
}

func (c *Controller) HandleTxWithdrawals(w http.ResponseWriter, r *http.Request) {
	handleTxList(c, w, r, db.Store.TxWithdrawals)
}

// handleTxList serves the list returned by a Store method expression such as
// db.Store.TxInputs.
func handleTxList[T any](c *Controller, w http.ResponseWriter, r *http.Request,
	list func(db.Store, context.Context, string, int, func(T) error) error) {
	hash := mux.Vars(r)["hash"]

	limit, err := parseLimit(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var rows []T
	err = c.App.WithStore(func(s db.Store) error {
		return list(s, r.Context(), hash, limit, appendRow(&rows))
	})
	if err != nil {
		c.writeStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse[T]{Data: nonNil(rows), Limit: limit})
}

// appendRow gathers streamed rows for a limit-capped response body.
func appendRow[T any](rows *[]T) func(T) error {
	return func(row T) error {
		*rows = append(*rows, row)
		return nil
	}
}

// nonNil keeps empty lists rendering as [] rather than null.
func nonNil[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}
