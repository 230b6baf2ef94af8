package controller

import (
	"net/http"
	"strconv"

	"github.com/cardano-node-tests/dbsyncx/pkg/db"
	"github.com/cardano-node-tests/dbsyncx/pkg/db/models/ledger"
	"github.com/gorilla/mux"
)

func (c *Controller) HandleADAPots(w http.ResponseWriter, r *http.Request) {
	epochs, err := parseEpochRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit, err := parseLimit(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var rows []ledger.ADAPotsRow
	err = c.App.WithStore(func(s db.Store) error {
		return s.ADAPots(r.Context(), epochs, limit, appendRow(&rows))
	})
	if err != nil {
		c.writeStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse[ledger.ADAPotsRow]{Data: nonNil(rows), Limit: limit})
}

func (c *Controller) HandleEpochParams(w http.ResponseWriter, r *http.Request) {
	epoch, err := strconv.ParseInt(mux.Vars(r)["epoch"], 10, 64)
	if err != nil || epoch < 0 {
		writeError(w, http.StatusBadRequest, errInvalidEpoch.Error())
		return
	}

	var params *ledger.EpochParamRow
	err = c.App.WithStore(func(s db.Store) (err error) {
		params, err = s.EpochParams(r.Context(), epoch)
		return err
	})
	if err != nil {
		c.writeStoreError(w, r, err)
		return
	}
	if params == nil {
		writeError(w, http.StatusNotFound, "no protocol parameters for epoch")
		return
	}

	writeJSON(w, http.StatusOK, params)
}

// HandleAddressRewards returns the rewards of a stake address spendable in
// an epoch range.
func (c *Controller) HandleAddressRewards(w http.ResponseWriter, r *http.Request) {
	address := mux.Vars(r)["address"]

	epochs, err := parseEpochRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit, err := parseLimit(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var rows []ledger.RewardRow
	err = c.App.WithStore(func(s db.Store) error {
		return s.AddressRewards(r.Context(), address, epochs, limit, appendRow(&rows))
	})
	if err != nil {
		c.writeStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse[ledger.RewardRow]{Data: nonNil(rows), Limit: limit})
}
