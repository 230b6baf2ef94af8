package controller

import (
	"net/http"

	"github.com/cardano-node-tests/dbsyncx/pkg/db"
	"github.com/cardano-node-tests/dbsyncx/pkg/db/models/ledger"
	"github.com/gorilla/mux"
)

// HandlePool returns the registration rows of a pool by bech32 id.
func (c *Controller) HandlePool(w http.ResponseWriter, r *http.Request) {
	poolID := mux.Vars(r)["id"]

	limit, err := parseLimit(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var rows []ledger.PoolDataRow
	err = c.App.WithStore(func(s db.Store) error {
		return s.PoolData(r.Context(), poolID, limit, appendRow(&rows))
	})
	if err != nil {
		c.writeStoreError(w, r, err)
		return
	}
	if len(rows) == 0 {
		writeError(w, http.StatusNotFound, "pool not found")
		return
	}

	writeJSON(w, http.StatusOK, listResponse[ledger.PoolDataRow]{Data: rows, Limit: limit})
}
