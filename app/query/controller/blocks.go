package controller

import (
	"net/http"

	"github.com/cardano-node-tests/dbsyncx/pkg/db"
	"github.com/cardano-node-tests/dbsyncx/pkg/db/models/ledger"
)

// HandleBlocks returns the blocks of an epoch range, ?from=&to=&limit=
func (c *Controller) HandleBlocks(w http.ResponseWriter, r *http.Request) {
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

	var rows []ledger.BlockRow
	err = c.App.WithStore(func(s db.Store) error {
		return s.Blocks(r.Context(), epochs, limit, appendRow(&rows))
	})
	if err != nil {
		c.writeStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse[ledger.BlockRow]{Data: nonNil(rows), Limit: limit})
}

// HandleLatestBlock returns the newest block db-sync has stored.
func (c *Controller) HandleLatestBlock(w http.ResponseWriter, r *http.Request) {
	var tip ledger.BlockRow
	err := c.App.WithStore(func(s db.Store) (err error) {
		tip, err = s.LatestBlock(r.Context())
		return err
	})
	if err != nil {
		c.writeStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tip)
}
