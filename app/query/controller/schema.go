package controller

import (
	"net/http"

	"github.com/cardano-node-tests/dbsyncx/pkg/db"
	"github.com/cardano-node-tests/dbsyncx/pkg/db/dbsync"
)

// SchemaVersionResponse is the deployed db-sync schema and the query shape
// chosen for it.
type SchemaVersionResponse struct {
	Version           dbsync.SchemaVersion `json:"version"`
	MultiAssetVariant string               `json:"multi_asset_variant"`
}

// HandleSchemaVersion returns the cached schema version
func (c *Controller) HandleSchemaVersion(w http.ResponseWriter, r *http.Request) {
	var v dbsync.SchemaVersion
	err := c.App.WithStore(func(s db.Store) (err error) {
		v, err = s.Stages(r.Context())
		return err
	})
	if err != nil {
		c.writeStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, SchemaVersionResponse{
		Version:           v,
		MultiAssetVariant: v.MultiAssetVariant().String(),
	})
}

// HandleTables lists the user tables of the db-sync database
func (c *Controller) HandleTables(w http.ResponseWriter, r *http.Request) {
	var names []string
	err := c.App.WithStore(func(s db.Store) (err error) {
		names, err = s.ListTableNames(r.Context())
		return err
	})
	if err != nil {
		c.writeStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]string{"tables": names})
}
