package controller

import (
	"errors"
	"net/http"

	"github.com/cardano-node-tests/dbsyncx/app/query/types"
	"github.com/cardano-node-tests/dbsyncx/pkg/db/dbsync"
	"github.com/go-jose/go-jose/v4/json"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type Controller struct {
	App *types.App
}

// NewController returns a new controller.
func NewController(app *types.App) *Controller {
	return &Controller{
		App: app,
	}
}

// NewRouter returns a new router with all the routes defined in this file.
func (c *Controller) NewRouter() (*mux.Router, error) {
	r := mux.NewRouter()

	r.Handle("/health", http.HandlerFunc(c.HandleHealth)).Methods("GET")

	r.HandleFunc("/schema/version", c.HandleSchemaVersion).Methods("GET")
	r.HandleFunc("/schema/tables", c.HandleTables).Methods("GET")

	r.HandleFunc("/blocks", c.HandleBlocks).Methods("GET")
	r.HandleFunc("/blocks/latest", c.HandleLatestBlock).Methods("GET")

	r.HandleFunc("/txs/{hash}", c.HandleTx).Methods("GET")
	r.HandleFunc("/txs/{hash}/inputs", c.HandleTxInputs).Methods("GET")
	r.HandleFunc("/txs/{hash}/delegations", c.HandleTxDelegations).Methods("GET")
	r.HandleFunc("/txs/{hash}/withdrawals", c.HandleTxWithdrawals).Methods("GET")

	r.HandleFunc("/epochs/ada-pots", c.HandleADAPots).Methods("GET")
	r.HandleFunc("/epochs/{epoch}/params", c.HandleEpochParams).Methods("GET")
	r.HandleFunc("/rewards/{address}", c.HandleAddressRewards).Methods("GET")
	r.HandleFunc("/pools/{id}", c.HandlePool).Methods("GET")

	return r, nil
}

// WithCORS allows browser clients from any origin; the API is read only.
func WithCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", http.MethodGet+", "+http.MethodOptions)

		// Fast-path the preflight
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// writeStoreError maps access layer failures to a status code.
func (c *Controller) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		schemaErr *dbsync.SchemaUnavailableError
		queryErr  *dbsync.QueryError
	)
	switch {
	case errors.Is(err, dbsync.ErrInvalidHash):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, dbsync.ErrTxNotFound):
		writeError(w, http.StatusNotFound, "transaction not found")
	case errors.As(err, &schemaErr):
		c.App.Logger.Error("db-sync schema unavailable", zap.String("path", r.URL.Path), zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "db-sync schema version unavailable")
	case errors.As(err, &queryErr):
		c.App.Logger.Error("db-sync query failed", zap.String("path", r.URL.Path), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "query failed")
	default:
		c.App.Logger.Error("db-sync unavailable", zap.String("path", r.URL.Path), zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "database connection error")
	}
}
