package types

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/cardano-node-tests/dbsyncx/pkg/db"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type App struct {
	// Store reads db-sync over a single connection. It is not safe for
	// concurrent use: handlers and cron jobs hold StoreMu while using it.
	Store   db.Store
	StoreMu sync.Mutex

	// Cron runs the sync progress report according to CronSpec.
	Cron     *cron.Cron
	CronSpec string

	// Zap Logger
	Logger *zap.Logger
	// Server represents the HTTP server instance used to handle incoming client requests and manage HTTP routes.
	Server *http.Server
}

// WithStore runs fn with exclusive use of the store.
func (a *App) WithStore(fn func(db.Store) error) error {
	a.StoreMu.Lock()
	defer a.StoreMu.Unlock()
	return fn(a.Store)
}

// Start starts the application.
func (a *App) Start(ctx context.Context) {
	go func() { _ = a.Server.ListenAndServe() }()
	if a.Cron != nil {
		a.Cron.Start()
		a.Logger.Info("Cron started", zap.String("cronSpec", a.CronSpec))
	}
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = a.Server.Shutdown(shutdownCtx)
	if a.Cron != nil {
		<-a.Cron.Stop().Done()
	}

	err := a.WithStore(func(s db.Store) error { return s.Close(shutdownCtx) })
	if err != nil {
		a.Logger.Error("Failed to close database connection", zap.Error(err))
	}

	time.Sleep(200 * time.Millisecond)
	a.Logger.Info("さようなら!")
}
