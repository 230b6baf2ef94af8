package query

import (
	"context"
	"time"

	"github.com/cardano-node-tests/dbsyncx/app/query/types"
	"github.com/cardano-node-tests/dbsyncx/pkg/db"
	"github.com/cardano-node-tests/dbsyncx/pkg/db/dbsync"
	"github.com/cardano-node-tests/dbsyncx/pkg/db/models/ledger"
	"github.com/cardano-node-tests/dbsyncx/pkg/db/postgres"
	"github.com/cardano-node-tests/dbsyncx/pkg/logging"
	"github.com/cardano-node-tests/dbsyncx/pkg/utils"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Initialize initializes the application.
func Initialize(ctx context.Context) *types.App {
	// a missing .env is fine, the environment may already be set
	_ = godotenv.Load()

	logger, err := logging.New()
	if err != nil {
		// nothing else to do here, we'll just log to stderr'
		panic(err)
	}

	cfg := postgres.ConfigFromEnv()
	store, err := db.NewSyncStore(logger, cfg)
	if err != nil {
		logger.Fatal("Unable to initialize db-sync store", zap.Error(err), zap.String("dsn", cfg.Redacted()))
	}

	app := &types.App{
		Store:    store,
		CronSpec: utils.Env("SYNC_PROGRESS_CRON", "*/30 * * * * *"),
		Logger:   logger,
	}

	if err := SetupScheduler(ctx, app); err != nil {
		logger.Fatal("Unable to schedule sync progress report", zap.Error(err))
	}

	return app
}

// SetupScheduler registers the sync progress report on the app's cron.
func SetupScheduler(ctx context.Context, app *types.App) error {
	// Seconds field, optional
	app.Cron = cron.New(cron.WithSeconds(), cron.WithChain(cron.Recover(cron.DefaultLogger)))

	_, err := app.Cron.AddFunc(app.CronSpec, func() {
		// keep each run bounded
		rctx, cancel := context.WithTimeout(ctx, 25*time.Second)
		defer cancel()
		ReportSyncProgress(rctx, app)
	})
	return err
}

// ReportSyncProgress logs how far db-sync has synced.
func ReportSyncProgress(ctx context.Context, app *types.App) {
	var (
		tip     ledger.BlockRow
		version dbsync.SchemaVersion
	)
	err := app.WithStore(func(s db.Store) error {
		var err error
		if version, err = s.Stages(ctx); err != nil {
			return err
		}
		tip, err = s.LatestBlock(ctx)
		return err
	})
	if err != nil {
		app.Logger.Warn("Sync progress unavailable", zap.Error(err))
		return
	}

	app.Logger.Info("db-sync progress",
		zap.Stringer("schema_version", version),
		zap.Int64("block_id", tip.ID),
		zap.Int64("block_no", tip.BlockNo.Int64),
		zap.Int64("epoch_no", tip.EpochNo.Int64),
		zap.Int64("slot_no", tip.SlotNo.Int64))
}
