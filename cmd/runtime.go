package cmd

import (
	"fmt"
	"time"

	"frameload-sync/core/config"
	"frameload-sync/core/database"
	"frameload-sync/core/logger"
	"frameload-sync/core/reconcile"
	"frameload-sync/core/storage"
	"frameload-sync/feature/frameloads"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// runtime holds the shared dependencies of every command.
type runtime struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
	client storage.Client
}

// newRuntime loads configuration and connects the model database and storage.
// A failed database connection is fatal only when requireDB is set.
func newRuntime(requireDB bool) (*runtime, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	rt := &runtime{cfg: cfg, logger: logg}

	if conn, err := database.Connect(cfg.Database); err != nil {
		if requireDB {
			return nil, fmt.Errorf("database connection required: %w", err)
		}
		logg.Warn("Optional database connection failed", zap.Error(err))
	} else {
		rt.db = conn
		logg.Info("Connected to model database", zap.String("driver", cfg.Database.Driver))
		if cfg.Database.Migrate {
			if err := frameloads.Migrate(conn); err != nil {
				return nil, fmt.Errorf("failed to migrate model schema: %w", err)
			}
		}
	}

	// Storage is only needed for s3:// workbooks and published reports.
	if client, err := storage.NewClient(cfg.Storage); err != nil {
		logg.Warn("Storage client unavailable", zap.Error(err))
	} else {
		rt.client = client
	}

	return rt, nil
}

// service builds the frame load service with the given run options.
func (r *runtime) service(opts reconcile.Options) *frameloads.Service {
	bucket := ""
	if r.cfg.Server.PublishReports && r.client != nil {
		bucket = r.cfg.Storage.Bucket
	}
	return frameloads.NewService(
		frameloads.NewStore(r.db, r.logger),
		frameloads.NewSnapshotStore(r.db),
		r.client,
		frameloads.Options{
			Sheet:       r.cfg.Sheet,
			Sync:        opts,
			Bucket:      bucket,
			ViewTTL:     time.Duration(r.cfg.Server.ViewTTLSeconds) * time.Second,
			KeepReports: r.cfg.Server.KeepReports,
		},
		r.logger,
	)
}
