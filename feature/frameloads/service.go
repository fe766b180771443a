package frameloads

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"frameload-sync/core/reconcile"
	"frameload-sync/core/sheet"
	"frameload-sync/core/storage"
	"frameload-sync/core/views"
	"frameload-sync/feature/frameloads/models"

	"go.uber.org/zap"
)

// Entity is the entity type name used for snapshots and dependent views.
const Entity = "frame_loads"

// RunRequest overrides the configured source and options for one run.
type RunRequest struct {
	// Path overrides the workbook path.
	Path string `json:"path"`
	// Sheet overrides the worksheet name.
	Sheet string `json:"sheet"`
	// DryRun forces a dry run when set.
	DryRun *bool `json:"dry_run"`
}

// Options configures a Service.
type Options struct {
	// Sheet is the default source.
	Sheet sheet.Config
	// Sync holds the reconciliation options.
	Sync reconcile.Options
	// Bucket receives published reports. Empty disables publishing.
	Bucket string
	// ViewTTL is the cache duration of the loads view.
	ViewTTL time.Duration
	// KeepReports is the number of published reports retained. Zero keeps all.
	KeepReports int
}

// Service runs frame load reconciliation against the model store.
type Service struct {
	store      *Store
	snapshots  *SnapshotStore
	client     storage.Client
	opts       Options
	logger     *zap.Logger
	registry   *views.Registry
	loads      *views.Cached[[]models.FrameLoad]
	controller *reconcile.Controller
}

// NewService creates a new frame load service.
func NewService(store *Store, snapshots *SnapshotStore, client storage.Client, opts Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		store:     store,
		snapshots: snapshots,
		client:    client,
		opts:      opts,
		logger:    logger,
		registry:  views.NewRegistry(logger),
	}
	s.loads = views.NewCached(Entity, opts.ViewTTL, store.Loads)
	s.registry.Register(Entity, s.loads)
	s.controller = reconcile.NewController(func(ctx context.Context) reconcile.Output {
		return s.Run(ctx, RunRequest{})
	}, logger)
	return s
}

// Run performs one reconciliation run immediately.
func (s *Service) Run(ctx context.Context, req RunRequest) reconcile.Output {
	opts := s.opts.Sync
	if req.DryRun != nil {
		opts.DryRun = *req.DryRun
	}

	src := s.opts.Sheet.Request()
	if req.Path != "" {
		src.Path = req.Path
	}
	if req.Sheet != "" {
		src.Sheet = req.Sheet
	}

	job := reconcile.Job{
		Request:  src,
		Model:    s.store.Open,
		Views:    s.registry,
		Entity:   Entity,
		Progress: LogProgress(s.logger, 2*time.Second),
		Options:  opts,
	}
	if src.Path != "" {
		reader, err := sheet.NewReader(s.opts.Sheet, src.Path, s.client)
		if err != nil {
			s.logger.Warn("No reader for source", zap.String("path", src.Path), zap.Error(err))
			job.SourceErr = err
		} else {
			job.Source = reader
		}
	}

	if opts.AutoRemove {
		baseline, err := s.snapshots.Load(ctx, Entity)
		if err != nil {
			s.logger.Warn("Baseline snapshot unavailable", zap.Error(err))
		}
		job.Baseline = baseline
	}

	out := reconcile.Run(ctx, job, s.logger)

	if !out.Aborted && !opts.DryRun {
		if err := s.snapshots.Save(ctx, Entity, out.RunID, out.Desired); err != nil {
			s.logger.Warn("Snapshot save failed", zap.Error(err))
		}
	}
	s.publish(ctx, out)
	return out
}

// Trigger feeds one trigger sample to the edge-triggered controller.
func (s *Service) Trigger(ctx context.Context, trigger bool) (reconcile.Output, bool) {
	return s.controller.Invoke(ctx, trigger)
}

// Last returns the last controller output.
func (s *Service) Last() (reconcile.Output, bool) {
	return s.controller.Last()
}

// Loads returns the cached loads view.
func (s *Service) Loads(ctx context.Context) ([]models.FrameLoad, error) {
	return s.loads.Get(ctx)
}

// Reports lists published report keys, newest last.
func (s *Service) Reports(ctx context.Context) ([]string, error) {
	if s.client == nil || s.opts.Bucket == "" {
		return []string{}, nil
	}
	keys, err := storage.ListKeys(ctx, s.client, s.opts.Bucket, storage.ReportPrefix)
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

// ReportKey returns the object key of a run report.
func ReportKey(runID string) string {
	return storage.ReportPrefix + runID + ".json"
}

// publish uploads the output as JSON and prunes old reports. Failures are logged.
func (s *Service) publish(ctx context.Context, out reconcile.Output) {
	if s.client == nil || s.opts.Bucket == "" {
		return
	}
	body, err := json.Marshal(out)
	if err != nil {
		s.logger.Warn("Report encoding failed", zap.Error(err))
		return
	}
	key := ReportKey(out.RunID)
	if err := storage.PutBytes(ctx, s.client, s.opts.Bucket, key, body, "application/json"); err != nil {
		s.logger.Warn("Report publish failed", zap.String("key", key), zap.Error(err))
		return
	}
	s.logger.Info("Report published", zap.String("key", key))

	if err := s.prune(ctx); err != nil {
		s.logger.Warn("Report pruning failed", zap.Error(err))
	}
}

func (s *Service) prune(ctx context.Context) error {
	if s.opts.KeepReports <= 0 {
		return nil
	}
	keys, err := storage.ListKeys(ctx, s.client, s.opts.Bucket, storage.ReportPrefix)
	if err != nil {
		return err
	}
	if len(keys) <= s.opts.KeepReports {
		return nil
	}

	// Run IDs are time ordered, so key order is publication order.
	sort.Strings(keys)
	stale := keys[:len(keys)-s.opts.KeepReports]
	if err := storage.RemoveKeys(ctx, s.client, s.opts.Bucket, stale); err != nil {
		return fmt.Errorf("prune %s: %w", strings.Join(stale, ","), err)
	}
	return nil
}
