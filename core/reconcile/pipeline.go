package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"frameload-sync/core/guard"
	"frameload-sync/core/logger"
	"frameload-sync/core/sheet"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Job describes one reconciliation run.
type Job struct {
	// Source reads the tabular input.
	Source sheet.Reader
	// SourceErr explains why Source is nil. It becomes the abort reason.
	SourceErr error
	// Request addresses the sheet. Headers are taken from the layout.
	Request sheet.Request
	// Model opens the live model session.
	Model ModelOpener
	// Baseline is the previous desired set. Nil means no snapshot.
	Baseline *KeySet
	// Views are marked stale after a successful write. Optional.
	Views StaleMarker
	// Entity names the entity type passed to Views.
	Entity string
	// Progress is called after each unit of work. Optional.
	Progress ProgressFunc
	// Options controls the run.
	Options Options
}

// Run executes parse, prepare, diff and apply. It never returns an error:
// fatal problems abort the run and are reported in the output.
func Run(ctx context.Context, job Job, log *zap.Logger) (out Output) {
	if log == nil {
		log = zap.NewNop()
	}
	runID := newRunID()
	log = logger.WithRun(log, runID)

	defer func() {
		if r := recover(); r != nil {
			log.Error("Reconciliation run crashed", zap.Any("panic", r))
			out = aborted(runID, job.Options.Layout, fmt.Errorf("unhandled fault: %v", r))
		}
	}()

	if err := validateJob(job); err != nil {
		log.Error("Reconciliation run rejected", zap.Error(err))
		return aborted(runID, job.Options.Layout, err)
	}
	opts := job.Options

	req := job.Request
	req.Headers = opts.Layout.Headers()
	raw, err := job.Source.Read(ctx, req)
	if err != nil {
		err = &SourceFormatError{Path: req.Path, Err: err}
		log.Error("Source read failed", zap.Error(err))
		return aborted(runID, opts.Layout, err)
	}

	rows := opts.Layout.ParseRows(raw)
	desired := DesiredSet(rows)
	rows = ResolveDuplicates(rows, opts.Duplicates)

	var (
		res     result
		started bool
	)
	res.rows = len(raw)
	res.desired = desired
	res.baseline = job.Baseline

	err = guard.Use(ctx, job.Model, func(m Session) error {
		var names []string
		err := call(func() error {
			var err error
			names, err = m.ExistingNames(ctx)
			return err
		})
		if err != nil {
			return &ConfigurationError{Field: "model", Reason: fmt.Sprintf("list existing frames: %v", err)}
		}
		started = true
		existing := NewNameSet(names)

		prepared, rejected := NewPreparer(m, existing, opts, log).Prepare(ctx, rows, job.Progress)
		res.prepared = prepared
		res.items = rejected

		applier := NewApplier(m, opts, log)
		if opts.AutoRemove && job.Baseline != nil {
			res.removals = applier.Remove(ctx, RemovalCandidates(job.Baseline, desired), existing, job.Progress)
		}
		res.items = append(res.items, applier.Apply(ctx, prepared, job.Progress)...)
		applier.Settle(ctx, job.Views, job.Entity)
		return nil
	})
	if err != nil {
		if !started {
			if !errors.Is(err, ErrConfiguration) {
				err = &ConfigurationError{Field: "model", Reason: err.Error()}
			}
			log.Error("Model session unavailable", zap.Error(err))
			return aborted(runID, opts.Layout, err)
		}
		log.Warn("Model session release failed", zap.Error(err))
		res.notes = append(res.notes, fmt.Sprintf("model session release failed: %v", err))
	}
	if opts.AutoRemove && job.Baseline == nil {
		res.notes = append(res.notes, "auto-removal skipped: no baseline snapshot")
	}

	out = res.output(runID, opts)
	log.Info("Reconciliation run finished",
		zap.Int("rows", out.Summary.Rows),
		zap.Int("applied", out.Summary.Applied),
		zap.Int("failed", out.Summary.Failed),
		zap.Int("skipped", out.Summary.Skipped),
		zap.Int("removed", out.Summary.Removed),
		zap.Bool("dry_run", opts.DryRun))
	return out
}

func validateJob(job Job) error {
	if job.Model == nil {
		return &ConfigurationError{Field: "model", Reason: "no model handle"}
	}
	if strings.TrimSpace(job.Request.Path) == "" {
		return &ConfigurationError{Field: "path", Reason: "empty source path"}
	}
	if job.Source == nil {
		reason := "no source reader"
		if job.SourceErr != nil {
			reason = job.SourceErr.Error()
		}
		return &ConfigurationError{Field: "source", Reason: reason}
	}
	return job.Options.Validate()
}

func aborted(runID string, layout Layout, err error) Output {
	return Output{
		RunID:       runID,
		Aborted:     true,
		Error:       err.Error(),
		Table:       buildTable(layout, nil),
		Diagnostics: []string{fmt.Sprintf("run %s aborted: %v", runID, err)},
		Items:       []ItemOutcome{},
		Desired:     []IdentityKey{},
	}
}

// newRunID returns a time-ordered run ID.
func newRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
