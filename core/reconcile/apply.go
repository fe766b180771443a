package reconcile

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Applier issues remove and apply calls and records one outcome per item.
// There is no rollback and no dependency between items.
type Applier struct {
	model Model
	opts  Options
	log   *zap.Logger

	wrote bool
}

// NewApplier builds an applier bound to one run.
func NewApplier(model Model, opts Options, log *zap.Logger) *Applier {
	if log == nil {
		log = zap.NewNop()
	}
	return &Applier{model: model, opts: opts, log: log}
}

// Remove processes removal candidates. Candidates whose object is no longer in
// the model are skipped. Keys are passed to the model with its canonical name.
func (a *Applier) Remove(ctx context.Context, candidates []IdentityKey, existing *NameSet, progress ProgressFunc) []RemovalOutcome {
	out := make([]RemovalOutcome, 0, len(candidates))
	for i, key := range candidates {
		out = append(out, a.removeOne(ctx, key, existing))
		notify(progress, a.log, i+1, len(candidates), "remove")
	}
	return out
}

func (a *Applier) removeOne(ctx context.Context, key IdentityKey, existing *NameSet) RemovalOutcome {
	name, ok := existing.Lookup(key.Name)
	if !ok {
		return RemovalOutcome{Key: key, Status: StatusSkipped, Reason: fmt.Sprintf("frame %q no longer exists", key.Name)}
	}
	key = IdentityKey{Name: name, Classifier: key.Classifier}

	if a.opts.DryRun {
		return RemovalOutcome{Key: key, Status: StatusPlanned}
	}

	if err := call(func() error { return a.model.Remove(ctx, key) }); err != nil {
		a.log.Warn("Remove failed", zap.Stringer("key", key), zap.Error(err))
		return RemovalOutcome{Key: key, Status: StatusFailed, Class: ClassExternalApply, Reason: err.Error()}
	}
	a.wrote = true
	return RemovalOutcome{Key: key, Status: StatusRemoved}
}

// Apply writes each prepared assignment in order.
func (a *Applier) Apply(ctx context.Context, prepared []PreparedAssignment, progress ProgressFunc) []ItemOutcome {
	out := make([]ItemOutcome, 0, len(prepared))
	for i, p := range prepared {
		out = append(out, a.applyOne(ctx, p))
		notify(progress, a.log, i+1, len(prepared), "apply")
	}
	return out
}

func (a *Applier) applyOne(ctx context.Context, p PreparedAssignment) ItemOutcome {
	outcome := ItemOutcome{Row: p.Row, Key: p.Key, Adjusted: p.Adjusted || p.CodesAdjusted}

	if a.opts.DryRun {
		outcome.Status = StatusPlanned
		return outcome
	}

	if err := call(func() error { return a.model.Apply(ctx, p, a.opts.Replace) }); err != nil {
		a.log.Warn("Apply failed", zap.Int("row", p.Row), zap.Stringer("key", p.Key), zap.Error(err))
		outcome.Status = StatusFailed
		outcome.Class = ClassExternalApply
		outcome.Reason = err.Error()
		return outcome
	}
	a.wrote = true
	outcome.Status = StatusApplied
	return outcome
}

// Wrote reports whether any remove or apply call succeeded.
func (a *Applier) Wrote() bool {
	return a.wrote
}

// Settle refreshes the model view and marks dependent views stale after a
// successful write. Failures are logged and dropped.
func (a *Applier) Settle(ctx context.Context, views StaleMarker, entity string) {
	if !a.wrote {
		return
	}
	if err := call(func() error { return a.model.RefreshView(ctx) }); err != nil {
		a.log.Debug("View refresh failed", zap.String("class", string(ClassTransientUI)), zap.Error(err))
	}
	if views == nil {
		return
	}
	if err := call(func() error { return views.MarkStale(entity) }); err != nil {
		a.log.Debug("Marking views stale failed", zap.String("class", string(ClassTransientUI)), zap.Error(err))
	}
}
