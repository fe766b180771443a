package reconcile

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"
)

// Preparer resolves codes, frames and distances for parsed rows.
type Preparer struct {
	model    Model
	existing *NameSet
	opts     Options
	log      *zap.Logger

	// lengths memoizes reference lengths by canonical name for the run.
	lengths map[string]float64
}

// NewPreparer builds a preparer bound to one run.
func NewPreparer(model Model, existing *NameSet, opts Options, log *zap.Logger) *Preparer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Preparer{
		model:    model,
		existing: existing,
		opts:     opts,
		log:      log,
		lengths:  make(map[string]float64),
	}
}

// Prepare returns the prepared assignments in row order together with an
// outcome for each row that could not be prepared.
func (p *Preparer) Prepare(ctx context.Context, rows []Row, progress ProgressFunc) ([]PreparedAssignment, []ItemOutcome) {
	var (
		prepared []PreparedAssignment
		rejected []ItemOutcome
	)

	for i, row := range rows {
		a, outcome, ok := p.prepareRow(ctx, row)
		if ok {
			prepared = append(prepared, a)
		} else {
			rejected = append(rejected, outcome)
		}
		notify(progress, p.log, i+1, len(rows), "prepare")
	}
	return prepared, rejected
}

func (p *Preparer) prepareRow(ctx context.Context, row Row) (PreparedAssignment, ItemOutcome, bool) {
	outcome := ItemOutcome{Row: row.Index, Key: row.Key}

	if row.Skipped() {
		outcome.Status = StatusSkipped
		outcome.Class = ClassRowValidation
		outcome.Reason = row.Skip
		return PreparedAssignment{}, outcome, false
	}

	// Missing objects are failed without a length lookup or normalization.
	name, ok := p.existing.Lookup(row.Key.Name)
	if !ok {
		outcome.Status = StatusFailed
		outcome.Class = ClassExternalReference
		outcome.Reason = fmt.Sprintf("frame %q not found in model", row.Key.Name)
		return PreparedAssignment{}, outcome, false
	}
	outcome.Key.Name = name

	typeCode, typeAdjusted := p.opts.Codes.Type.Clamp(*row.Type)
	direction, dirAdjusted := p.opts.Codes.Direction.Clamp(*row.Direction)

	length := p.length(ctx, name)
	res, ok := p.opts.Normalizer.Normalize(length, row.Relative(), row.Absolute())
	if !ok {
		outcome.Status = StatusSkipped
		outcome.Class = ClassRowValidation
		outcome.Reason = "no usable distance data"
		if math.IsNaN(length) {
			outcome.Reason += " (frame length unavailable)"
		}
		return PreparedAssignment{}, outcome, false
	}

	a := PreparedAssignment{
		Row:           row.Index,
		Key:           IdentityKey{Name: name, Classifier: row.Key.Classifier},
		Type:          typeCode,
		Direction:     direction,
		CSys:          p.opts.Codes.Frame(direction, row.CSys),
		Relative:      res.Relative,
		Absolute:      res.Absolute,
		Value1:        *row.Value1,
		Value2:        *row.Value2,
		Adjusted:      res.Adjusted,
		CodesAdjusted: typeAdjusted || dirAdjusted,
	}
	if finite(length) {
		a.Length = length
	}
	return a, outcome, true
}

// length fetches the reference length once per name. NaN means unknown.
func (p *Preparer) length(ctx context.Context, name string) float64 {
	key := fold(name)
	if l, ok := p.lengths[key]; ok {
		return l
	}

	var l float64
	err := call(func() error {
		var err error
		l, err = p.model.Length(ctx, name)
		return err
	})
	if err != nil || !finite(l) || l <= 0 {
		if err != nil {
			p.log.Warn("Frame length lookup failed", zap.String("frame", name), zap.Error(err))
		}
		l = math.NaN()
	}
	p.lengths[key] = l
	return l
}
