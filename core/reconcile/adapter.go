package reconcile

import (
	"context"
	"io"

	"frameload-sync/core/guard"
	"frameload-sync/core/utils"

	"go.uber.org/zap"
)

// Model is the narrow view of the live structural model used by a run.
// Calls are issued sequentially from a single goroutine.
type Model interface {
	// ExistingNames lists every primary object currently in the model.
	ExistingNames(ctx context.Context) ([]string, error)

	// Length returns the reference length of the named object.
	Length(ctx context.Context, name string) (float64, error)

	// Apply creates or updates the assignment. Replace drops other loads on the same key first.
	Apply(ctx context.Context, a PreparedAssignment, replace bool) error

	// Remove deletes every assignment of the key.
	Remove(ctx context.Context, key IdentityKey) error

	// RefreshView asks the model host to redraw. Failures are ignored by callers.
	RefreshView(ctx context.Context) error
}

// Session is a Model scoped to one run. Close releases it.
type Session interface {
	Model
	io.Closer
}

// ModelOpener acquires a model session.
type ModelOpener = guard.Opener[Session]

// StaleMarker schedules dependent read views for re-evaluation.
type StaleMarker interface {
	MarkStale(entity string) error
}

// ProgressFunc receives (current, total, label) after each unit of work.
type ProgressFunc func(current, total int, label string)

// notify calls p and drops any panic it raises.
func notify(p ProgressFunc, log *zap.Logger, current, total int, label string) {
	if p == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Debug("progress callback failed",
				zap.String("class", string(ClassTransientUI)),
				zap.Any("panic", r))
		}
	}()
	p(current, total, label)
}

// call runs fn and turns a panic into an error.
func call(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &panicError{value: r}
		}
	}()
	return fn()
}

type panicError struct {
	value any
}

func (e *panicError) Error() string {
	return "model call panicked: " + utils.ToString(e.value)
}
