package views

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// View is a read view that can be invalidated.
type View interface {
	Name() string
	Invalidate()
}

// Registry groups dependent views by entity type.
type Registry struct {
	mu    sync.RWMutex
	views map[string][]View
	log   *zap.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{views: make(map[string][]View), log: log}
}

// Register attaches a view to an entity type.
func (r *Registry) Register(entity string, v View) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToLower(entity)
	r.views[key] = append(r.views[key], v)
}

// Views returns the views attached to an entity type.
func (r *Registry) Views(entity string) []View {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]View(nil), r.views[strings.ToLower(entity)]...)
}

// MarkStale invalidates every view of the entity type.
// A view that panics is skipped and reported in the returned error.
func (r *Registry) MarkStale(entity string) error {
	var failed []string
	for _, v := range r.Views(entity) {
		if err := invalidate(v); err != nil {
			failed = append(failed, v.Name())
			r.log.Debug("View invalidation failed", zap.String("view", v.Name()), zap.Error(err))
			continue
		}
		r.log.Debug("View marked stale", zap.String("entity", entity), zap.String("view", v.Name()))
	}
	if len(failed) > 0 {
		return fmt.Errorf("invalidate views: %s", strings.Join(failed, ", "))
	}
	return nil
}

func invalidate(v View) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	v.Invalidate()
	return nil
}
