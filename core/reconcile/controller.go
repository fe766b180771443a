package reconcile

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// State is the controller state.
type State int

const (
	// StateIdle waits for a rising trigger.
	StateIdle State = iota
	// StateReady has run for the current trigger and replays until it falls.
	StateReady
)

func (s State) String() string {
	if s == StateReady {
		return "ready"
	}
	return "idle"
}

// RunFunc performs one reconciliation run.
type RunFunc func(ctx context.Context) Output

// Memory is the controller state held by the host between invocations.
type Memory struct {
	State   State  `json:"state"`
	Trigger bool   `json:"trigger"`
	Last    Output `json:"last"`
	HasLast bool   `json:"has_last"`
}

// Controller runs only when the trigger goes from false to true between two
// consecutive invocations. Every other invocation replays the last output.
type Controller struct {
	mu  sync.Mutex
	run RunFunc
	mem Memory
	log *zap.Logger
}

// NewController creates an idle controller.
func NewController(run RunFunc, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{run: run, log: log}
}

// Invoke processes one trigger sample and reports whether a run happened.
func (c *Controller) Invoke(ctx context.Context, trigger bool) (Output, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rising := trigger && !c.mem.Trigger
	c.mem.Trigger = trigger

	if !rising {
		if !trigger {
			c.mem.State = StateIdle
		}
		return c.mem.Last.Clone(), false
	}

	c.log.Info("Trigger rose, starting run")
	out := c.run(ctx)
	c.mem.Last = out.Clone()
	c.mem.HasLast = true
	c.mem.State = StateReady
	return out, true
}

// Last returns the last output and whether one exists.
func (c *Controller) Last() (Output, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mem.Last.Clone(), c.mem.HasLast
}

// Memory returns a copy of the controller state for persistence by the host.
func (c *Controller) Memory() Memory {
	c.mu.Lock()
	defer c.mu.Unlock()
	m := c.mem
	m.Last = c.mem.Last.Clone()
	return m
}

// Restore replaces the controller state.
func (c *Controller) Restore(m Memory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mem = m
	c.mem.Last = m.Last.Clone()
}
