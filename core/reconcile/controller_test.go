package reconcile

import (
	"context"
	"fmt"
	"testing"

	"frameload-sync/core/sheet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_RunsOnlyOnRisingEdge(t *testing.T) {
	runs := 0
	c := NewController(func(context.Context) Output {
		runs++
		return Output{RunID: fmt.Sprintf("run-%d", runs)}
	}, nil)
	ctx := context.Background()

	steps := []struct {
		trigger bool
		ran     bool
		runID   string
		state   State
	}{
		{trigger: false, ran: false, runID: "", state: StateIdle},
		{trigger: true, ran: true, runID: "run-1", state: StateReady},
		{trigger: true, ran: false, runID: "run-1", state: StateReady},
		{trigger: false, ran: false, runID: "run-1", state: StateIdle},
		{trigger: true, ran: true, runID: "run-2", state: StateReady},
	}

	for i, s := range steps {
		out, ran := c.Invoke(ctx, s.trigger)
		assert.Equal(t, s.ran, ran, "step %d", i)
		assert.Equal(t, s.runID, out.RunID, "step %d", i)
		assert.Equal(t, s.state, c.Memory().State, "step %d", i)
	}
	assert.Equal(t, 2, runs)
}

func TestController_ReplayIsDeterministic(t *testing.T) {
	m := newFakeModel(map[string]float64{"F1": 10})
	src := &staticSource{rows: []sheet.RawRow{
		raw(2, "F1", "P1", 1, 10, 0.9, 0.1, nil, nil, 1, 1),
		raw(3, "F9", "P1", 1, 10, 0, 1, nil, nil, 1, 1),
	}}
	j := job(src, m)
	c := NewController(func(ctx context.Context) Output {
		return Run(ctx, j, nil)
	}, nil)
	ctx := context.Background()

	first, ran := c.Invoke(ctx, true)
	require.True(t, ran)
	calls := len(m.calls)
	reads := len(src.reqs)

	for _, trigger := range []bool{true, true, false, false} {
		out, ran := c.Invoke(ctx, trigger)
		assert.False(t, ran)
		assert.Equal(t, first, out)
	}
	assert.Equal(t, calls, len(m.calls))
	assert.Equal(t, reads, len(src.reqs))
}

func TestController_Restore(t *testing.T) {
	c := NewController(func(context.Context) Output { return Output{RunID: "fresh"} }, nil)
	c.Restore(Memory{State: StateReady, Trigger: true, Last: Output{RunID: "saved"}, HasLast: true})

	out, ran := c.Invoke(context.Background(), true)
	assert.False(t, ran)
	assert.Equal(t, "saved", out.RunID)

	last, ok := c.Last()
	assert.True(t, ok)
	assert.Equal(t, "saved", last.RunID)
	assert.Equal(t, "ready", StateReady.String())
}

func TestController_ReplayIsIsolatedFromCallers(t *testing.T) {
	c := NewController(func(context.Context) Output {
		return Output{
			RunID:       "run-1",
			Diagnostics: []string{"run run-1: 1 rows"},
			Items:       []ItemOutcome{{Row: 2, Status: StatusApplied}},
			Removals:    []RemovalOutcome{{Status: StatusRemoved}},
			Table:       Table{Columns: []TableColumn{{Name: "Value1", Values: []sheet.Cell{sheet.Number(1)}}}},
		}
	}, nil)
	ctx := context.Background()

	out, ran := c.Invoke(ctx, true)
	require.True(t, ran)
	out.Diagnostics[0] = "edited"
	out.Items[0].Status = StatusFailed
	out.Removals[0].Status = StatusFailed
	out.Table.Columns[0].Values[0] = sheet.Number(99)

	replay, ran := c.Invoke(ctx, false)
	assert.False(t, ran)
	assert.Equal(t, []string{"run run-1: 1 rows"}, replay.Diagnostics)
	assert.Equal(t, StatusApplied, replay.Items[0].Status)
	assert.Equal(t, StatusRemoved, replay.Removals[0].Status)
	assert.Equal(t, sheet.Number(1), replay.Table.Columns[0].Values[0])

	replay.Diagnostics[0] = "edited again"
	last, ok := c.Last()
	require.True(t, ok)
	assert.Equal(t, "run run-1: 1 rows", last.Diagnostics[0])

	mem := c.Memory()
	mem.Last.Items[0].Row = 7
	assert.Equal(t, 2, c.Memory().Last.Items[0].Row)
}
