package reconcile

import (
	"context"
	"errors"
	"sort"

	"frameload-sync/core/sheet"
)

// fakeModel records every call made against it.
type fakeModel struct {
	lengths    map[string]float64
	namesErr   error
	lengthErr  map[string]error
	applyErr   map[string]error
	removeErr  map[string]error
	refreshErr error
	closeErr   error
	openErr    error

	calls       []string
	applied     []PreparedAssignment
	replace     []bool
	removed     []IdentityKey
	lengthCalls map[string]int
	closed      int
}

func newFakeModel(lengths map[string]float64) *fakeModel {
	return &fakeModel{
		lengths:     lengths,
		lengthErr:   map[string]error{},
		applyErr:    map[string]error{},
		removeErr:   map[string]error{},
		lengthCalls: map[string]int{},
	}
}

func (m *fakeModel) open(context.Context) (Session, error) {
	m.calls = append(m.calls, "open")
	if m.openErr != nil {
		return nil, m.openErr
	}
	return m, nil
}

func (m *fakeModel) ExistingNames(context.Context) ([]string, error) {
	m.calls = append(m.calls, "names")
	if m.namesErr != nil {
		return nil, m.namesErr
	}
	names := make([]string, 0, len(m.lengths))
	for n := range m.lengths {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

func (m *fakeModel) Length(_ context.Context, name string) (float64, error) {
	m.calls = append(m.calls, "length")
	m.lengthCalls[name]++
	if err := m.lengthErr[name]; err != nil {
		return 0, err
	}
	return m.lengths[name], nil
}

func (m *fakeModel) Apply(_ context.Context, a PreparedAssignment, replace bool) error {
	m.calls = append(m.calls, "apply")
	if err := m.applyErr[a.Key.String()]; err != nil {
		return err
	}
	m.applied = append(m.applied, a)
	m.replace = append(m.replace, replace)
	return nil
}

func (m *fakeModel) Remove(_ context.Context, key IdentityKey) error {
	m.calls = append(m.calls, "remove")
	if err := m.removeErr[key.String()]; err != nil {
		return err
	}
	m.removed = append(m.removed, key)
	return nil
}

func (m *fakeModel) RefreshView(context.Context) error {
	m.calls = append(m.calls, "refresh")
	return m.refreshErr
}

func (m *fakeModel) Close() error {
	m.closed++
	return m.closeErr
}

// writes counts apply, remove and refresh calls.
func (m *fakeModel) writes() int {
	n := 0
	for _, c := range m.calls {
		if c == "apply" || c == "remove" || c == "refresh" {
			n++
		}
	}
	return n
}

// staticSource returns fixed rows or an error.
type staticSource struct {
	rows []sheet.RawRow
	err  error
	reqs []sheet.Request
}

func (s *staticSource) Read(_ context.Context, req sheet.Request) ([]sheet.RawRow, error) {
	s.reqs = append(s.reqs, req)
	return s.rows, s.err
}

type staleRecorder struct {
	entities []string
	err      error
}

func (s *staleRecorder) MarkStale(entity string) error {
	s.entities = append(s.entities, entity)
	return s.err
}

var errBoom = errors.New("boom")
