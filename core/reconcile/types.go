package reconcile

import (
	"slices"
	"sort"
	"strings"

	"frameload-sync/core/sheet"

	"golang.org/x/text/cases"
)

// IdentityKey addresses one assignable unit in the structural model:
// a primary object (frame) and a classifier (load pattern).
// Equality is case-insensitive on the trimmed components.
type IdentityKey struct {
	// Name is the primary object name, e.g. a frame label.
	Name string `json:"name" yaml:"name"`

	// Classifier qualifies the object, e.g. a load pattern name.
	Classifier string `json:"classifier" yaml:"classifier"`
}

// NewIdentityKey trims both components and reports whether the key is valid.
func NewIdentityKey(name, classifier string) (IdentityKey, bool) {
	k := IdentityKey{Name: strings.TrimSpace(name), Classifier: strings.TrimSpace(classifier)}
	return k, k.Valid()
}

// Valid reports whether both components are non-empty after trimming.
func (k IdentityKey) Valid() bool {
	return strings.TrimSpace(k.Name) != "" && strings.TrimSpace(k.Classifier) != ""
}

// ID returns the case-folded form used for map lookups.
func (k IdentityKey) ID() string {
	return fold(k.Name) + "\x1f" + fold(k.Classifier)
}

// Equal reports whether two keys address the same unit.
func (k IdentityKey) Equal(other IdentityKey) bool {
	return k.ID() == other.ID()
}

// String renders the key as name/classifier.
func (k IdentityKey) String() string {
	return strings.TrimSpace(k.Name) + "/" + strings.TrimSpace(k.Classifier)
}

// fold applies Unicode case folding. A Caser is stateful, so one is built per call.
func fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// KeySet is a set of identity keys. A nil *KeySet is an empty, absent set.
type KeySet struct {
	keys map[string]IdentityKey
}

// NewKeySet builds a set from the given keys. Invalid keys are ignored.
func NewKeySet(keys ...IdentityKey) *KeySet {
	s := &KeySet{keys: make(map[string]IdentityKey, len(keys))}
	for _, k := range keys {
		s.Add(k)
	}
	return s
}

// Add inserts a key and reports whether it was new. The first spelling wins.
func (s *KeySet) Add(k IdentityKey) bool {
	if !k.Valid() {
		return false
	}
	if s.keys == nil {
		s.keys = make(map[string]IdentityKey)
	}
	id := k.ID()
	if _, ok := s.keys[id]; ok {
		return false
	}
	s.keys[id] = IdentityKey{Name: strings.TrimSpace(k.Name), Classifier: strings.TrimSpace(k.Classifier)}
	return true
}

// Contains reports whether the set holds a key equal to k.
func (s *KeySet) Contains(k IdentityKey) bool {
	if s == nil {
		return false
	}
	_, ok := s.keys[k.ID()]
	return ok
}

// Len returns the number of keys.
func (s *KeySet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

// Keys returns the keys sorted by their folded form.
func (s *KeySet) Keys() []IdentityKey {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.keys))
	for id := range s.keys {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]IdentityKey, len(ids))
	for i, id := range ids {
		out[i] = s.keys[id]
	}
	return out
}

// NameSet is the live-model membership check for primary objects.
// Lookups are case-insensitive and return the model's own spelling.
type NameSet struct {
	names map[string]string
}

// NewNameSet indexes the given object names.
func NewNameSet(names []string) *NameSet {
	s := &NameSet{names: make(map[string]string, len(names))}
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := s.names[fold(n)]; !ok {
			s.names[fold(n)] = n
		}
	}
	return s
}

// Lookup returns the canonical model name for name.
func (s *NameSet) Lookup(name string) (string, bool) {
	if s == nil {
		return "", false
	}
	n, ok := s.names[fold(name)]
	return n, ok
}

// Len returns the number of known objects.
func (s *NameSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}

// Pair is an ordered pair of distances along a frame.
type Pair struct {
	Start float64 `json:"start" yaml:"start"`
	End   float64 `json:"end" yaml:"end"`
}

// Row is a parsed spreadsheet record. Nil fields were blank or unreadable.
type Row struct {
	// Index is the 1-based source row number.
	Index int

	// Key is the identity of the row. It may be invalid when identity cells are blank.
	Key IdentityKey

	// Type is the load type code as read.
	Type *float64
	// Direction is the load direction code as read.
	Direction *float64
	// Rel1 is the relative start distance.
	Rel1 *float64
	// Rel2 is the relative end distance.
	Rel2 *float64
	// Abs1 is the absolute start distance.
	Abs1 *float64
	// Abs2 is the absolute end distance.
	Abs2 *float64
	// Value1 is the load magnitude at the start.
	Value1 *float64
	// Value2 is the load magnitude at the end.
	Value2 *float64

	// CSys overrides the derived coordinate frame when present.
	CSys *string

	// Skip holds the reason this row will not be prepared. Empty means valid.
	Skip string
}

// Skipped reports whether the row was rejected.
func (r Row) Skipped() bool {
	return r.Skip != ""
}

// Relative returns the relative pair when both ends are present.
func (r Row) Relative() *Pair {
	return pairOf(r.Rel1, r.Rel2)
}

// Absolute returns the absolute pair when both ends are present.
func (r Row) Absolute() *Pair {
	return pairOf(r.Abs1, r.Abs2)
}

func pairOf(a, b *float64) *Pair {
	if a == nil || b == nil || !finite(*a) || !finite(*b) {
		return nil
	}
	return &Pair{Start: *a, End: *b}
}

// PreparedAssignment is a fully resolved row ready to apply.
type PreparedAssignment struct {
	// Row is the 1-based source row number.
	Row int `json:"row" yaml:"row"`

	// Key uses the model's canonical object name.
	Key IdentityKey `json:"key" yaml:"key"`

	// Type is the load type code (force or moment).
	Type int `json:"type" yaml:"type"`

	// Direction is the load direction code.
	Direction int `json:"direction" yaml:"direction"`

	// CSys is the coordinate frame label.
	CSys string `json:"csys" yaml:"csys"`

	// Relative is the resolved relative pair in [0,1].
	Relative Pair `json:"relative" yaml:"relative"`

	// Absolute is the resolved absolute pair in model length units.
	Absolute Pair `json:"absolute" yaml:"absolute"`

	// Value1 and Value2 are the load magnitudes at the start and end.
	Value1 float64 `json:"value1" yaml:"value1"`
	Value2 float64 `json:"value2" yaml:"value2"`

	// Length is the reference length used, zero when unknown.
	Length float64 `json:"length" yaml:"length"`

	// Adjusted is true when distances were clamped, swapped or overridden.
	Adjusted bool `json:"adjusted" yaml:"adjusted"`

	// CodesAdjusted is true when a type or direction code fell back to its default.
	CodesAdjusted bool `json:"codes_adjusted" yaml:"codes_adjusted"`
}

// Status is the outcome of one item.
type Status string

const (
	// StatusApplied means the create-or-update call succeeded.
	StatusApplied Status = "applied"
	// StatusRemoved means the remove call succeeded.
	StatusRemoved Status = "removed"
	// StatusFailed means the item could not be written.
	StatusFailed Status = "failed"
	// StatusSkipped means the item was never sent to the model.
	StatusSkipped Status = "skipped"
	// StatusPlanned means the item would be written outside of dry-run mode.
	StatusPlanned Status = "planned"
)

// FailureClass classifies non-fatal problems.
type FailureClass string

const (
	// ClassRowValidation covers missing required fields and unusable distances.
	ClassRowValidation FailureClass = "row_validation"
	// ClassExternalReference covers objects absent from the live model.
	ClassExternalReference FailureClass = "external_reference"
	// ClassExternalApply covers failed apply or remove calls.
	ClassExternalApply FailureClass = "external_apply"
	// ClassTransientUI covers progress, refresh and view scheduling failures.
	ClassTransientUI FailureClass = "transient_ui"
)

// ItemOutcome records what happened to one source row.
type ItemOutcome struct {
	Row      int          `json:"row" yaml:"row"`
	Key      IdentityKey  `json:"key" yaml:"key"`
	Status   Status       `json:"status" yaml:"status"`
	Class    FailureClass `json:"class,omitempty" yaml:"class,omitempty"`
	Reason   string       `json:"reason,omitempty" yaml:"reason,omitempty"`
	Adjusted bool         `json:"adjusted,omitempty" yaml:"adjusted,omitempty"`
}

// RemovalOutcome records what happened to one removal candidate.
type RemovalOutcome struct {
	Key    IdentityKey  `json:"key" yaml:"key"`
	Status Status       `json:"status" yaml:"status"`
	Class  FailureClass `json:"class,omitempty" yaml:"class,omitempty"`
	Reason string       `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Summary provides aggregate counts for a run.
type Summary struct {
	// Rows is the number of data rows read from the source.
	Rows int `json:"rows" yaml:"rows"`

	// Applied counts successful create-or-update calls.
	Applied int `json:"applied" yaml:"applied"`

	// Failed counts rows that reached the model lookup or apply step and failed.
	Failed int `json:"failed" yaml:"failed"`

	// Skipped counts rows rejected before any model call.
	Skipped int `json:"skipped" yaml:"skipped"`

	// Planned counts rows that would be applied in a dry run.
	Planned int `json:"planned" yaml:"planned"`

	// Adjusted counts prepared rows whose distances or codes were corrected.
	Adjusted int `json:"adjusted" yaml:"adjusted"`

	// Removed counts successful remove calls.
	Removed int `json:"removed" yaml:"removed"`

	// RemoveFailed counts failed remove calls.
	RemoveFailed int `json:"remove_failed" yaml:"remove_failed"`

	// RemovePlanned counts removals that would run outside of dry-run mode.
	RemovePlanned int `json:"remove_planned" yaml:"remove_planned"`

	// RemoveSkipped counts candidates whose object no longer exists.
	RemoveSkipped int `json:"remove_skipped" yaml:"remove_skipped"`
}

// TableColumn is one declared field of the output table.
type TableColumn struct {
	Name   string       `json:"name" yaml:"name"`
	Values []sheet.Cell `json:"values" yaml:"values"`
}

// Table is a column-oriented view of the reconciled rows. All columns have the same length.
type Table struct {
	Columns []TableColumn `json:"columns" yaml:"columns"`
}

// Len returns the number of rows.
func (t Table) Len() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Values)
}

// Column returns the column with the given name, compared case-insensitively.
func (t Table) Column(name string) (TableColumn, bool) {
	for _, c := range t.Columns {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return TableColumn{}, false
}

// Output is the complete result of one reconciliation run.
type Output struct {
	// RunID identifies the run that produced this output.
	RunID string `json:"run_id" yaml:"run_id"`

	// Aborted is true when a configuration or source format error stopped the run.
	Aborted bool `json:"aborted" yaml:"aborted"`

	// Error holds the fatal error message of an aborted run.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	// Summary provides aggregate counts.
	Summary Summary `json:"summary" yaml:"summary"`

	// Table holds the reconciled rows.
	Table Table `json:"table" yaml:"table"`

	// Diagnostics holds the run summary line followed by itemized messages.
	Diagnostics []string `json:"diagnostics" yaml:"diagnostics"`

	// Items holds one outcome per source row, in row order.
	Items []ItemOutcome `json:"items" yaml:"items"`

	// Removals holds removal outcomes in key order. Empty unless auto-removal ran.
	Removals []RemovalOutcome `json:"removals,omitempty" yaml:"removals,omitempty"`

	// Desired is the set of identity keys found in the source.
	Desired []IdentityKey `json:"desired" yaml:"desired"`
}

// Clone returns a copy that shares no slices with o.
func (o Output) Clone() Output {
	out := o
	out.Diagnostics = slices.Clone(o.Diagnostics)
	out.Items = slices.Clone(o.Items)
	out.Removals = slices.Clone(o.Removals)
	out.Desired = slices.Clone(o.Desired)
	if o.Table.Columns != nil {
		out.Table.Columns = make([]TableColumn, len(o.Table.Columns))
		for i, c := range o.Table.Columns {
			out.Table.Columns[i] = TableColumn{Name: c.Name, Values: slices.Clone(c.Values)}
		}
	}
	return out
}
