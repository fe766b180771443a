package reconcile

import (
	"fmt"
	"sort"
	"strings"

	"frameload-sync/core/sheet"
)

// result accumulates the pieces of a completed run.
type result struct {
	rows     int
	desired  *KeySet
	baseline *KeySet
	prepared []PreparedAssignment
	items    []ItemOutcome
	removals []RemovalOutcome
	notes    []string
}

func (r result) output(runID string, opts Options) Output {
	items := make([]ItemOutcome, len(r.items))
	copy(items, r.items)
	sort.SliceStable(items, func(i, j int) bool { return items[i].Row < items[j].Row })

	removals := r.removals
	if removals == nil && opts.AutoRemove {
		removals = []RemovalOutcome{}
	}

	out := Output{
		RunID:    runID,
		Summary:  summarize(r.rows, items, removals),
		Table:    buildTable(opts.Layout, r.prepared),
		Items:    items,
		Removals: removals,
		Desired:  r.desired.Keys(),
	}
	if out.Desired == nil {
		out.Desired = []IdentityKey{}
	}

	var cs *Changeset
	if r.baseline != nil {
		d := Diff(r.baseline, r.desired)
		cs = &d
	}
	out.Diagnostics = diagnostics(runID, out.Summary, cs, opts.DryRun, items, removals, r.notes)
	return out
}

func summarize(rows int, items []ItemOutcome, removals []RemovalOutcome) Summary {
	s := Summary{Rows: rows}
	for _, it := range items {
		switch it.Status {
		case StatusApplied:
			s.Applied++
		case StatusFailed:
			s.Failed++
		case StatusSkipped:
			s.Skipped++
		case StatusPlanned:
			s.Planned++
		}
		if it.Adjusted {
			s.Adjusted++
		}
	}
	for _, rm := range removals {
		switch rm.Status {
		case StatusRemoved:
			s.Removed++
		case StatusFailed:
			s.RemoveFailed++
		case StatusPlanned:
			s.RemovePlanned++
		case StatusSkipped:
			s.RemoveSkipped++
		}
	}
	return s
}

func diagnostics(runID string, s Summary, cs *Changeset, dryRun bool, items []ItemOutcome, removals []RemovalOutcome, notes []string) []string {
	head := fmt.Sprintf("run %s: %d rows, %d applied, %d failed, %d skipped, %d removed",
		runID, s.Rows, s.Applied, s.Failed, s.Skipped, s.Removed)
	if s.RemoveFailed > 0 {
		head += fmt.Sprintf(", %d removals failed", s.RemoveFailed)
	}
	if dryRun {
		head += fmt.Sprintf(" (dry run: %d planned, %d removals planned)", s.Planned, s.RemovePlanned)
	}

	lines := []string{head}
	if cs != nil {
		lines = append(lines, fmt.Sprintf("changes: %d added, %d retained, %d no longer in source",
			len(cs.Added), len(cs.Retained), len(cs.Removed)))
	}
	lines = append(lines, notes...)

	for _, it := range items {
		tag := fmt.Sprintf("row %d [%s]", it.Row, it.Key)
		switch {
		case it.Status == StatusFailed || it.Status == StatusSkipped:
			lines = append(lines, fmt.Sprintf("%s: %s (%s): %s", tag, it.Status, it.Class, it.Reason))
		case it.Adjusted:
			lines = append(lines, fmt.Sprintf("%s: %s with adjusted values", tag, it.Status))
		}
	}
	for _, rm := range removals {
		line := fmt.Sprintf("remove [%s]: %s", rm.Key, rm.Status)
		if rm.Reason != "" {
			line += ": " + rm.Reason
		}
		lines = append(lines, line)
	}
	return lines
}

// buildTable renders prepared assignments as one column per layout field.
func buildTable(layout Layout, prepared []PreparedAssignment) Table {
	t := Table{Columns: make([]TableColumn, len(layout))}
	for i, c := range layout {
		values := make([]sheet.Cell, len(prepared))
		for j, a := range prepared {
			values[j] = a.cell(c.Field)
		}
		t.Columns[i] = TableColumn{Name: c.Label, Values: values}
	}
	return t
}

func (a PreparedAssignment) cell(f Field) sheet.Cell {
	switch f {
	case FieldName:
		return sheet.Text(a.Key.Name)
	case FieldClassifier:
		return sheet.Text(a.Key.Classifier)
	case FieldType:
		return sheet.Number(float64(a.Type))
	case FieldDirection:
		return sheet.Number(float64(a.Direction))
	case FieldRel1:
		return sheet.Number(a.Relative.Start)
	case FieldRel2:
		return sheet.Number(a.Relative.End)
	case FieldAbs1:
		return sheet.Number(a.Absolute.Start)
	case FieldAbs2:
		return sheet.Number(a.Absolute.End)
	case FieldValue1:
		return sheet.Number(a.Value1)
	case FieldValue2:
		return sheet.Number(a.Value2)
	case FieldCSys:
		return sheet.Text(a.CSys)
	}
	return sheet.Empty()
}

// FormatText renders an output as plain text lines.
func FormatText(out Output) string {
	var b strings.Builder
	for _, d := range out.Diagnostics {
		b.WriteString(d)
		b.WriteByte('\n')
	}
	return b.String()
}
