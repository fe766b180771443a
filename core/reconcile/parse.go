package reconcile

import (
	"fmt"
	"strings"

	"frameload-sync/core/sheet"
)

// Field names a typed row field.
type Field string

const (
	// FieldName is the frame name half of the identity key.
	FieldName Field = "name"
	// FieldClassifier is the load pattern half of the identity key.
	FieldClassifier Field = "classifier"
	// FieldType is the load type code.
	FieldType Field = "type"
	// FieldDirection is the load direction code.
	FieldDirection Field = "direction"
	// FieldRel1 is the relative start distance.
	FieldRel1 Field = "rel1"
	// FieldRel2 is the relative end distance.
	FieldRel2 Field = "rel2"
	// FieldAbs1 is the absolute start distance.
	FieldAbs1 Field = "abs1"
	// FieldAbs2 is the absolute end distance.
	FieldAbs2 Field = "abs2"
	// FieldValue1 is the load magnitude at the start.
	FieldValue1 Field = "value1"
	// FieldValue2 is the load magnitude at the end.
	FieldValue2 Field = "value2"
	// FieldCSys is the coordinate system override.
	FieldCSys Field = "csys"
)

// requiredFields must be present for a row to be prepared.
var requiredFields = []Field{FieldName, FieldClassifier, FieldType, FieldDirection, FieldValue1, FieldValue2}

// ColumnSpec binds a header label to a row field.
type ColumnSpec struct {
	Label string
	Field Field
}

// Layout is the ordered list of expected columns.
type Layout []ColumnSpec

// DefaultLayout returns the frame distributed load column layout.
func DefaultLayout() Layout {
	return Layout{
		{Label: "Frame", Field: FieldName},
		{Label: "Load Pattern", Field: FieldClassifier},
		{Label: "Type", Field: FieldType},
		{Label: "Direction", Field: FieldDirection},
		{Label: "RelDist1", Field: FieldRel1},
		{Label: "RelDist2", Field: FieldRel2},
		{Label: "AbsDist1", Field: FieldAbs1},
		{Label: "AbsDist2", Field: FieldAbs2},
		{Label: "Value1", Field: FieldValue1},
		{Label: "Value2", Field: FieldValue2},
		{Label: "CSys", Field: FieldCSys},
	}
}

// Headers returns the expected header labels in order.
func (l Layout) Headers() []string {
	out := make([]string, len(l))
	for i, c := range l {
		out[i] = c.Label
	}
	return out
}

// Label returns the header label bound to f, or the field name when unbound.
func (l Layout) Label(f Field) string {
	for _, c := range l {
		if c.Field == f {
			return c.Label
		}
	}
	return string(f)
}

func (l Layout) index(f Field) int {
	for i, c := range l {
		if c.Field == f {
			return i
		}
	}
	return -1
}

// Validate checks that every required field is bound exactly once.
func (l Layout) Validate() error {
	seen := make(map[Field]bool, len(l))
	for _, c := range l {
		if strings.TrimSpace(c.Label) == "" {
			return &ConfigurationError{Field: "layout", Reason: fmt.Sprintf("empty label for field %s", c.Field)}
		}
		if seen[c.Field] {
			return &ConfigurationError{Field: "layout", Reason: fmt.Sprintf("field %s bound twice", c.Field)}
		}
		seen[c.Field] = true
	}
	for _, f := range requiredFields {
		if !seen[f] {
			return &ConfigurationError{Field: "layout", Reason: fmt.Sprintf("required field %s is not bound", f)}
		}
	}
	return nil
}

// ParseRow converts raw cells into a typed row and validates required fields.
func (l Layout) ParseRow(raw sheet.RawRow) Row {
	row := Row{Index: raw.Index}

	name := l.text(raw, FieldName)
	classifier := l.text(raw, FieldClassifier)
	if name != nil {
		row.Key.Name = *name
	}
	if classifier != nil {
		row.Key.Classifier = *classifier
	}

	row.Type = l.number(raw, FieldType)
	row.Direction = l.number(raw, FieldDirection)
	row.Rel1 = l.number(raw, FieldRel1)
	row.Rel2 = l.number(raw, FieldRel2)
	row.Abs1 = l.number(raw, FieldAbs1)
	row.Abs2 = l.number(raw, FieldAbs2)
	row.Value1 = l.number(raw, FieldValue1)
	row.Value2 = l.number(raw, FieldValue2)
	row.CSys = l.text(raw, FieldCSys)

	var missing []string
	for _, f := range requiredFields {
		if !row.has(f) {
			missing = append(missing, l.Label(f))
		}
	}
	switch {
	case len(missing) > 0:
		row.Skip = "missing " + strings.Join(missing, ", ")
	case row.Relative() == nil && row.Absolute() == nil:
		row.Skip = "no usable distance data"
	}
	return row
}

// ParseRows parses every raw row in order.
func (l Layout) ParseRows(raw []sheet.RawRow) []Row {
	rows := make([]Row, len(raw))
	for i, r := range raw {
		rows[i] = l.ParseRow(r)
	}
	return rows
}

func (r Row) has(f Field) bool {
	switch f {
	case FieldName:
		return strings.TrimSpace(r.Key.Name) != ""
	case FieldClassifier:
		return strings.TrimSpace(r.Key.Classifier) != ""
	case FieldType:
		return r.Type != nil
	case FieldDirection:
		return r.Direction != nil
	case FieldValue1:
		return r.Value1 != nil
	case FieldValue2:
		return r.Value2 != nil
	}
	return true
}

func (l Layout) cell(raw sheet.RawRow, f Field) sheet.Cell {
	i := l.index(f)
	if i < 0 || i >= len(raw.Cells) {
		return sheet.Empty()
	}
	return raw.Cells[i]
}

func (l Layout) text(raw sheet.RawRow, f Field) *string {
	s, ok := l.cell(raw, f).AsText()
	if !ok || s == "" {
		return nil
	}
	return &s
}

func (l Layout) number(raw sheet.RawRow, f Field) *float64 {
	v, ok := l.cell(raw, f).AsNumber()
	if !ok || !finite(v) {
		return nil
	}
	return &v
}

// DesiredSet collects the identity keys of every row with a valid key, skipped or not.
func DesiredSet(rows []Row) *KeySet {
	set := NewKeySet()
	for _, r := range rows {
		set.Add(r.Key)
	}
	return set
}
