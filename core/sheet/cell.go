package sheet

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"frameload-sync/core/utils"
)

// Kind identifies which variant a Cell holds.
type Kind uint8

const (
	// KindEmpty is a blank cell.
	KindEmpty Kind = iota
	// KindText is a text cell.
	KindText
	// KindNumber is a native numeric cell.
	KindNumber
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	default:
		return "empty"
	}
}

// Cell is a loosely-typed spreadsheet value: empty, text or number.
// The zero value is an empty cell.
type Cell struct {
	kind   Kind
	text   string
	number float64
}

// Empty returns a blank cell.
func Empty() Cell {
	return Cell{}
}

// Text returns a text cell. Whitespace-only input yields an empty cell.
func Text(s string) Cell {
	if strings.TrimSpace(s) == "" {
		return Cell{}
	}
	return Cell{kind: KindText, text: s}
}

// Number returns a numeric cell. Non-finite input yields an empty cell.
func Number(f float64) Cell {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Cell{}
	}
	return Cell{kind: KindNumber, number: f}
}

// FromAny builds a cell from a driver or decoder value.
func FromAny(v any) Cell {
	switch x := v.(type) {
	case nil:
		return Empty()
	case Cell:
		return x
	case string:
		return Text(x)
	case []byte:
		return Text(string(x))
	case bool:
		return Text(strconv.FormatBool(x))
	}
	if f, ok := utils.ToFloat(v); ok {
		return Number(f)
	}
	return Text(utils.ToString(v))
}

// Kind returns the variant held by the cell.
func (c Cell) Kind() Kind {
	return c.kind
}

// IsEmpty reports whether the cell is blank.
func (c Cell) IsEmpty() bool {
	return c.kind == KindEmpty
}

// AsText returns the trimmed text of the cell. Numbers are formatted without
// trailing zeros so that a frame named 12 reads as "12".
func (c Cell) AsText() (string, bool) {
	switch c.kind {
	case KindText:
		s := strings.TrimSpace(c.text)
		return s, s != ""
	case KindNumber:
		return strconv.FormatFloat(c.number, 'f', -1, 64), true
	default:
		return "", false
	}
}

// AsNumber returns the numeric value of the cell. Text is parsed leniently.
func (c Cell) AsNumber() (float64, bool) {
	switch c.kind {
	case KindNumber:
		return c.number, true
	case KindText:
		return utils.ParseLenient(c.text)
	default:
		return 0, false
	}
}

// String renders the cell for logs and reports.
func (c Cell) String() string {
	s, _ := c.AsText()
	return s
}

// Value returns the cell as nil, string or float64.
func (c Cell) Value() any {
	switch c.kind {
	case KindText:
		return c.text
	case KindNumber:
		return c.number
	default:
		return nil
	}
}

// MarshalJSON encodes the cell as null, a string or a number.
func (c Cell) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Value())
}

// UnmarshalJSON decodes null, a string or a number.
func (c *Cell) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*c = FromAny(v)
	return nil
}

// MarshalYAML encodes the cell as null, a string or a number.
func (c Cell) MarshalYAML() (any, error) {
	return c.Value(), nil
}
