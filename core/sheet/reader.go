package sheet

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates that the workbook, object or sheet does not exist.
	ErrNotFound = errors.New("source not found")

	// ErrHeaderMismatch indicates that the declared header row differs from the expected labels.
	ErrHeaderMismatch = errors.New("header mismatch")

	// ErrIO indicates that the source exists but could not be read.
	ErrIO = errors.New("source io error")
)

// Request describes which block of a tabular source to read.
type Request struct {
	// Path is a local file path or an object URL of the form s3://bucket/key.
	Path string `json:"path"`

	// Sheet is the worksheet name. Empty selects the first sheet.
	Sheet string `json:"sheet"`

	// StartRow is the 1-based row holding the header labels.
	StartRow int `json:"start_row"`

	// StartCol is the 1-based column of the first label.
	StartCol int `json:"start_col"`

	// Headers are the expected labels, in order.
	Headers []string `json:"headers"`
}

// Normalize fills defaults for missing start coordinates.
func (r Request) Normalize() Request {
	if r.StartRow < 1 {
		r.StartRow = 1
	}
	if r.StartCol < 1 {
		r.StartCol = 1
	}
	return r
}

// RawRow is one data row below the header, cut to the header width.
type RawRow struct {
	// Index is the 1-based row number in the source.
	Index int `json:"index"`

	// Cells holds exactly len(Request.Headers) cells.
	Cells []Cell `json:"cells"`
}

// Reader reads ordered raw rows from a tabular source.
// Implementations validate the header before returning any row.
type Reader interface {
	Read(ctx context.Context, req Request) ([]RawRow, error)
}

// HeaderMismatchError reports the expected and actual header labels.
type HeaderMismatchError struct {
	Expected []string
	Actual   []string
}

// Error implements the error interface.
func (e *HeaderMismatchError) Error() string {
	return fmt.Sprintf("header mismatch: expected [%s], got [%s]",
		strings.Join(e.Expected, ", "), strings.Join(e.Actual, ", "))
}

// Is implements errors.Is support.
func (e *HeaderMismatchError) Is(target error) bool {
	return target == ErrHeaderMismatch
}

// ValidateHeader compares a header row with the expected labels.
// Labels are trimmed and compared case-insensitively; order and count must match.
func ValidateHeader(row []Cell, expected []string) error {
	actual := make([]string, len(row))
	for i, c := range row {
		actual[i], _ = c.AsText()
	}

	// Trailing blanks beyond the expected width are not part of the header.
	trimmed := actual
	for len(trimmed) > len(expected) && trimmed[len(trimmed)-1] == "" {
		trimmed = trimmed[:len(trimmed)-1]
	}

	if len(trimmed) != len(expected) {
		return &HeaderMismatchError{Expected: expected, Actual: trimmed}
	}
	for i, want := range expected {
		if !strings.EqualFold(strings.TrimSpace(want), trimmed[i]) {
			return &HeaderMismatchError{Expected: expected, Actual: trimmed}
		}
	}
	return nil
}

// window cuts a full source row to the header block.
func window(row []Cell, startCol, width int) []Cell {
	out := make([]Cell, width)
	for i := 0; i < width; i++ {
		src := startCol - 1 + i
		if src < len(row) {
			out[i] = row[src]
		}
	}
	return out
}

// collect validates the header row and cuts the data rows below it.
// rows[i] is the full source row i+1. Blank rows are dropped.
func collect(rows [][]Cell, req Request) ([]RawRow, error) {
	width := len(req.Headers)
	headerIdx := req.StartRow - 1

	var header []Cell
	if headerIdx < len(rows) {
		// Header check reads everything right of StartCol so extra labels are caught.
		full := rows[headerIdx]
		if req.StartCol-1 < len(full) {
			header = full[req.StartCol-1:]
		}
	}
	if err := ValidateHeader(header, req.Headers); err != nil {
		return nil, err
	}

	var out []RawRow
	for i := headerIdx + 1; i < len(rows); i++ {
		cells := window(rows[i], req.StartCol, width)
		if allEmpty(cells) {
			continue
		}
		out = append(out, RawRow{Index: i + 1, Cells: cells})
	}
	return out, nil
}

func allEmpty(cells []Cell) bool {
	for _, c := range cells {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}
