package sheet

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"frameload-sync/core/guard"
)

// CSVReader reads comma-separated files. The Sheet field of a Request is ignored.
// Every non-blank field is a text cell; numbers are recovered by Cell.AsNumber.
type CSVReader struct {
	// Comma is the field delimiter. Zero means ','.
	Comma rune
}

// Read validates the header and returns the data rows of a CSV file.
func (r *CSVReader) Read(ctx context.Context, req Request) ([]RawRow, error) {
	req = req.Normalize()

	open := func(context.Context) (*os.File, error) {
		f, err := os.Open(req.Path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrNotFound, req.Path)
			}
			return nil, fmt.Errorf("%w: open %s: %v", ErrIO, req.Path, err)
		}
		return f, nil
	}

	return guard.Value(ctx, open, func(f *os.File) ([]RawRow, error) {
		rows, err := r.decode(f)
		if err != nil {
			return nil, err
		}
		return collect(rows, req)
	})
}

func (r *CSVReader) decode(src io.Reader) ([][]Cell, error) {
	cr := csv.NewReader(src)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	if r.Comma != 0 {
		cr.Comma = r.Comma
	}

	var rows [][]Cell
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: parse csv: %v", ErrIO, err)
		}
		cells := make([]Cell, len(rec))
		for i, v := range rec {
			cells[i] = Text(v)
		}

		// encoding/csv drops blank lines; keep rows aligned with source line numbers.
		line, _ := cr.FieldPos(0)
		for len(rows) < line-1 {
			rows = append(rows, nil)
		}
		rows = append(rows, cells)
	}
	return rows, nil
}
