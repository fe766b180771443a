package sheet

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"frameload-sync/core/guard"
	"frameload-sync/core/storage"

	"github.com/minio/minio-go/v7"
	"github.com/xuri/excelize/v2"
)

// ObjectScheme prefixes workbook paths that live in object storage.
const ObjectScheme = "s3://"

// ExcelReader reads .xlsx workbooks from disk or from object storage.
type ExcelReader struct {
	client storage.Client
}

// NewExcelReader creates a workbook reader. client may be nil when only
// local paths are used.
func NewExcelReader(client storage.Client) *ExcelReader {
	return &ExcelReader{client: client}
}

// Read opens the workbook, validates the header block and returns the data rows.
// The workbook handle is released before Read returns.
func (r *ExcelReader) Read(ctx context.Context, req Request) ([]RawRow, error) {
	req = req.Normalize()

	return guard.Value(ctx, r.open(req.Path), func(f *excelize.File) ([]RawRow, error) {
		sheetName, err := resolveSheet(f, req.Sheet)
		if err != nil {
			return nil, err
		}

		raw, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("%w: read sheet %q: %v", ErrIO, sheetName, err)
		}

		rows := make([][]Cell, len(raw))
		for i, values := range raw {
			rows[i] = make([]Cell, len(values))
			for j, v := range values {
				rows[i][j] = workbookCell(f, sheetName, j+1, i+1, v)
			}
		}

		return collect(rows, req)
	})
}

func (r *ExcelReader) open(path string) guard.Opener[*excelize.File] {
	return func(ctx context.Context) (*excelize.File, error) {
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("%w: empty workbook path", ErrNotFound)
		}

		if strings.HasPrefix(path, ObjectScheme) {
			return r.openObject(ctx, path)
		}

		f, err := excelize.OpenFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: workbook %s", ErrNotFound, path)
			}
			return nil, fmt.Errorf("%w: open workbook %s: %v", ErrIO, path, err)
		}
		return f, nil
	}
}

func (r *ExcelReader) openObject(ctx context.Context, path string) (*excelize.File, error) {
	bucket, key, ok := SplitObjectPath(path)
	if !ok {
		return nil, fmt.Errorf("%w: invalid object path %s", ErrNotFound, path)
	}
	if r.client == nil {
		return nil, fmt.Errorf("%w: no storage client for %s", ErrIO, path)
	}

	obj, err := r.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, objectError(path, err)
	}
	defer obj.Close()

	f, err := excelize.OpenReader(obj)
	if err != nil {
		return nil, objectError(path, err)
	}
	return f, nil
}

// SplitObjectPath splits s3://bucket/key into its parts.
func SplitObjectPath(path string) (bucket, key string, ok bool) {
	rest := strings.TrimPrefix(path, ObjectScheme)
	if rest == path {
		return "", "", false
	}
	bucket, key, found := strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}

func objectError(path string, err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" || minio.ToErrorResponse(err).Code == "NoSuchBucket" {
		return fmt.Errorf("%w: object %s", ErrNotFound, path)
	}
	return fmt.Errorf("%w: read object %s: %v", ErrIO, path, err)
}

func resolveSheet(f *excelize.File, name string) (string, error) {
	if name == "" {
		list := f.GetSheetList()
		if len(list) == 0 {
			return "", fmt.Errorf("%w: workbook has no sheets", ErrNotFound)
		}
		return list[0], nil
	}

	// Sheet names are case-insensitive in spreadsheet applications.
	for _, s := range f.GetSheetList() {
		if strings.EqualFold(s, name) {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: sheet %q", ErrNotFound, name)
}

// workbookCell maps a raw workbook value to a Cell. Strings stored as text keep
// their text form even when they look numeric.
func workbookCell(f *excelize.File, sheetName string, col, row int, raw string) Cell {
	if strings.TrimSpace(raw) == "" {
		return Empty()
	}

	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return Text(raw)
	}
	typ, err := f.GetCellType(sheetName, axis)
	if err != nil {
		return Text(raw)
	}

	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeBool, excelize.CellTypeError:
		return Text(raw)
	}

	if v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
		return Number(v)
	}
	return Text(raw)
}
