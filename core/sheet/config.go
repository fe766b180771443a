package sheet

import (
	"fmt"
	"path/filepath"
	"strings"

	"frameload-sync/core/storage"
)

// Config holds the default source location.
type Config struct {
	// Path is the workbook path or s3://bucket/key URL.
	Path string `mapstructure:"path" default:""`
	// Name is the worksheet name. Empty selects the first sheet.
	Name string `mapstructure:"name" default:"Frame Loads"`
	// StartRow is the 1-based header row.
	StartRow int `mapstructure:"start_row" default:"1"`
	// StartCol is the 1-based first header column.
	StartCol int `mapstructure:"start_col" default:"1"`
	// Format forces the reader (xlsx, csv). Empty picks by extension.
	Format string `mapstructure:"format" default:""`
	// Comma is the CSV delimiter.
	Comma string `mapstructure:"comma" default:","`
}

// Request builds a read request for the configured source.
func (c Config) Request() Request {
	return Request{Path: c.Path, Sheet: c.Name, StartRow: c.StartRow, StartCol: c.StartCol}.Normalize()
}

// NewReader selects a reader for path. The client is only used for s3:// paths.
func NewReader(c Config, path string, client storage.Client) (Reader, error) {
	format := strings.ToLower(strings.TrimSpace(c.Format))
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}

	switch format {
	case "xlsx", "xlsm", "xltx", "xltm":
		return NewExcelReader(client), nil
	case "csv", "txt":
		comma := ','
		if r := []rune(c.Comma); len(r) == 1 {
			comma = r[0]
		}
		return &CSVReader{Comma: comma}, nil
	default:
		return nil, fmt.Errorf("unsupported source format %q", format)
	}
}
