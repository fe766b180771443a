// Package sheet reads tabular sources (workbooks and CSV files) into ordered raw rows.
//
// Cells are represented by Cell, a small tagged union of empty, text and number
// values with explicit AsText and AsNumber accessors. Readers validate the declared
// header row against the expected labels before any data row is returned; a
// mismatch aborts the read with ErrHeaderMismatch.
//
// # Sources
//
//   - ExcelReader: .xlsx workbooks, either on disk or in object storage (s3://bucket/key).
//   - CSVReader: delimited text files.
//
// Each read opens the source, reads it and releases it through core/guard, so handles
// never outlive a call.
//
// # Usage
//
//	rows, err := sheet.NewExcelReader(client).Read(ctx, sheet.Request{
//	    Path:     "loads.xlsx",
//	    Sheet:    "Frame Loads",
//	    StartRow: 1,
//	    StartCol: 1,
//	    Headers:  []string{"Frame", "Load Pattern"},
//	})
package sheet
