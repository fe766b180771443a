// Package reconcile reconciles a spreadsheet of frame distributed loads with a
// live structural model.
//
// A run reads the sheet, parses and validates rows, resolves duplicates,
// prepares each row against the model (existence, reference length, codes,
// distance normalization), optionally removes keys that disappeared since the
// previous snapshot, and applies the rest. Per-item problems never stop a run;
// they are classified and reported in the Output diagnostics.
//
// # Components
//
//   - Normalizer: resolves relative and absolute distance pairs.
//   - Layout: header labels and row parsing into typed Rows.
//   - Diff: compares a baseline KeySet with the desired set.
//   - Preparer: resolves rows into PreparedAssignments.
//   - Applier: issues remove and apply calls against a Model.
//   - Controller: edge-triggered wrapper that replays the last output.
//
// # Usage
//
//	out := reconcile.Run(ctx, reconcile.Job{
//	    Source:  sheet.NewExcelReader(client),
//	    Request: sheet.Request{Path: "loads.xlsx", Sheet: "Frame Loads"},
//	    Model:   store.Open,
//	    Options: reconcile.DefaultOptions(),
//	}, log)
package reconcile
