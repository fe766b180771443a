// Package frameloads reconciles frame distributed load spreadsheets with the
// structural model database.
//
// The Store implements the model session used by core/reconcile over the
// frames, frame_loads and model_revisions tables. SnapshotStore keeps the
// desired set of the last applied run as the baseline for auto-removal.
// Service wires a run together, publishes its output to object storage and
// exposes the edge-triggered controller over HTTP:
//
//	POST /frame-loads/trigger  {"trigger": true}
//	GET  /frame-loads/last
//	GET  /frame-loads
//	GET  /frame-loads/reports
//	GET  /frame-loads/schema
package frameloads
