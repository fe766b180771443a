// Package views provides read views that depend on reconciled entities.
//
// A Cached view computes its value on demand and keeps it for a TTL.
// Concurrent misses are collapsed with singleflight. After a successful write
// the reconciliation run calls Registry.MarkStale so the next read reloads.
package views
