// Package utils provides common utility functions for the frameload-sync application.
// It includes lenient numeric parsing used when reading spreadsheet cells, plus small
// conversion helpers that don't fit into domain-specific packages.
package utils
