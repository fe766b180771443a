// Package server holds the HTTP server configuration.
//
// The Config struct defines the HTTP port, the API key, the read view cache
// TTL and whether run reports are published to object storage.
package server
