package server

import (
	"fmt"
	"strconv"
)

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// ViewTTLSeconds is how long read views are cached between writes.
	ViewTTLSeconds int `mapstructure:"view_ttl_seconds" default:"60"`
	// PublishReports uploads each run output to the storage bucket.
	PublishReports bool `mapstructure:"publish_reports" default:"true"`
	// KeepReports is the number of published reports retained. Zero keeps all.
	KeepReports int `mapstructure:"keep_reports" default:"50"`
}

// Validate checks that the port is a usable TCP port.
func (c Config) Validate() error {
	p, err := strconv.Atoi(c.Port)
	if err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("invalid server port %q", c.Port)
	}
	if c.ViewTTLSeconds < 0 {
		return fmt.Errorf("invalid view ttl %d", c.ViewTTLSeconds)
	}
	if c.KeepReports < 0 {
		return fmt.Errorf("invalid report retention %d", c.KeepReports)
	}
	return nil
}
