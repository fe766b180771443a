// Package config provides configuration management for the frame load service.
//
// It loads a .env file with godotenv and then reads environment variables
// through Viper. Defaults come from `default` struct tags on each section.
//
// # Configuration Structure
//
//   - Server: HTTP port, API key, view cache TTL, report publishing
//   - Storage: S3/MinIO credentials and bucket
//   - Log: logging level and format
//   - Database: structural model database driver and connection
//   - Sheet: default workbook path, sheet name and header position
//   - Sync: replace, auto-remove, dry-run, duplicate policy and normalization rules
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	opts, err := cfg.Sync.Options()
package config
