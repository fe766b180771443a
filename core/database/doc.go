// Package database handles database connections and schema inspection.
//
// It wraps GORM and selects the MySQL, PostgreSQL or SQLite driver from the
// configuration. The structural model store lives in one of these databases.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns let the model store refuse to open a
// session when the expected tables or columns are absent.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	missing, err := database.MissingColumns(db, map[string][]string{"frames": {"name", "length"}})
package database
