// Package database handles database connections and schema inspection.
//
// It wraps GORM to open the match database from the application's configuration.
// Two drivers are supported: MySQL for shared deployments and sqlite for
// single-user installs (and in-memory databases in tests).
//
// # Connect
//
// Connect configures pool limits per driver, enables GORM error translation so
// unique index violations surface as gorm.ErrDuplicatedKey, and pings the
// database before returning.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns read the live table definition. The
// integrity feature uses them to verify the match table against its model.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	missing, err := database.MissingColumns(db, "game_matches", []string{"a_provider_id"})
package database
