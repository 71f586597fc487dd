// Package database opens the relational backend of the feature store.
//
// It provides a wrapper around GORM to configure either a private in-memory
// SQLite database (the default, one per store) or a MySQL scratch schema for
// inputs that should not live in process memory.
//
// # Connect
//
// Connect selects the driver from Config.Driver. In-memory SQLite databases are
// named with a random UUID and opened in shared-cache mode so several pooled
// connections see the same data.
//
// # Schema Checks
//
// RequireColumns verifies that a table exposes the columns a caller relies on,
// which guards against reusing a MySQL schema created by an incompatible version.
//
// # Usage
//
//	db, err := database.Connect(cfg.Store)
//	if err != nil {
//	    return err
//	}
//	defer database.Close(db)
package database
