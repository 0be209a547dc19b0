// Package database opens the application's SQLite database and applies
// its embedded schema migrations.
//
// The connection pool is capped at a single open connection: SQLite
// supports one writer, and correctness never relies on the cap — every
// reservation state change is a conditional update keyed on the expected
// prior state, so a second writer would simply lose the race.
//
// Migration files live in migrations/ at the repository root, named
// YYYYMMDD_HHMMSS_description.up.sql with a matching .down.sql, and are
// embedded into the binary.
//
//	db, err := database.Open(ctx, database.Config{Path: "data/app.db"})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
package database
