package oracle

import (
	"database/sql"
	"log"

	_ "github.com/mattn/go-sqlite3"
)

// DefaultTables is created on startup if absent. The UNIQUE constraint is
// the store identity: one row per (owner, type, class).
var DefaultTables = map[string]string{
	"RRsetStore": `CREATE TABLE IF NOT EXISTS 'RRsetStore' (
id INTEGER PRIMARY KEY,
owner TEXT NOT NULL,
rrtype INTEGER NOT NULL,
class INTEGER NOT NULL,
name TEXT NOT NULL,
inception INTEGER NOT NULL,
expiration INTEGER NOT NULL,
inserted INTEGER NOT NULL,
wire BLOB NOT NULL,
UNIQUE (owner, rrtype, class)
)`,
}

func dbSetupTables(db *sql.DB) bool {
	if Globals.Debug {
		log.Printf("Setting up missing tables\n")
	}

	for t, s := range DefaultTables {
		stmt, err := db.Prepare(s)
		if err != nil {
			log.Printf("dbSetupTables: Error from %s schema \"%s\": %v\n", t, s, err)
			return false
		}
		_, err = stmt.Exec()
		if err != nil {
			log.Fatalf("Failed to set up db schema: %s. Error: %v", s, err)
		}
	}

	return true
}

// NewDB opens (and if needed creates) the sqlite store file.
func NewDB(dbfile string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dbfile)
	if err != nil {
		log.Printf("NewDB: Error from sql.Open: %v", err)
		return nil, err
	}
	if !dbSetupTables(db) {
		log.Fatalf("NewDB: Failed to set up database tables in %s", dbfile)
	}
	return db, nil
}
