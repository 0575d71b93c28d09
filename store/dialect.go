package store

// Dialect carries the driver- and syntax-specific pieces of the store:
// the database/sql driver name, per-connection setup, the idempotent
// schema, and the item queries in the dialect's placeholder style.
type Dialect struct {
	// Driver is the database/sql driver name.
	Driver string

	// Setup statements run once when the pool is opened.
	Setup []string

	// Schema statements create the tables. Every statement is
	// idempotent so the sequence can run on every start.
	Schema []string

	insertItem string
	deleteItem string
	listItems  string
}

// SQLite stores items in a single-file database. It suits tests and
// single-node deployments; the WAL journal keeps readers from blocking
// the writer.
var SQLite = Dialect{
	Driver: "sqlite",
	Setup: []string{
		`PRAGMA journal_mode=WAL;`,
		`PRAGMA foreign_keys=ON;`,
	},
	Schema: []string{
		`CREATE TABLE IF NOT EXISTS items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			text TEXT NOT NULL,
			completed INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL
		);`,
	},
	insertItem: `INSERT INTO items (text, completed, created_at) VALUES (?, ?, ?) RETURNING id, text, completed, created_at`,
	deleteItem: `DELETE FROM items WHERE id = ? RETURNING id, text, completed, created_at`,
	listItems:  `SELECT id, text, completed, created_at FROM items ORDER BY id ASC`,
}

// Postgres targets a shared server database via lib/pq.
var Postgres = Dialect{
	Driver: "postgres",
	Schema: []string{
		`CREATE TABLE IF NOT EXISTS items (
			id BIGSERIAL PRIMARY KEY,
			text TEXT NOT NULL,
			completed BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL
		);`,
	},
	insertItem: `INSERT INTO items (text, completed, created_at) VALUES ($1, $2, $3) RETURNING id, text, completed, created_at`,
	deleteItem: `DELETE FROM items WHERE id = $1 RETURNING id, text, completed, created_at`,
	listItems:  `SELECT id, text, completed, created_at FROM items ORDER BY id ASC`,
}
