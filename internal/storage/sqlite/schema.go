// ABOUTME: SQLite database schema for the road node store
// ABOUTME: Nodes are indexed on their ground-plane coordinates for window queries
package sqlite

// Schema contains all SQL statements for database initialization
const Schema = `
-- Key/value metadata (network name, schema version)
CREATE TABLE IF NOT EXISTS meta (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

-- Road nodes
CREATE TABLE IF NOT EXISTS nodes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    x REAL NOT NULL,
    y REAL NOT NULL,
    z REAL NOT NULL DEFAULT 0,
    heading REAL NOT NULL,
    lanes_same INTEGER NOT NULL DEFAULT 0,
    lanes_opposite INTEGER NOT NULL DEFAULT 0,
    density INTEGER NOT NULL DEFAULT 0,
    flags INTEGER NOT NULL DEFAULT 0,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (x, y, z)
);

CREATE INDEX IF NOT EXISTS idx_nodes_xy ON nodes(x, y);
CREATE INDEX IF NOT EXISTS idx_nodes_flags ON nodes(flags);
`

// SchemaVersion is the current schema version for migrations
const SchemaVersion = 1
