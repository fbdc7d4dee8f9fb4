package database

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    version TEXT NOT NULL,
    schema_version TEXT NOT NULL DEFAULT '',
    image_count INTEGER NOT NULL DEFAULT 0,
    created_at DATETIME NOT NULL,
    payload BLOB NOT NULL,
    UNIQUE (name, version)
);

CREATE INDEX IF NOT EXISTS idx_snapshots_name ON snapshots (name, created_at);
`
