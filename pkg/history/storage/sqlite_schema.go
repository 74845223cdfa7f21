package storage

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema creates the history tables. created_at holds Unix nanoseconds (UTC).
const Schema = `
CREATE TABLE IF NOT EXISTS resolutions (
    id TEXT PRIMARY KEY,
    request_id TEXT,
    track_id TEXT NOT NULL,
    codec TEXT,
    outcome TEXT NOT NULL,
    error TEXT,
    duration_ms INTEGER NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_resolutions_created_at ON resolutions(created_at);
CREATE INDEX IF NOT EXISTS idx_resolutions_track_id ON resolutions(track_id);
`

// InsertSchemaVersion records the schema version once.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion returns the newest applied schema version.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`

const (
	insertRecord = `
INSERT INTO resolutions (id, request_id, track_id, codec, outcome, error, duration_ms, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?);
`

	selectRecent = `
SELECT id, request_id, track_id, codec, outcome, error, duration_ms, created_at
FROM resolutions
ORDER BY created_at DESC, rowid DESC
LIMIT ?;
`

	deleteOlderThan = `DELETE FROM resolutions WHERE created_at < ?;`

	countRecords = `SELECT COUNT(*) FROM resolutions;`
)
