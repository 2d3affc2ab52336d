package history

const schema = `
CREATE TABLE IF NOT EXISTS changes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    environment TEXT NOT NULL,
    kind TEXT NOT NULL,
    exposed_name TEXT,
    package_name TEXT,
    package_version TEXT,
    applied_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_changes_environment ON changes(environment);
CREATE INDEX IF NOT EXISTS idx_changes_applied_at ON changes(applied_at);
`
