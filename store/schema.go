package store

// schemaSQL is the DDL for all tables. Designs and analyses are stored
// as immutable JSON payloads keyed by their ids; summary columns are
// denormalized for cheap history listings.
const schemaSQL = `
-- Synthesized bridge designs, immutable once saved
CREATE TABLE IF NOT EXISTS designs (
    id TEXT PRIMARY KEY,
    bridge_type TEXT NOT NULL,
    total_span_m REAL NOT NULL,
    bridge_width_m REAL NOT NULL,
    payload JSON NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Requirement analysis results, keyed by generated id
CREATE TABLE IF NOT EXISTS analyses (
    id TEXT PRIMARY KEY,
    fingerprint TEXT NOT NULL,
    provider TEXT NOT NULL,
    failed INTEGER NOT NULL DEFAULT 0,
    payload JSON NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Indexes
CREATE INDEX IF NOT EXISTS idx_designs_created ON designs(created_at);
CREATE INDEX IF NOT EXISTS idx_designs_type ON designs(bridge_type);
CREATE INDEX IF NOT EXISTS idx_analyses_fingerprint ON analyses(fingerprint);
`
