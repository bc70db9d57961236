package store

const schema = `
CREATE TABLE IF NOT EXISTS datasets (
    id TEXT PRIMARY KEY,
    source TEXT NOT NULL UNIQUE,
    fingerprint TEXT,
    loaded_at TIMESTAMP NOT NULL,
    record_count INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS transactions (
    dataset_id TEXT NOT NULL,
    seq INTEGER NOT NULL,
    retailer TEXT NOT NULL,
    parent_brand TEXT NOT NULL,
    household_id TEXT NOT NULL,
    item_units INTEGER NOT NULL,
    item_dollars TEXT NOT NULL,
    date TEXT NOT NULL,
    PRIMARY KEY (dataset_id, seq),
    FOREIGN KEY (dataset_id) REFERENCES datasets(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_datasets_source ON datasets(source);
CREATE INDEX IF NOT EXISTS idx_transactions_dataset ON transactions(dataset_id);
`
