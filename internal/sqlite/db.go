package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// RunMigrations creates the ledger schema if it does not exist
func (db *DB) RunMigrations() error {
	migration := `
-- Ledger meta: single row holding the allocation counter and the fee.
-- next_project_id is the sole arbiter of project existence.
CREATE TABLE IF NOT EXISTS ledger_meta (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    next_project_id INTEGER NOT NULL,
    platform_fee_pct INTEGER NOT NULL CHECK (platform_fee_pct BETWEEN 0 AND 10)
);
INSERT OR IGNORE INTO ledger_meta (id, next_project_id, platform_fee_pct) VALUES (1, 1, 5);

-- Projects table. Rows are never deleted; terminal projects stay queryable.
CREATE TABLE IF NOT EXISTS projects (
    id INTEGER PRIMARY KEY,
    client TEXT NOT NULL,
    freelancer TEXT NOT NULL DEFAULT '',
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    budget INTEGER NOT NULL CHECK (budget > 0),
    deadline TIMESTAMP NOT NULL,
    status TEXT NOT NULL CHECK(status IN ('OPEN', 'ASSIGNED', 'SUBMITTED', 'COMPLETED', 'CANCELLED', 'DISPUTED')),
    funds_deposited INTEGER NOT NULL DEFAULT 1,
    escrow_receipt TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_projects_client ON projects(client);
CREATE INDEX IF NOT EXISTS idx_projects_freelancer ON projects(freelancer);
CREATE INDEX IF NOT EXISTS idx_projects_status ON projects(status);

-- Bids: insertion-ordered, append-only, one bid per freelancer per project.
CREATE TABLE IF NOT EXISTS bids (
    project_id INTEGER NOT NULL,
    bidder TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (project_id, bidder),
    FOREIGN KEY (project_id) REFERENCES projects(id)
);
CREATE INDEX IF NOT EXISTS idx_bids_project ON bids(project_id);

-- Reverse indexes: append-only project id sequences per actor.
CREATE TABLE IF NOT EXISTS client_projects (
    client TEXT NOT NULL,
    project_id INTEGER NOT NULL,
    PRIMARY KEY (client, project_id),
    FOREIGN KEY (project_id) REFERENCES projects(id)
);

CREATE TABLE IF NOT EXISTS freelancer_projects (
    freelancer TEXT NOT NULL,
    project_id INTEGER NOT NULL,
    PRIMARY KEY (freelancer, project_id),
    FOREIGN KEY (project_id) REFERENCES projects(id)
);

-- Event log (append-only)
CREATE TABLE IF NOT EXISTS events (
    id TEXT PRIMARY KEY,
    project_id INTEGER NOT NULL,
    type TEXT NOT NULL,
    actor TEXT NOT NULL,
    amount INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_events_project ON events(project_id);
CREATE INDEX IF NOT EXISTS idx_events_created_at ON events(created_at);

-- Custody accounts and transfer journal
CREATE TABLE IF NOT EXISTS custody_accounts (
    account TEXT PRIMARY KEY,
    balance INTEGER NOT NULL CHECK (balance >= 0)
);
INSERT OR IGNORE INTO custody_accounts (account, balance) VALUES ('__escrow__', 0);

CREATE TABLE IF NOT EXISTS custody_transfers (
    id TEXT PRIMARY KEY,
    kind TEXT NOT NULL CHECK(kind IN ('credit', 'deposit', 'payout', 'refund')),
    account TEXT NOT NULL,
    amount INTEGER NOT NULL CHECK (amount > 0),
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_transfers_account ON custody_transfers(account);
`

	_, err := db.Exec(migration)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
