// Package store handles SQLite persistence for users, notes and the
// social graph, and executes compiled note queries.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// schemaVersion is bumped on incompatible schema changes.
const schemaVersion = 1

var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrNoteNotFound indicates the requested note does not exist.
	ErrNoteNotFound = errors.New("note not found")
	// ErrSchemaVersion indicates the database was created by an
	// incompatible version of magpie.
	ErrSchemaVersion = errors.New("database schema version mismatch")
)

// Database is the SQLite database handle.
type Database struct {
	db *sql.DB
}

// DB returns the underlying sql.DB for advanced queries.
func (d *Database) DB() *sql.DB {
	return d.db
}

// Open opens or creates the database under dataDir.
func Open(dataDir string) (*Database, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "magpie.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	d := &Database{db: db}
	if err := d.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the database.
func (d *Database) Close() error {
	return d.db.Close()
}

func (d *Database) initialize() error {
	if _, err := d.db.Exec(`PRAGMA journal_mode = WAL`); err != nil {
		return fmt.Errorf("failed to enable WAL: %w", err)
	}
	if _, err := d.db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	var version int
	if err := d.db.QueryRow(`PRAGMA user_version`).Scan(&version); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if version != 0 && version != schemaVersion {
		return fmt.Errorf("%w: have %d, want %d", ErrSchemaVersion, version, schemaVersion)
	}

	if _, err := d.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if _, err := d.db.Exec(fmt.Sprintf(`PRAGMA user_version = %d`, schemaVersion)); err != nil {
		return fmt.Errorf("failed to set schema version: %w", err)
	}
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id             TEXT PRIMARY KEY,
	username       TEXT NOT NULL,
	username_lower TEXT NOT NULL UNIQUE,
	display_name   TEXT NOT NULL DEFAULT '',
	host           TEXT NOT NULL DEFAULT '',
	can_search     INTEGER NOT NULL DEFAULT 1,
	created_at     INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS notes (
	id             TEXT PRIMARY KEY,
	user_id        TEXT NOT NULL REFERENCES users(id),
	text           TEXT NOT NULL,
	visibility     TEXT NOT NULL CHECK (visibility IN ('public', 'home', 'followers', 'specified')),
	score          INTEGER NOT NULL DEFAULT 0 CHECK (score >= 0),
	channel_id     TEXT,
	reply_id       TEXT,
	reply_user_id  TEXT,
	renote_id      TEXT,
	renote_user_id TEXT,
	created_at     INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_notes_user ON notes(user_id);
CREATE INDEX IF NOT EXISTS idx_notes_created ON notes(created_at);
CREATE INDEX IF NOT EXISTS idx_notes_channel ON notes(channel_id);

CREATE TABLE IF NOT EXISTS note_mentions (
	note_id TEXT NOT NULL REFERENCES notes(id) ON DELETE CASCADE,
	user_id TEXT NOT NULL REFERENCES users(id),
	PRIMARY KEY (note_id, user_id)
);

CREATE INDEX IF NOT EXISTS idx_mentions_user ON note_mentions(user_id);

CREATE TABLE IF NOT EXISTS followings (
	follower_id TEXT NOT NULL REFERENCES users(id),
	followee_id TEXT NOT NULL REFERENCES users(id),
	PRIMARY KEY (follower_id, followee_id)
);

CREATE INDEX IF NOT EXISTS idx_followings_followee ON followings(followee_id);

CREATE TABLE IF NOT EXISTS mutings (
	muter_id TEXT NOT NULL REFERENCES users(id),
	mutee_id TEXT NOT NULL REFERENCES users(id),
	PRIMARY KEY (muter_id, mutee_id)
);

CREATE TABLE IF NOT EXISTS blockings (
	blocker_id TEXT NOT NULL REFERENCES users(id),
	blockee_id TEXT NOT NULL REFERENCES users(id),
	PRIMARY KEY (blocker_id, blockee_id)
);
`
