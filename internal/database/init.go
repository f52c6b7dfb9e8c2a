// Package database opens the sqlite database and initializes tables.
package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// InitDB opens (creating if needed) the sqlite database at path and
// ensures the schema exists.
func InitDB(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to make directories for %q: %w", path, err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database at path %q: %w", path, err)
	}

	if err := initTables(db); err != nil {
		return nil, fmt.Errorf("failed to initialize tables: %w", err)
	}
	return db, nil
}

// initTables initializes the SQL tables.
func initTables(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
			}
		}
	}()

	const channelsSchema = `
CREATE TABLE IF NOT EXISTS channels (
	id TEXT NOT NULL,
	source TEXT NOT NULL,
	channel_name TEXT NOT NULL DEFAULT '',
	monitoring BOOLEAN NOT NULL DEFAULT 0,
	use_cookies_file BOOLEAN NOT NULL DEFAULT 0,
	skip_not_live_stream BOOLEAN NOT NULL DEFAULT 0,
	auto_update_info BOOLEAN NOT NULL DEFAULT 1,
	latest_video_id TEXT NOT NULL DEFAULT '',
	avatar TEXT NOT NULL DEFAULT '',
	banner TEXT NOT NULL DEFAULT '',
	note TEXT NOT NULL DEFAULT '',
	notify_urls TEXT NOT NULL DEFAULT '[]',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (id, source)
)`

	const videosSchema = `
CREATE TABLE IF NOT EXISTS videos (
	id TEXT NOT NULL,
	source TEXT NOT NULL,
	channel_id TEXT NOT NULL,
	status INTEGER NOT NULL DEFAULT 0,
	source_status INTEGER NOT NULL DEFAULT 0,
	is_live_stream BOOLEAN NOT NULL DEFAULT 0,
	title TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	note TEXT NOT NULL DEFAULT '',
	thumbnail TEXT NOT NULL DEFAULT '',
	filename TEXT NOT NULL DEFAULT '',
	size INTEGER NOT NULL DEFAULT 0,
	published_at TIMESTAMP,
	scheduled_start_time TIMESTAMP,
	actual_start_time TIMESTAMP,
	archived_time TIMESTAMP,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (id, source)
)`

	const videoStatusIdx = `
CREATE INDEX IF NOT EXISTS idx_videos_status ON videos (status)`

	for _, schema := range []string{channelsSchema, videosSchema, videoStatusIdx} {
		if _, err = tx.Exec(schema); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}

	return tx.Commit()
}
