package catalog

import (
	"database/sql"
	"fmt"
	"time"
)

// migrate creates the schema if needed and applies evolutions.
func (s *SQLiteStore) migrate() error {
	bootstrapDone, err := s.isMetaFlagEnabled("schema_bootstrap_complete")
	if err != nil {
		return fmt.Errorf("checking bootstrap state: %w", err)
	}

	if !bootstrapDone {
		if err := s.runBootstrapDDL(); err != nil {
			return err
		}
	}

	// Seed metadata (outside the bootstrap transaction; meta exists now)
	if err := s.seedMeta(); err != nil {
		return fmt.Errorf("seeding metadata: %w", err)
	}

	if !bootstrapDone {
		if err := s.setMetaFlag("schema_bootstrap_complete"); err != nil {
			return fmt.Errorf("marking bootstrap complete: %w", err)
		}
	}

	// Schema evolution: artist index for stats grouping. Databases
	// created before the index existed pick it up here.
	if err := s.migrateArtistIndex(); err != nil {
		return fmt.Errorf("migrating artist index: %w", err)
	}

	return nil
}

func (s *SQLiteStore) runBootstrapDDL() error {
	statements := []string{
		// The track catalog. No surrogate key: workflow identity is
		// positional and rowid gives storage order.
		`CREATE TABLE IF NOT EXISTS tracks (
			title     TEXT NOT NULL,
			artist    TEXT NOT NULL,
			file_path TEXT NOT NULL,
			lyrics    TEXT
		)`,

		// idx_tracks_artist is also created by migrateArtistIndex() for
		// databases that predate it; here for fresh ones.
		`CREATE INDEX IF NOT EXISTS idx_tracks_artist ON tracks(artist)`,

		// Metadata table
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT
		)`,
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning migration transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("executing migration %q: %w", truncate(stmt, 80), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing migration: %w", err)
	}

	return nil
}

func (s *SQLiteStore) migrateArtistIndex() error {
	done, err := s.isMetaFlagEnabled("artist_index_v1")
	if err != nil {
		return err
	}
	if done {
		return nil
	}

	if _, err := s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_tracks_artist ON tracks(artist)`); err != nil {
		return fmt.Errorf("creating artist index: %w", err)
	}

	if err := s.setMetaFlag("artist_index_v1"); err != nil {
		return fmt.Errorf("setting artist_index_v1 flag: %w", err)
	}
	return nil
}

func (s *SQLiteStore) isMetaFlagEnabled(key string) (bool, error) {
	var exists int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='meta'`).Scan(&exists); err != nil {
		return false, err
	}
	if exists == 0 {
		return false, nil
	}

	var value string
	err := s.db.QueryRow("SELECT value FROM meta WHERE key = ?", key).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return value == "true", nil
}

func (s *SQLiteStore) setMetaFlag(key string) error {
	_, err := s.db.Exec("INSERT OR REPLACE INTO meta (key, value) VALUES (?, 'true')", key)
	return err
}

// seedMeta initializes the meta table with defaults if not already set.
func (s *SQLiteStore) seedMeta() error {
	defaults := map[string]string{
		"schema_version": "1",
		"created_at":     time.Now().UTC().Format(time.RFC3339),
	}

	for k, v := range defaults {
		_, err := s.db.Exec(
			"INSERT OR IGNORE INTO meta (key, value) VALUES (?, ?)", k, v,
		)
		if err != nil {
			return fmt.Errorf("seeding meta key %q: %w", k, err)
		}
	}
	return nil
}

// truncate shortens a string for error messages.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
