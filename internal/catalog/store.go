package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store over a single SQLite file.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewStore opens (creating if needed) a SQLite-backed catalog.
// Pass ":memory:" for in-memory databases (testing).
func NewStore(cfg Config) (Store, error) {
	s, err := openStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return s, nil
}

func openStore(cfg Config) (*SQLiteStore, error) {
	if cfg.DBPath == "" {
		cfg.DBPath = ExpandPath(DefaultDBPath)
	}

	// Create parent directory for non-memory databases
	if cfg.DBPath != ":memory:" {
		dir := filepath.Dir(cfg.DBPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Pragmas are per-connection and Lookup depends on
	// case_sensitive_like, so the pool must never grow past the one
	// connection they were applied to. Single-user access anyway.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
		"PRAGMA case_sensitive_like=ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	s := &SQLiteStore{db: db, dbPath: cfg.DBPath}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Lookup builds one LIKE condition per supplied fragment and joins them
// with OR. A title plus a mismatched artist can therefore still return
// artist-only matches; that breadth is the contract, not an accident.
// Fragments are embedded verbatim between % wildcards, unescaped.
func (s *SQLiteStore) Lookup(ctx context.Context, title, artist string) ([]Track, error) {
	var conds []string
	var params []any
	if title != "" {
		conds = append(conds, "title LIKE ?")
		params = append(params, "%"+title+"%")
	}
	if artist != "" {
		conds = append(conds, "artist LIKE ?")
		params = append(params, "%"+artist+"%")
	}

	tracks := []Track{}
	if len(conds) == 0 {
		return tracks, nil
	}

	query := "SELECT title, artist, file_path, lyrics FROM tracks WHERE " + strings.Join(conds, " OR ")
	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying tracks: %w", ErrQueryFailed, err)
	}
	defer rows.Close()

	for rows.Next() {
		var t Track
		var lyrics sql.NullString
		if err := rows.Scan(&t.Title, &t.Artist, &t.FilePath, &lyrics); err != nil {
			return nil, fmt.Errorf("%w: scanning track: %w", ErrQueryFailed, err)
		}
		t.Lyrics = lyrics.String
		tracks = append(tracks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading tracks: %w", ErrQueryFailed, err)
	}
	return tracks, nil
}

// InsertTracks writes tracks in a single transaction.
func (s *SQLiteStore) InsertTracks(ctx context.Context, tracks []Track) (int, error) {
	if len(tracks) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: beginning insert: %w", ErrQueryFailed, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO tracks (title, artist, file_path, lyrics) VALUES (?, ?, ?, ?)")
	if err != nil {
		return 0, fmt.Errorf("%w: preparing insert: %w", ErrQueryFailed, err)
	}
	defer stmt.Close()

	inserted := 0
	for _, t := range tracks {
		lyrics := sql.NullString{String: t.Lyrics, Valid: t.Lyrics != ""}
		if _, err := stmt.ExecContext(ctx, t.Title, t.Artist, t.FilePath, lyrics); err != nil {
			return 0, fmt.Errorf("%w: inserting %q: %w", ErrQueryFailed, t.Title, err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: committing insert: %w", ErrQueryFailed, err)
	}
	return inserted, nil
}

// Count returns the number of tracks in the catalog.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tracks").Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: counting tracks: %w", ErrQueryFailed, err)
	}
	return n, nil
}

// Stats returns catalog-wide counts.
func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{}

	row := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(DISTINCT artist),
		       COUNT(CASE WHEN lyrics IS NOT NULL AND lyrics != '' THEN 1 END)
		FROM tracks`)
	if err := row.Scan(&st.TrackCount, &st.ArtistCount, &st.WithLyrics); err != nil {
		return nil, fmt.Errorf("%w: reading stats: %w", ErrQueryFailed, err)
	}

	var pageCount, pageSize int64
	if err := s.db.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pageCount); err == nil {
		if err := s.db.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize); err == nil {
			st.DBSizeBytes = pageCount * pageSize
		}
	}

	return st, nil
}

// ArtistCounts lists artists by descending track count. Not part of
// Store; browsing surfaces type-assert the concrete store for it.
func (s *SQLiteStore) ArtistCounts(ctx context.Context, limit int) ([]ArtistCount, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT artist, COUNT(*) FROM tracks GROUP BY artist ORDER BY COUNT(*) DESC, artist ASC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("%w: querying artists: %w", ErrQueryFailed, err)
	}
	defer rows.Close()

	counts := []ArtistCount{}
	for rows.Next() {
		var a ArtistCount
		if err := rows.Scan(&a.Artist, &a.TrackCount); err != nil {
			return nil, fmt.Errorf("%w: scanning artist: %w", ErrQueryFailed, err)
		}
		counts = append(counts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading artists: %w", ErrQueryFailed, err)
	}
	return counts, nil
}

// Path returns the backing database path.
func (s *SQLiteStore) Path() string {
	return s.dbPath
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ExpandPath expands a leading ~ to the home directory.
func ExpandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}
