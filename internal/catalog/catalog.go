// Package catalog provides the SQLite-backed track catalog.
//
// The catalog is a single tracks table (title, artist, file_path,
// lyrics). The routing workflow only reads it; the import command is
// the one writer. Matching is substring LIKE, case-sensitive, OR'd
// across the supplied fields.
package catalog

import (
	"context"
	"errors"
)

// DefaultDBPath is the default catalog location.
const DefaultDBPath = "~/.cratedig/library.db"

// Track is one catalog entry. Lyrics == "" means the catalog holds no
// lyrics for the row; SQL NULL collapses to "" at scan time.
type Track struct {
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	FilePath string `json:"file_path"`
	Lyrics   string `json:"lyrics,omitempty"`
}

// Stats holds observability counts about the catalog.
type Stats struct {
	TrackCount  int64 `json:"track_count"`
	ArtistCount int64 `json:"artist_count"`
	WithLyrics  int64 `json:"with_lyrics"`
	DBSizeBytes int64 `json:"db_size_bytes"`
}

// ArtistCount pairs an artist with how many catalog tracks they have.
type ArtistCount struct {
	Artist     string `json:"artist"`
	TrackCount int64  `json:"track_count"`
}

// Config holds configuration for NewStore.
type Config struct {
	DBPath string
}

var (
	// ErrUnavailable means the catalog storage could not be opened.
	ErrUnavailable = errors.New("catalog unavailable")
	// ErrQueryFailed means a catalog query could not be executed.
	ErrQueryFailed = errors.New("catalog query failed")
)

// Store defines the catalog storage interface.
type Store interface {
	// Lookup returns every track whose title contains the title fragment
	// or whose artist contains the artist fragment. Empty fragments are
	// skipped; with both empty no query is issued and the result is
	// empty. Rows come back in storage order.
	Lookup(ctx context.Context, title, artist string) ([]Track, error)

	// InsertTracks appends tracks in one transaction and reports how
	// many rows were written. Empty lyrics are stored as NULL.
	InsertTracks(ctx context.Context, tracks []Track) (int, error)

	Count(ctx context.Context) (int64, error)
	Stats(ctx context.Context) (*Stats, error)

	// Path returns the backing database path (":memory:" for tests).
	Path() string
	Close() error
}
