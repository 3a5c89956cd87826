// Package ingest loads track metadata into the catalog.
//
// Each supported format (CSV/TSV, JSON) has its own importer that
// implements the Importer interface. The engine picks an importer by
// file extension, parses the file into tracks, and writes them to the
// catalog in one transaction. Entries that cannot become tracks are
// skipped with a recorded reason, not fatal.
package ingest

import (
	"context"

	"github.com/hurttlocker/cratedig/internal/catalog"
)

// Importer handles a specific file format.
type Importer interface {
	// CanHandle returns true if this importer supports the given path.
	CanHandle(path string) bool

	// Parse reads the file into tracks, reporting skipped entries.
	Parse(ctx context.Context, path string) ([]catalog.Track, []SkipReason, error)
}

// Result summarizes one import operation.
type Result struct {
	Path     string       `json:"path"`
	Parsed   int          `json:"parsed"`
	Inserted int          `json:"inserted"`
	Skipped  []SkipReason `json:"skipped,omitempty"`
	DryRun   bool         `json:"dry_run,omitempty"`
}

// SkipReason records a non-fatal problem with one source entry.
type SkipReason struct {
	Pos    int    `json:"pos"` // 1-indexed row or array position
	Reason string `json:"reason"`
}

// Options configures an import operation.
type Options struct {
	DryRun      bool
	MaxFileSize int64 // bytes, default 10MB
}

// DefaultMaxFileSize is 10MB.
const DefaultMaxFileSize = 10 * 1024 * 1024
