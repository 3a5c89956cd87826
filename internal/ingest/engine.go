package ingest

import (
	"context"
	"fmt"
	"os"

	"github.com/hurttlocker/cratedig/internal/catalog"
)

// Engine dispatches files to format importers and writes the catalog.
type Engine struct {
	store     catalog.Store
	importers []Importer
}

func NewEngine(store catalog.Store) *Engine {
	return &Engine{
		store:     store,
		importers: []Importer{&CSVImporter{}, &JSONImporter{}},
	}
}

// ImportFile parses one file and appends its tracks to the catalog.
// With DryRun the file is parsed and validated but nothing is written.
func (e *Engine) ImportFile(ctx context.Context, path string, opts Options) (*Result, error) {
	if opts.MaxFileSize == 0 {
		opts.MaxFileSize = DefaultMaxFileSize
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > opts.MaxFileSize {
		return nil, fmt.Errorf("%s is %d bytes, over the %d byte limit", path, info.Size(), opts.MaxFileSize)
	}

	imp := e.importerFor(path)
	if imp == nil {
		return nil, fmt.Errorf("unsupported file type: %s (supported: .csv, .tsv, .json)", path)
	}

	tracks, skipped, err := imp.Parse(ctx, path)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Path:    path,
		Parsed:  len(tracks),
		Skipped: skipped,
		DryRun:  opts.DryRun,
	}

	if opts.DryRun || len(tracks) == 0 {
		return res, nil
	}

	inserted, err := e.store.InsertTracks(ctx, tracks)
	if err != nil {
		return res, err
	}
	res.Inserted = inserted

	return res, nil
}

func (e *Engine) importerFor(path string) Importer {
	for _, imp := range e.importers {
		if imp.CanHandle(path) {
			return imp
		}
	}
	return nil
}
