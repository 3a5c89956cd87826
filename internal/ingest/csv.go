package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hurttlocker/cratedig/internal/catalog"
)

// CSVImporter handles .csv and .tsv files.
//
// The first row must be a header naming the columns; recognized names
// are title, artist, file_path (or path) and lyrics, in any order.
// Unrecognized columns are ignored. A row needs at least a title or an
// artist to become a track.
type CSVImporter struct{}

func (c *CSVImporter) CanHandle(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".csv" || ext == ".tsv"
}

func (c *CSVImporter) Parse(ctx context.Context, path string) ([]catalog.Track, []SkipReason, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	if strings.ToLower(filepath.Ext(path)) == ".tsv" {
		reader.Comma = '\t'
	}
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1 // ragged rows are handled per-row below

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil, nil
	}

	cols := map[string]int{}
	for i, h := range records[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := cols["title"]; !ok {
		if _, ok := cols["artist"]; !ok {
			return nil, nil, fmt.Errorf("%s: header row has neither a title nor an artist column", path)
		}
	}

	cell := func(row []string, names ...string) string {
		for _, name := range names {
			if i, ok := cols[name]; ok && i < len(row) {
				return strings.TrimSpace(row[i])
			}
		}
		return ""
	}

	var tracks []catalog.Track
	var skipped []SkipReason

	for i, row := range records[1:] {
		pos := i + 2 // 1-indexed, header is row 1

		t := catalog.Track{
			Title:    cell(row, "title"),
			Artist:   cell(row, "artist"),
			FilePath: cell(row, "file_path", "path"),
			Lyrics:   cell(row, "lyrics"),
		}
		if t.Title == "" && t.Artist == "" {
			skipped = append(skipped, SkipReason{Pos: pos, Reason: "no title or artist"})
			continue
		}
		tracks = append(tracks, t)
	}

	return tracks, skipped, nil
}
