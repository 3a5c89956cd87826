package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hurttlocker/cratedig/internal/catalog"
)

// JSONImporter handles .json files: either an array of track objects
// or a single track object. Keys are title, artist, file_path, lyrics;
// extra keys are ignored.
type JSONImporter struct{}

type jsonTrack struct {
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	FilePath string `json:"file_path"`
	Lyrics   string `json:"lyrics"`
}

func (j *JSONImporter) CanHandle(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".json"
}

func (j *JSONImporter) Parse(ctx context.Context, path string) ([]catalog.Track, []SkipReason, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil, nil, nil
	}

	var entries []jsonTrack
	if err := json.Unmarshal(data, &entries); err != nil {
		// Not an array; a single object is also accepted.
		var one jsonTrack
		if err2 := json.Unmarshal(data, &one); err2 != nil {
			return nil, nil, fmt.Errorf("invalid JSON in %s: %w", path, err)
		}
		entries = []jsonTrack{one}
	}

	var tracks []catalog.Track
	var skipped []SkipReason

	for i, e := range entries {
		pos := i + 1

		t := catalog.Track{
			Title:    strings.TrimSpace(e.Title),
			Artist:   strings.TrimSpace(e.Artist),
			FilePath: strings.TrimSpace(e.FilePath),
			Lyrics:   e.Lyrics,
		}
		if t.Title == "" && t.Artist == "" {
			skipped = append(skipped, SkipReason{Pos: pos, Reason: "no title or artist"})
			continue
		}
		tracks = append(tracks, t)
	}

	return tracks, skipped, nil
}
