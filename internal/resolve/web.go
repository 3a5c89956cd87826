package resolve

import (
	"context"
	"fmt"

	"github.com/hurttlocker/cratedig/internal/catalog"
	"github.com/hurttlocker/cratedig/internal/llm"
	"github.com/hurttlocker/cratedig/internal/websearch"
)

// webExtractPrompt asks the model to pick one song out of raw search
// result text.
const webExtractPrompt = `Extract a relevant song title and artist from the search results below:
Format: "Title: [song name] | Artist: [artist name]"
Results: %s`

// WebResult is what a web resolution pass produced. Title and Artist
// replace whatever the catalog pass guessed, including replacing a
// guess with nothing when no search round ever matched.
type WebResult struct {
	Title  string
	Artist string
	Tracks []catalog.Track
}

// WebResolver retries resolution through web search when the catalog
// pass found nothing.
type WebResolver struct {
	LLM     llm.Provider
	Search  websearch.Provider
	Catalog catalog.Store
}

// buildQueries orders the search attempts from most to least specific.
// The raw input is queried only when the catalog pass produced neither
// a title nor an artist to pivot on.
func buildQueries(input, title, artist string) []string {
	var queries []string
	if title != "" {
		queries = append(queries, fmt.Sprintf("%s song by %s", title, artist))
	}
	if artist != "" {
		queries = append(queries, fmt.Sprintf("songs by %s", artist))
	}
	if title == "" && artist == "" {
		queries = append(queries, input)
	}
	return queries
}

// Resolve walks the prioritized queries. Each round searches the web,
// asks the model to extract a "Title: X | Artist: Y" pair from the
// results, and looks any matched pair up in the catalog. The first
// round whose lookup returns tracks wins. Rounds whose extraction
// never matches the combined pattern skip the catalog entirely.
// Search and model failures abort the whole pass mid-round.
func (w *WebResolver) Resolve(ctx context.Context, input, title, artist string) (WebResult, error) {
	res := WebResult{Tracks: []catalog.Track{}}

	for _, q := range buildQueries(input, title, artist) {
		searchResults, err := websearch.Run(ctx, w.Search, q)
		if err != nil {
			return WebResult{}, err
		}

		extraction, err := llm.Invoke(ctx, w.LLM, fmt.Sprintf(webExtractPrompt, searchResults), llm.CompletionOpts{Temperature: 0})
		if err != nil {
			return WebResult{}, err
		}

		t, a, ok := ParsePair(extraction)
		if !ok {
			continue
		}

		res.Title, res.Artist = t, a
		tracks, err := w.Catalog.Lookup(ctx, t, a)
		if err != nil {
			return WebResult{}, err
		}
		res.Tracks = tracks
		if len(tracks) > 0 {
			break
		}
	}

	return res, nil
}
