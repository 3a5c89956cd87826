package resolve

import (
	"context"
	"fmt"

	"github.com/hurttlocker/cratedig/internal/catalog"
	"github.com/hurttlocker/cratedig/internal/llm"
)

// extractPrompt pulls a structured pair out of the conversational
// answer. The answer is embedded in single quotes, as-is.
const extractPrompt = `Extract the song title and artist from the following response.
Return in format: "Title: [song name] | Artist: [artist name]".
Response: '%s'`

// Result is what a catalog resolution pass produced.
type Result struct {
	Title  string
	Artist string
	Tracks []catalog.Track
}

// Resolver resolves a conversational request against the catalog.
type Resolver struct {
	LLM     llm.Provider
	Catalog catalog.Store
}

// Resolve runs the two-call resolution: the raw input goes to the
// model conversationally, then a second call extracts "Title | Artist"
// from that answer. Whatever parses, even partially or not at all,
// goes straight to a catalog lookup. Model and catalog failures
// propagate; parse failures do not.
func (r *Resolver) Resolve(ctx context.Context, input string) (Result, error) {
	answer, err := llm.Invoke(ctx, r.LLM, input, llm.CompletionOpts{})
	if err != nil {
		return Result{}, err
	}

	extraction, err := llm.Invoke(ctx, r.LLM, fmt.Sprintf(extractPrompt, answer), llm.CompletionOpts{Temperature: 0})
	if err != nil {
		return Result{}, err
	}

	title, artist := ParseTitleArtist(extraction)

	tracks, err := r.Catalog.Lookup(ctx, title, artist)
	if err != nil {
		return Result{}, err
	}

	return Result{Title: title, Artist: artist, Tracks: tracks}, nil
}
