// Package websearch provides the external web search service used by
// the trivia responder and the web fallback resolver. One free-text
// query in, one block of result text out; the text is only ever
// embedded into a model prompt, never parsed structurally.
package websearch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrSearch marks any failed search call. Callers distinguish search
// failures from model or catalog failures with errors.Is.
var ErrSearch = errors.New("web search failed")

// Provider is the interface for web searches.
type Provider interface {
	// Search runs one query and returns result text for prompt embedding.
	Search(ctx context.Context, query string) (string, error)
	// Name returns a human-readable provider name (e.g., "serpapi").
	Name() string
}

// Config holds search provider configuration.
type Config struct {
	Provider string // "serpapi", "duckduckgo" (empty = auto-select)
	APIKey   string // serpapi key (empty = read from env)
	BaseURL  string // Optional URL override
}

// NewProvider creates a search provider. An explicit Provider wins;
// otherwise serpapi is used when a key is available, falling back to
// the keyless duckduckgo scraper.
func NewProvider(cfg Config) (Provider, error) {
	name := strings.ToLower(cfg.Provider)
	if name == "" {
		if cfg.APIKey != "" || os.Getenv("SERPAPI_API_KEY") != "" {
			name = "serpapi"
		} else {
			name = "duckduckgo"
		}
	}

	switch name {
	case "serpapi":
		key := cfg.APIKey
		if key == "" {
			key = os.Getenv("SERPAPI_API_KEY")
		}
		if key == "" {
			return nil, fmt.Errorf("serpapi provider requires SERPAPI_API_KEY env var")
		}
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "https://serpapi.com"
		}
		return newSerpAPIProvider(key, baseURL), nil

	case "duckduckgo":
		return newDuckDuckGoProvider(cfg.BaseURL), nil

	default:
		return nil, fmt.Errorf("unknown search provider: %q (supported: serpapi, duckduckgo)", cfg.Provider)
	}
}

// Run is the single call path the workflow nodes use. It delegates to
// the provider and tags failures with ErrSearch, keeping the cause
// chain intact. An empty result set is not a failure; providers return
// a "no results" line instead.
func Run(ctx context.Context, p Provider, query string) (string, error) {
	results, err := p.Search(ctx, query)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSearch, err)
	}
	return results, nil
}
