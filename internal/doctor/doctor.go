// Package doctor checks an installation end to end: config file,
// catalog reachability, model credentials, and search provider setup.
// It answers "why is cratedig not working?" before any query runs.
package doctor

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/hurttlocker/cratedig/internal/catalog"
	"github.com/hurttlocker/cratedig/internal/config"
	"github.com/hurttlocker/cratedig/internal/llm"
)

type CheckStatus string

const (
	StatusOK   CheckStatus = "ok"
	StatusWarn CheckStatus = "warn"
	StatusFail CheckStatus = "fail"
)

// Check is one named probe with its outcome.
type Check struct {
	Name   string      `json:"name"`
	Status CheckStatus `json:"status"`
	Detail string      `json:"detail,omitempty"`
}

// Report is the full doctor run. Healthy means no check failed;
// warnings don't count against it.
type Report struct {
	GeneratedAt string  `json:"generated_at"`
	Checks      []Check `json:"checks"`
	Healthy     bool    `json:"healthy"`
}

// Run probes the environment described by the resolved config. It
// never creates files: a missing catalog is reported, not initialized.
func Run(ctx context.Context, cfg config.ResolvedConfig) *Report {
	r := &Report{GeneratedAt: time.Now().UTC().Format(time.RFC3339)}

	r.Checks = append(r.Checks,
		checkConfigFile(cfg),
		checkCatalog(ctx, cfg),
		checkModelKey(cfg),
		checkSearch(cfg),
	)

	r.Healthy = true
	for _, c := range r.Checks {
		if c.Status == StatusFail {
			r.Healthy = false
			break
		}
	}
	return r
}

func checkConfigFile(cfg config.ResolvedConfig) Check {
	c := Check{Name: "config file"}
	if _, err := os.Stat(cfg.ConfigPath); err != nil {
		c.Status = StatusWarn
		c.Detail = fmt.Sprintf("%s not found (defaults in use)", cfg.ConfigPath)
		return c
	}
	c.Status = StatusOK
	c.Detail = cfg.ConfigPath
	return c
}

func checkCatalog(ctx context.Context, cfg config.ResolvedConfig) Check {
	c := Check{Name: "catalog"}

	path := cfg.DBPath.Value
	if path == "" {
		path = catalog.ExpandPath(catalog.DefaultDBPath)
	}

	if _, err := os.Stat(path); err != nil {
		c.Status = StatusWarn
		c.Detail = fmt.Sprintf("no catalog at %s (created on first import)", path)
		return c
	}

	store, err := catalog.NewStore(catalog.Config{DBPath: path})
	if err != nil {
		c.Status = StatusFail
		c.Detail = err.Error()
		return c
	}
	defer store.Close()

	stats, err := store.Stats(ctx)
	if err != nil {
		c.Status = StatusFail
		c.Detail = err.Error()
		return c
	}

	if stats.TrackCount == 0 {
		c.Status = StatusWarn
		c.Detail = fmt.Sprintf("%s is empty; run 'cratedig import' to load tracks", path)
		return c
	}

	c.Status = StatusOK
	c.Detail = fmt.Sprintf("%d tracks, %d artists, %d with lyrics (%s)", stats.TrackCount, stats.ArtistCount, stats.WithLyrics, path)
	return c
}

func checkModelKey(cfg config.ResolvedConfig) Check {
	c := Check{Name: "language model"}

	eff := cfg.EffectiveLLMModel("resolve", llm.DefaultModel)
	key := cfg.APIKeyForProvider(eff.Value)
	if key.Value == "" {
		c.Status = StatusFail
		c.Detail = fmt.Sprintf("no API key for %s (set GEMINI_API_KEY or OPENROUTER_API_KEY)", eff.Value)
		return c
	}

	c.Status = StatusOK
	c.Detail = fmt.Sprintf("%s (key from %s)", eff.Value, key.From)
	return c
}

func checkSearch(cfg config.ResolvedConfig) Check {
	c := Check{Name: "web search"}

	provider := cfg.SearchProvider.Value
	hasKey := cfg.SearchAPIKey.Value != ""

	switch {
	case provider == "serpapi" && !hasKey:
		c.Status = StatusFail
		c.Detail = "serpapi selected but SERPAPI_API_KEY is not set"
	case provider == "serpapi":
		c.Status = StatusOK
		c.Detail = fmt.Sprintf("serpapi (key from %s)", cfg.SearchAPIKey.From)
	case provider == "duckduckgo":
		c.Status = StatusOK
		c.Detail = "duckduckgo (keyless scraper)"
	case provider == "":
		if hasKey {
			c.Status = StatusOK
			c.Detail = fmt.Sprintf("serpapi auto-selected (key from %s)", cfg.SearchAPIKey.From)
		} else {
			c.Status = StatusOK
			c.Detail = "duckduckgo auto-selected (keyless scraper)"
		}
	default:
		c.Status = StatusFail
		c.Detail = fmt.Sprintf("unknown search provider %q", provider)
	}
	return c
}
