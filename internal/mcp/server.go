// Package mcp exposes the music router over the Model Context
// Protocol so agent hosts (Claude Desktop, Cursor) can use it as a
// tool set. The tools mirror the CLI operations: full routing runs,
// direct catalog lookups, trivia answers, and catalog stats. Stdio
// transport only.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/hurttlocker/cratedig/internal/catalog"
	"github.com/hurttlocker/cratedig/internal/llm"
	"github.com/hurttlocker/cratedig/internal/trivia"
	"github.com/hurttlocker/cratedig/internal/websearch"
	"github.com/hurttlocker/cratedig/internal/workflow"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ServerConfig holds the backends the MCP tools run against. Model
// and Search may be nil when no credentials are configured; the tools
// that need them report that at call time instead of at startup, so a
// catalog-only install still serves lookups and stats.
type ServerConfig struct {
	Store   catalog.Store
	Model   llm.Provider
	Search  websearch.Provider
	Version string
}

// dbMu serializes tool calls that touch the catalog. mcp-go dispatches
// handlers on separate goroutines and the SQLite store holds a single
// connection, so calls queue here instead of inside the driver.
var dbMu sync.Mutex

// NewServer creates a configured MCP server with all cratedig tools
// and resources registered.
func NewServer(cfg ServerConfig) *server.MCPServer {
	ver := cfg.Version
	if ver == "" {
		ver = "dev"
	}

	s := server.NewMCPServer(
		"cratedig",
		ver,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(true, false),
	)

	var runner *workflow.Runner
	var triviaEngine *trivia.Engine
	if cfg.Model != nil && cfg.Search != nil {
		runner = workflow.New(cfg.Model, cfg.Search, cfg.Store)
		triviaEngine = &trivia.Engine{Search: cfg.Search, LLM: cfg.Model}
	}

	registerAskTool(s, runner)
	registerSearchTracksTool(s, cfg.Store)
	registerTriviaTool(s, triviaEngine)
	registerStatsTool(s, cfg.Store)

	registerStatsResource(s, cfg.Store)
	if sqlStore, ok := cfg.Store.(*catalog.SQLiteStore); ok {
		registerArtistsResource(s, sqlStore)
	}

	return s
}

// errNoModel is what model-backed tools return when the server was
// started without credentials.
const errNoModel = "no language model configured: set GEMINI_API_KEY or OPENROUTER_API_KEY and restart the server"

// --- Tools ---

func registerAskTool(s *server.MCPServer, runner *workflow.Runner) {
	tool := mcp.NewTool("music_ask",
		mcp.WithDescription("Route a conversational music question through the full pipeline: classify it, answer trivia when asked, resolve tracks against the local catalog, fall back to web search on a miss, and attach lyrics. Returns the final routing state as JSON."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("The user's music question, verbatim"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dbMu.Lock()
		defer dbMu.Unlock()

		query, err := req.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError("query is required"), nil
		}
		if strings.TrimSpace(query) == "" {
			return mcp.NewToolResultError("query cannot be empty"), nil
		}
		if runner == nil {
			return mcp.NewToolResultError(errNoModel), nil
		}

		state, err := runner.Run(ctx, query)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("routing error: %v", err)), nil
		}

		data, _ := json.MarshalIndent(state, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerSearchTracksTool(s *server.MCPServer, st catalog.Store) {
	tool := mcp.NewTool("search_tracks",
		mcp.WithDescription("Search the local catalog by title and/or artist substring. Matching is case-sensitive; supplying both fields returns tracks matching either one."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("title",
			mcp.Description("Title fragment to match"),
		),
		mcp.WithString("artist",
			mcp.Description("Artist fragment to match"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dbMu.Lock()
		defer dbMu.Unlock()

		title := ""
		if v, err := req.RequireString("title"); err == nil {
			title = v
		}
		artist := ""
		if v, err := req.RequireString("artist"); err == nil {
			artist = v
		}
		if strings.TrimSpace(title) == "" && strings.TrimSpace(artist) == "" {
			return mcp.NewToolResultError("title or artist is required"), nil
		}

		tracks, err := st.Lookup(ctx, title, artist)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("lookup error: %v", err)), nil
		}

		payload := map[string]interface{}{
			"tracks": tracks,
			"count":  len(tracks),
		}
		data, _ := json.MarshalIndent(payload, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerTriviaTool(s *server.MCPServer, engine *trivia.Engine) {
	tool := mcp.NewTool("music_trivia",
		mcp.WithDescription("Answer a music trivia question directly: one web search for context, one model call for the answer. Skips the catalog entirely."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("The trivia question, verbatim"),
		),
	)

	// Trivia never opens the catalog, so it runs outside dbMu.
	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := req.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError("query is required"), nil
		}
		if strings.TrimSpace(query) == "" {
			return mcp.NewToolResultError("query cannot be empty"), nil
		}
		if engine == nil {
			return mcp.NewToolResultError(errNoModel), nil
		}

		answer, err := engine.Answer(ctx, query)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("trivia error: %v", err)), nil
		}

		payload := map[string]interface{}{
			"answer": answer,
			"model":  engine.LLM.Name(),
			"search": engine.Search.Name(),
		}
		data, _ := json.MarshalIndent(payload, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerStatsTool(s *server.MCPServer, st catalog.Store) {
	tool := mcp.NewTool("catalog_stats",
		mcp.WithDescription("Catalog size and coverage: track count, distinct artists, lyrics coverage, and database size."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dbMu.Lock()
		defer dbMu.Unlock()

		stats, err := st.Stats(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("stats error: %v", err)), nil
		}

		payload := map[string]interface{}{
			"track_count":   stats.TrackCount,
			"artist_count":  stats.ArtistCount,
			"with_lyrics":   stats.WithLyrics,
			"db_size_bytes": stats.DBSizeBytes,
			"path":          st.Path(),
		}
		data, _ := json.MarshalIndent(payload, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}
