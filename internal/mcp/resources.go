package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hurttlocker/cratedig/internal/catalog"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerStatsResource(s *server.MCPServer, st catalog.Store) {
	resource := mcp.NewResource(
		"cratedig://catalog/stats",
		"Catalog Stats",
		mcp.WithResourceDescription("Track count, distinct artists, and lyrics coverage for the local catalog."),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(resource, func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		dbMu.Lock()
		defer dbMu.Unlock()

		stats, err := st.Stats(ctx)
		if err != nil {
			return nil, fmt.Errorf("reading catalog stats: %w", err)
		}

		payload := map[string]interface{}{
			"track_count":   stats.TrackCount,
			"artist_count":  stats.ArtistCount,
			"with_lyrics":   stats.WithLyrics,
			"db_size_bytes": stats.DBSizeBytes,
			"path":          st.Path(),
		}
		data, _ := json.MarshalIndent(payload, "", "  ")
		return []mcp.ResourceContents{
			mcp.TextResourceContents{URI: req.Params.URI, MIMEType: "application/json", Text: string(data)},
		}, nil
	})
}

func registerArtistsResource(s *server.MCPServer, st *catalog.SQLiteStore) {
	resource := mcp.NewResource(
		"cratedig://catalog/artists",
		"Catalog Artists",
		mcp.WithResourceDescription("Artists in the catalog with their track counts, most tracks first."),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(resource, func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		dbMu.Lock()
		defer dbMu.Unlock()

		artists, err := st.ArtistCounts(ctx, 500)
		if err != nil {
			return nil, fmt.Errorf("reading catalog artists: %w", err)
		}

		payload := map[string]interface{}{
			"artists": artists,
			"count":   len(artists),
		}
		data, _ := json.MarshalIndent(payload, "", "  ")
		return []mcp.ResourceContents{
			mcp.TextResourceContents{URI: req.Params.URI, MIMEType: "application/json", Text: string(data)},
		}, nil
	})
}
