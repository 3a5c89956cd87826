package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/hurttlocker/cratedig/internal/catalog"
)

func runStats(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}

	cfg, err := resolveConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()
	stats, err := st.Stats(ctx)
	if err != nil {
		return err
	}

	if globalJSON {
		return emitJSON(struct {
			catalog.Stats
			Path string `json:"path"`
		}{*stats, st.Path()})
	}

	bold := color.New(color.Bold)
	fmt.Printf("%s %s\n", bold.Sprint("Catalog:"), st.Path())
	fmt.Printf("  tracks:       %d\n", stats.TrackCount)
	fmt.Printf("  artists:      %d\n", stats.ArtistCount)
	fmt.Printf("  with lyrics:  %d\n", stats.WithLyrics)
	fmt.Printf("  size:         %s\n", formatBytes(stats.DBSizeBytes))

	if ss, ok := st.(*catalog.SQLiteStore); ok && stats.TrackCount > 0 {
		top, err := ss.ArtistCounts(ctx, 5)
		if err == nil && len(top) > 0 {
			fmt.Printf("\n%s\n", bold.Sprint("Top artists:"))
			for _, a := range top {
				fmt.Printf("  %-28s %d\n", truncate(a.Artist, 28), a.TrackCount)
			}
		}
	}
	return nil
}
