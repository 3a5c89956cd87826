package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hurttlocker/cratedig/internal/catalog"
)

func runSearch(args []string) error {
	title, artist, format := "", "", ""

	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--title" && i+1 < len(args):
			i++
			title = args[i]
		case strings.HasPrefix(args[i], "--title="):
			title = strings.TrimPrefix(args[i], "--title=")
		case args[i] == "--artist" && i+1 < len(args):
			i++
			artist = args[i]
		case strings.HasPrefix(args[i], "--artist="):
			artist = strings.TrimPrefix(args[i], "--artist=")
		case args[i] == "--format" && i+1 < len(args):
			i++
			format = strings.ToLower(strings.TrimSpace(args[i]))
		case strings.HasPrefix(args[i], "--format="):
			format = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(args[i], "--format=")))
		case strings.HasPrefix(args[i], "-"):
			return fmt.Errorf("unknown flag: %s", args[i])
		default:
			return fmt.Errorf("unexpected argument: %s (use --title and/or --artist)", args[i])
		}
	}

	if strings.TrimSpace(title) == "" && strings.TrimSpace(artist) == "" {
		return fmt.Errorf("usage: cratedig search --title <text> and/or --artist <text> [--format table|list|json]")
	}

	if globalJSON {
		format = "json"
	}
	if format == "" {
		if isTTY() {
			format = "table"
		} else {
			format = "json"
		}
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

	tracks, err := st.Lookup(context.Background(), title, artist)
	if err != nil {
		return err
	}

	return renderTracks(os.Stdout, tracks, format)
}

// renderTracks writes lookup results in the requested format.
func renderTracks(w io.Writer, tracks []catalog.Track, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(tracks)
	case "list":
		for _, tr := range tracks {
			fmt.Fprintf(w, "- %s by %s\n", tr.Title, tr.Artist)
			fmt.Fprintf(w, "  audio: %s\n", tr.FilePath)
		}
		fmt.Fprintf(w, "\n%d track(s)\n", len(tracks))
		return nil
	case "table":
		fmt.Fprintf(w, "%-32s %-24s %-7s %s\n", "TITLE", "ARTIST", "LYRICS", "AUDIO")
		for _, tr := range tracks {
			has := "no"
			if tr.Lyrics != "" {
				has = "yes"
			}
			fmt.Fprintf(w, "%-32s %-24s %-7s %s\n",
				truncate(tr.Title, 32), truncate(tr.Artist, 24), has, tr.FilePath)
		}
		fmt.Fprintf(w, "\n%d track(s)\n", len(tracks))
		return nil
	default:
		return fmt.Errorf("unsupported format: %s (supported: table, list, json)", format)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
