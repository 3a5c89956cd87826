package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/hurttlocker/cratedig/internal/lyrics"
	"github.com/hurttlocker/cratedig/internal/workflow"
)

// lyricsPreviewLen caps the lyrics shown per track unless
// --full-lyrics is given.
const lyricsPreviewLen = 500

func runAsk(args []string) error {
	fullLyrics := false
	var queryParts []string

	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--full-lyrics":
			fullLyrics = true
		case strings.HasPrefix(args[i], "-"):
			return fmt.Errorf("unknown flag: %s", args[i])
		default:
			queryParts = append(queryParts, args[i])
		}
	}

	query := strings.TrimSpace(strings.Join(queryParts, " "))
	if query == "" {
		return fmt.Errorf("usage: cratedig ask <query> [--json] [--verbose] [--full-lyrics]")
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

	model, err := buildModel(cfg)
	if err != nil {
		return err
	}
	search, err := buildSearch(cfg)
	if err != nil {
		return err
	}

	runner := workflow.New(model, search, st)
	if globalVerbose {
		gray := color.New(color.FgHiBlack)
		runner.Trace = func(step workflow.Step, s workflow.State) {
			gray.Fprintf(os.Stderr, "[%s] type=%s title=%q artist=%q tracks=%d\n",
				step, s.QueryType, s.Title, s.Artist, len(s.Tracks))
		}
	}

	state, err := runner.Run(context.Background(), query)
	if err != nil {
		return err
	}

	if globalJSON {
		return emitJSON(state)
	}

	renderResult(os.Stdout, state, fullLyrics)
	return nil
}

// renderResult prints a finished routing state: trivia first when
// present, then the track list with audio paths and lyrics. An empty
// track list is informational, not an error.
func renderResult(w io.Writer, s workflow.State, fullLyrics bool) {
	bold := color.New(color.Bold)
	cyan := color.New(color.FgCyan)
	gray := color.New(color.FgHiBlack)

	if s.Trivia != "" {
		fmt.Fprintf(w, "\n%s\n%s\n", bold.Sprint("🎧 Trivia:"), s.Trivia)
	}

	if len(s.Tracks) == 0 {
		fmt.Fprintln(w, "\nNo tracks found.")
		return
	}

	fmt.Fprintf(w, "\n%s\n", bold.Sprint("🎵 Found Tracks:"))
	for _, tr := range s.Tracks {
		fmt.Fprintf(w, "- %s by %s\n", cyan.Sprint(tr.Title), tr.Artist)

		audio := tr.FilePath
		if _, err := os.Stat(tr.FilePath); err != nil {
			audio += gray.Sprint(" (missing)")
		}
		fmt.Fprintf(w, "  Audio: %s\n", audio)

		text := tr.Lyrics
		if !fullLyrics {
			text = lyrics.Preview(text, lyricsPreviewLen)
		}
		fmt.Fprintf(w, "  🎤 Lyrics:\n%s\n\n", text)
	}
}
