// Package lyrics fills in missing lyrics before tracks are surfaced.
package lyrics

import "github.com/hurttlocker/cratedig/internal/catalog"

// Placeholder stands in for lyrics the catalog does not hold.
const Placeholder = "Lyrics not available in database."

// Normalize substitutes the placeholder for absent lyrics. Applying it
// twice changes nothing.
func Normalize(lyrics string) string {
	if lyrics == "" {
		return Placeholder
	}
	return lyrics
}

// Apply normalizes every track in the list. Pure and order-preserving;
// the input slice is never touched.
func Apply(tracks []catalog.Track) []catalog.Track {
	updated := make([]catalog.Track, 0, len(tracks))
	for _, t := range tracks {
		t.Lyrics = Normalize(t.Lyrics)
		updated = append(updated, t)
	}
	return updated
}

// Preview returns at most n runes of s for terminal display, with a
// trailing ellipsis when anything was cut.
func Preview(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
