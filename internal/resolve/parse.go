// Package resolve turns a conversational music request into concrete
// title and artist strings and looks them up in the catalog. The
// catalog pass runs the model twice (answer, then extraction); the web
// pass fans out over prioritized search queries when the catalog pass
// comes up empty.
package resolve

import (
	"regexp"
	"strings"
)

// The extraction prompts instruct the model to answer in
// "Title: X | Artist: Y" form. These patterns are the contract for
// reading that answer back; the fallbacks tolerate models that emit
// only one half or drop the pipe.
var (
	pairRE   = regexp.MustCompile(`Title:\s*(.*?)\s*\|\s*Artist:\s*(.*)`)
	titleRE  = regexp.MustCompile(`Title:\s*(.*)`)
	artistRE = regexp.MustCompile(`Artist:\s*(.*)`)
)

// ParsePair matches only the combined "Title: X | Artist: Y" form.
// ok reports whether the pattern matched at all; the captures may
// still be empty.
func ParsePair(text string) (title, artist string, ok bool) {
	m := pairRE.FindStringSubmatch(text)
	if m == nil {
		return "", "", false
	}
	return strings.TrimSpace(m[1]), strings.TrimSpace(m[2]), true
}

// ParseTitleArtist extracts title and artist from model output. The
// combined pattern runs first; each field still empty afterwards gets
// one more chance via its standalone fallback. Nothing matching is not
// an error, both fields just come back empty and the caller carries on
// with whatever it has.
func ParseTitleArtist(text string) (title, artist string) {
	title, artist, _ = ParsePair(text)
	if title == "" {
		if m := titleRE.FindStringSubmatch(text); m != nil {
			title = strings.TrimSpace(m[1])
		}
	}
	if artist == "" {
		if m := artistRE.FindStringSubmatch(text); m != nil {
			artist = strings.TrimSpace(m[1])
		}
	}
	return title, artist
}
