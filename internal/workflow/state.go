package workflow

import (
	"github.com/hurttlocker/cratedig/internal/catalog"
	"github.com/hurttlocker/cratedig/internal/intent"
)

// State is the record accumulated across a run. Input is set once at
// the start and never changes; every other field is owned by the step
// that produces it. Empty string means the field is unset.
type State struct {
	Input     string           `json:"input"`
	QueryType intent.QueryType `json:"query_type,omitempty"`
	Title     string           `json:"title,omitempty"`
	Artist    string           `json:"artist,omitempty"`
	Tracks    []catalog.Track  `json:"tracks"`
	Trivia    string           `json:"trivia,omitempty"`
}

// Update is the set of fields one step produced. Nil pointers leave
// the state untouched; non-nil pointers overwrite, including
// overwriting with the empty string when a step withdrew an earlier
// guess. Tracks need the extra flag because both nil and empty are
// meaningful track lists.
type Update struct {
	QueryType *intent.QueryType
	Title     *string
	Artist    *string
	Trivia    *string
	Tracks    []catalog.Track
	TracksSet bool
}

// merge folds an update into the state and returns the combined
// record. Purely additive: fields absent from the update carry over
// unchanged, so no step can delete another step's work.
func (s State) merge(u Update) State {
	if u.QueryType != nil {
		s.QueryType = *u.QueryType
	}
	if u.Title != nil {
		s.Title = *u.Title
	}
	if u.Artist != nil {
		s.Artist = *u.Artist
	}
	if u.Trivia != nil {
		s.Trivia = *u.Trivia
	}
	if u.TracksSet {
		s.Tracks = u.Tracks
	}
	return s
}
