// Package intent decides how a user query routes through the
// workflow: trivia questions go to web search and summarization,
// track requests go to catalog resolution.
package intent

import (
	"context"
	"fmt"
	"strings"

	"github.com/hurttlocker/cratedig/internal/llm"
)

// QueryType is the routing decision for a user query.
type QueryType string

const (
	// QueryTrivia routes through web search and a summarizing model call.
	QueryTrivia QueryType = "trivia"
	// QueryTrack routes through catalog lookup and track resolution.
	QueryTrack QueryType = "track"
)

// classifyPrompt asks the model for a one-word routing decision. The
// user input is embedded verbatim, quotes and all.
const classifyPrompt = `Is the following user input asking for music-related trivia (e.g. about a person, history, or music fact)?
Return only "trivia" or "track".
Input: "%s"`

// Classify asks the model whether the query is trivia or a track
// request. The check on the response is deliberately loose: any
// response containing the word "trivia", in any case, classifies as
// trivia, and everything else as track. A chatty model that answers
// "This looks like a Trivia question." still routes correctly, and an
// off-script answer degrades to the track path rather than failing.
func Classify(ctx context.Context, p llm.Provider, query string) (QueryType, error) {
	prompt := fmt.Sprintf(classifyPrompt, query)
	resp, err := llm.Invoke(ctx, p, prompt, llm.CompletionOpts{Temperature: 0})
	if err != nil {
		return "", err
	}
	if strings.Contains(strings.ToLower(resp), "trivia") {
		return QueryTrivia, nil
	}
	return QueryTrack, nil
}
