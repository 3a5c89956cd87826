// Package workflow sequences the music routing pipeline: classify the
// query, answer trivia when asked, resolve tracks against the catalog,
// fall back to the web when the catalog misses, then normalize lyrics.
// Steps are pure over their inputs; each returns an Update that the
// runner merges into an accumulating State, and a fixed transition
// table decides what runs next.
package workflow

import (
	"context"
	"fmt"

	"github.com/hurttlocker/cratedig/internal/catalog"
	"github.com/hurttlocker/cratedig/internal/intent"
	"github.com/hurttlocker/cratedig/internal/llm"
	"github.com/hurttlocker/cratedig/internal/lyrics"
	"github.com/hurttlocker/cratedig/internal/resolve"
	"github.com/hurttlocker/cratedig/internal/trivia"
	"github.com/hurttlocker/cratedig/internal/websearch"
)

// Runner executes the routing pipeline over a fixed set of backends.
type Runner struct {
	model    llm.Provider
	resolver *resolve.Resolver
	web      *resolve.WebResolver
	trivia   *trivia.Engine

	// Trace, when set, observes every completed step with the state it
	// produced. Used by the CLI's verbose mode and by tests.
	Trace func(step Step, s State)
}

// New wires a runner from its three backends.
func New(model llm.Provider, search websearch.Provider, cat catalog.Store) *Runner {
	return &Runner{
		model:    model,
		resolver: &resolve.Resolver{LLM: model, Catalog: cat},
		web:      &resolve.WebResolver{LLM: model, Search: search, Catalog: cat},
		trivia:   &trivia.Engine{Search: search, LLM: model},
	}
}

// Run drives the pipeline from DetectType to End and returns the final
// state. A failing step aborts the run; the error carries the step
// name and the state accumulated so far comes back alongside it.
func (r *Runner) Run(ctx context.Context, input string) (State, error) {
	s := State{Input: input}

	for step := StepDetectType; step != StepEnd; step = nextStep(step, s) {
		u, err := r.runStep(ctx, step, s)
		if err != nil {
			return s, fmt.Errorf("%s: %w", step, err)
		}
		s = s.merge(u)
		if r.Trace != nil {
			r.Trace(step, s)
		}
	}

	return s, nil
}

func (r *Runner) runStep(ctx context.Context, step Step, s State) (Update, error) {
	switch step {
	case StepDetectType:
		qt, err := intent.Classify(ctx, r.model, s.Input)
		if err != nil {
			return Update{}, err
		}
		return Update{QueryType: &qt}, nil

	case StepTriviaSearch:
		answer, err := r.trivia.Answer(ctx, s.Input)
		if err != nil {
			return Update{}, err
		}
		return Update{Trivia: &answer}, nil

	case StepDBSearch:
		res, err := r.resolver.Resolve(ctx, s.Input)
		if err != nil {
			return Update{}, err
		}
		return Update{Title: &res.Title, Artist: &res.Artist, Tracks: res.Tracks, TracksSet: true}, nil

	case StepWebSearch:
		res, err := r.web.Resolve(ctx, s.Input, s.Title, s.Artist)
		if err != nil {
			return Update{}, err
		}
		return Update{Title: &res.Title, Artist: &res.Artist, Tracks: res.Tracks, TracksSet: true}, nil

	case StepLyricsSearch:
		return Update{Tracks: lyrics.Apply(s.Tracks), TracksSet: true}, nil

	default:
		return Update{}, fmt.Errorf("no handler for step %s", step)
	}
}
