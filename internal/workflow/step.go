package workflow

import "github.com/hurttlocker/cratedig/internal/intent"

// Step identifies one stage of the routing pipeline.
type Step int

const (
	StepDetectType Step = iota
	StepTriviaSearch
	StepDBSearch
	StepWebSearch
	StepLyricsSearch
	StepEnd
)

func (s Step) String() string {
	switch s {
	case StepDetectType:
		return "DetectType"
	case StepTriviaSearch:
		return "TriviaSearch"
	case StepDBSearch:
		return "DBSearch"
	case StepWebSearch:
		return "WebSearch"
	case StepLyricsSearch:
		return "LyricsSearch"
	case StepEnd:
		return "End"
	default:
		return "Unknown"
	}
}

// nextStep is the full routing table, separated from the step bodies.
// Two branches exist: trivia queries detour through TriviaSearch
// before track resolution, and an empty catalog result after DBSearch
// detours through WebSearch. Everything else is a straight line into
// LyricsSearch and out.
func nextStep(cur Step, s State) Step {
	switch cur {
	case StepDetectType:
		if s.QueryType == intent.QueryTrivia {
			return StepTriviaSearch
		}
		return StepDBSearch
	case StepTriviaSearch:
		return StepDBSearch
	case StepDBSearch:
		if len(s.Tracks) == 0 {
			return StepWebSearch
		}
		return StepLyricsSearch
	case StepWebSearch:
		return StepLyricsSearch
	case StepLyricsSearch:
		return StepEnd
	default:
		return StepEnd
	}
}
