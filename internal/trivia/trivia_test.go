package trivia

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hurttlocker/cratedig/internal/llm"
	"github.com/hurttlocker/cratedig/internal/websearch"
)

type scriptedLLM struct {
	response  string
	err       error
	gotPrompt string
}

func (s *scriptedLLM) Complete(ctx context.Context, prompt string, opts llm.CompletionOpts) (string, error) {
	s.gotPrompt = prompt
	return s.response, s.err
}

func (s *scriptedLLM) Name() string { return "scripted" }

type scriptedSearch struct {
	result   string
	err      error
	gotQuery string
	calls    int
}

func (s *scriptedSearch) Search(ctx context.Context, query string) (string, error) {
	s.gotQuery = query
	s.calls++
	return s.result, s.err
}

func (s *scriptedSearch) Name() string { return "scripted" }

func TestAnswer(t *testing.T) {
	search := &scriptedSearch{result: "1. Freddie Mercury - Wikipedia\nLead vocalist of Queen, born Farrokh Bulsara in Zanzibar."}
	model := &scriptedLLM{response: "  Freddie Mercury was Queen's lead singer, born Farrokh Bulsara in Zanzibar in 1946.  \n"}
	e := &Engine{Search: search, LLM: model}

	got, err := e.Answer(context.Background(), "who was the lead singer of Queen?")
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}

	// The raw input is the search query, untouched.
	if search.gotQuery != "who was the lead singer of Queen?" {
		t.Errorf("search query = %q", search.gotQuery)
	}
	if search.calls != 1 {
		t.Errorf("search called %d times, want 1", search.calls)
	}
	if !strings.Contains(model.gotPrompt, "Results: 1. Freddie Mercury - Wikipedia") {
		t.Errorf("search results not embedded in prompt:\n%s", model.gotPrompt)
	}
	if got != "Freddie Mercury was Queen's lead singer, born Farrokh Bulsara in Zanzibar in 1946." {
		t.Errorf("answer not trimmed: %q", got)
	}
}

func TestAnswerSearchFailure(t *testing.T) {
	search := &scriptedSearch{err: errors.New("quota exhausted")}
	model := &scriptedLLM{}
	e := &Engine{Search: search, LLM: model}

	_, err := e.Answer(context.Background(), "who wrote Imagine?")
	if !errors.Is(err, websearch.ErrSearch) {
		t.Errorf("error not tagged with ErrSearch: %v", err)
	}
	if model.gotPrompt != "" {
		t.Errorf("model called after search failure with prompt %q", model.gotPrompt)
	}
}

func TestAnswerModelFailure(t *testing.T) {
	search := &scriptedSearch{result: "1. Some result"}
	model := &scriptedLLM{err: errors.New("overloaded")}
	e := &Engine{Search: search, LLM: model}

	_, err := e.Answer(context.Background(), "who wrote Imagine?")
	if !errors.Is(err, llm.ErrInvocation) {
		t.Errorf("error not tagged with ErrInvocation: %v", err)
	}
}
