// Package trivia answers music questions from live web search results.
package trivia

import (
	"context"
	"fmt"
	"strings"

	"github.com/hurttlocker/cratedig/internal/llm"
	"github.com/hurttlocker/cratedig/internal/websearch"
)

// answerPrompt turns raw search result text into a conversational answer.
const answerPrompt = `Based on the following search results, answer the user's music-related question or provide a fun fact.
Be concise, accurate, and conversational.
Results: %s`

// Engine produces trivia answers.
type Engine struct {
	Search websearch.Provider
	LLM    llm.Provider
}

// Answer runs exactly one web search with the raw user input as the
// query and one summarizing model call over the results. The answer
// comes back whitespace-trimmed. Search and model failures propagate.
func (e *Engine) Answer(ctx context.Context, input string) (string, error) {
	results, err := websearch.Run(ctx, e.Search, input)
	if err != nil {
		return "", err
	}

	resp, err := llm.Invoke(ctx, e.LLM, fmt.Sprintf(answerPrompt, results), llm.CompletionOpts{})
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(resp), nil
}
