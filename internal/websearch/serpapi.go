package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxResultsPerQuery caps how many organic results feed the prompt.
const maxResultsPerQuery = 10

// serpAPIProvider implements Provider using the SerpAPI Google engine.
type serpAPIProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func newSerpAPIProvider(apiKey, baseURL string) *serpAPIProvider {
	return &serpAPIProvider{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// SerpAPI response types (the subset the prompt text needs).
type serpResponse struct {
	Error     string        `json:"error,omitempty"`
	AnswerBox *serpAnswer   `json:"answer_box,omitempty"`
	Organic   []serpOrganic `json:"organic_results"`
}

type serpAnswer struct {
	Answer  string `json:"answer"`
	Snippet string `json:"snippet"`
	Title   string `json:"title"`
}

type serpOrganic struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

func (s *serpAPIProvider) Name() string {
	return "serpapi"
}

func (s *serpAPIProvider) Search(ctx context.Context, query string) (string, error) {
	params := url.Values{}
	params.Set("engine", "google")
	params.Set("q", query)
	params.Set("api_key", s.apiKey)
	params.Set("num", fmt.Sprintf("%d", maxResultsPerQuery))

	reqURL := s.baseURL + "/search?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("serpapi returned %d: %s", resp.StatusCode, string(body))
	}

	var sr serpResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if sr.Error != "" {
		return "", fmt.Errorf("serpapi error: %s", sr.Error)
	}

	return flattenSerpResults(query, &sr), nil
}

// flattenSerpResults renders the answer box and organic results as the
// plain lines the extraction and trivia prompts consume.
func flattenSerpResults(query string, sr *serpResponse) string {
	var sb strings.Builder

	if ab := sr.AnswerBox; ab != nil {
		switch {
		case ab.Answer != "":
			fmt.Fprintf(&sb, "Answer: %s\n\n", ab.Answer)
		case ab.Snippet != "":
			fmt.Fprintf(&sb, "Answer: %s\n\n", ab.Snippet)
		}
	}

	for i, r := range sr.Organic {
		if i >= maxResultsPerQuery {
			break
		}
		fmt.Fprintf(&sb, "%d. %s\n", i+1, r.Title)
		if r.Snippet != "" {
			fmt.Fprintf(&sb, "%s\n", r.Snippet)
		}
		if r.Link != "" {
			fmt.Fprintf(&sb, "%s\n", r.Link)
		}
		sb.WriteString("\n")
	}

	if sb.Len() == 0 {
		return "No results found for: " + query
	}
	return strings.TrimSpace(sb.String())
}
