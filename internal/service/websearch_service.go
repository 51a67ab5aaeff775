package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"unicode/utf8"

	"math-routing-agent/pkg/config"

	"go.uber.org/zap"
)

// WebSearchResult is one hit from the web search provider.
type WebSearchResult struct {
	Title   string
	URL     string
	Snippet string
	Score   float64
}

// WebSearchResponse is the outcome of one search. Answer is the provider's
// direct answer when it is confident enough to produce one; Results carry
// the raw hits for use as LLM context.
type WebSearchResponse struct {
	Answer  string
	Results []WebSearchResult
}

// WebSearchService queries the Tavily search API. The service is strictly
// best-effort: callers treat any error as a stage decline.
type WebSearchService struct {
	httpClient *http.Client
	config     *config.WebSearchConfig
	logger     *zap.Logger
}

func NewWebSearchService(cfg *config.WebSearchConfig, logger *zap.Logger) *WebSearchService {
	return &WebSearchService{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		config:     cfg,
		logger:     logger,
	}
}

type tavilyRequest struct {
	APIKey        string `json:"api_key"`
	Query         string `json:"query"`
	SearchDepth   string `json:"search_depth"`
	MaxResults    int    `json:"max_results"`
	IncludeAnswer bool   `json:"include_answer"`
}

type tavilyResponse struct {
	Answer  string `json:"answer"`
	Results []struct {
		Title   string  `json:"title"`
		URL     string  `json:"url"`
		Content string  `json:"content"`
		Score   float64 `json:"score"`
	} `json:"results"`
}

// Search runs a query against the provider. When a basic-depth search
// returns no hits it is retried once with advanced depth.
func (s *WebSearchService) Search(ctx context.Context, question string, limit int) (*WebSearchResponse, error) {
	if s.config.APIKey == "" {
		return nil, fmt.Errorf("web search API key is not configured")
	}
	if limit <= 0 {
		limit = s.config.MaxResults
	}

	query := sanitizeQuery(question)

	resp, err := s.search(ctx, query, s.config.Depth, limit)
	if err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 && s.config.Depth == "basic" {
		s.logger.Debug("No hits at basic depth, retrying with advanced depth",
			zap.String("query", query))
		return s.search(ctx, query, "advanced", limit)
	}
	return resp, nil
}

func (s *WebSearchService) search(ctx context.Context, query, depth string, limit int) (*WebSearchResponse, error) {
	body, err := json.Marshal(tavilyRequest{
		APIKey:        s.config.APIKey,
		Query:         query,
		SearchDepth:   depth,
		MaxResults:    limit,
		IncludeAnswer: true,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.BaseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("web search request failed: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read search response: %w", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("web search returned status %d: %s", httpResp.StatusCode, truncate(string(respBody), 200))
	}

	var parsed tavilyResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	result := &WebSearchResponse{Answer: strings.TrimSpace(parsed.Answer)}
	for _, hit := range parsed.Results {
		if len(result.Results) >= limit {
			break
		}
		result.Results = append(result.Results, WebSearchResult{
			Title:   strings.TrimSpace(hit.Title),
			URL:     strings.TrimSpace(hit.URL),
			Snippet: strings.TrimSpace(hit.Content),
			Score:   hit.Score,
		})
	}

	s.logger.Debug("Web search completed",
		zap.String("query", query),
		zap.Int("hits", len(result.Results)),
		zap.Bool("has_answer", result.Answer != ""),
	)

	return result, nil
}

var nonASCIIRe = regexp.MustCompile(`[^\x00-\x7F]+`)

// sanitizeQuery straightens curly quotes and strips stray non-ASCII runes
// that confuse the search provider.
func sanitizeQuery(q string) string {
	replacer := strings.NewReplacer("’", "'", "“", `"`, "”", `"`)
	q = replacer.Replace(q)
	q = nonASCIIRe.ReplaceAllString(q, " ")
	return strings.TrimSpace(q)
}

// truncate shortens s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
