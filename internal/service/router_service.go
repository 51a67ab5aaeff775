package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"math-routing-agent/internal/models"
	"math-routing-agent/internal/solver"
	"math-routing-agent/pkg/config"

	"go.uber.org/zap"
)

const (
	unsafeInputText   = "Sorry, request looks unsafe or tries to modify system behavior."
	notMathText       = "I can only help with math questions. Please ask a math question."
	maxContextHits    = 3
	snippetMaxLen     = 300
	kbSnippetQuestion = 200
	kbSnippetAnswer   = 400
)

// KnowledgeSearcher is the read side of the knowledge store used by the
// routing pipeline.
type KnowledgeSearcher interface {
	SearchText(ctx context.Context, question string, topK int) ([]SearchHit, error)
}

// WebSearcher is the best-effort web search stage.
type WebSearcher interface {
	Search(ctx context.Context, question string, limit int) (*WebSearchResponse, error)
}

// LLMClient is the terminal fallback stage.
type LLMClient interface {
	Solve(ctx context.Context, question string, contextSnippets []string) (string, error)
}

// RouterService decides which strategy answers a question. Stages are
// consulted in strict priority order; each one either succeeds, declines,
// or errors, and everything below the terminal LLM stage falls through on
// decline and error alike. Only the safety gate terminates early.
type RouterService struct {
	knowledge KnowledgeSearcher
	web       WebSearcher
	llm       LLMClient
	kbConfig  *config.KnowledgeConfig
	webLimit  int
	llmTime   time.Duration
	webTime   time.Duration
	logger    *zap.Logger
}

func NewRouterService(
	knowledge KnowledgeSearcher,
	web WebSearcher,
	llm LLMClient,
	cfg *config.Config,
	logger *zap.Logger,
) *RouterService {
	return &RouterService{
		knowledge: knowledge,
		web:       web,
		llm:       llm,
		kbConfig:  &cfg.Knowledge,
		webLimit:  cfg.WebSearch.MaxResults,
		llmTime:   cfg.LLM.Timeout,
		webTime:   cfg.WebSearch.Timeout,
		logger:    logger,
	}
}

// Route answers a question through the priority cascade. It fails only
// when the terminal LLM stage itself fails; every other stage failure is
// logged and swallowed.
func (s *RouterService) Route(ctx context.Context, question string) (*models.AnswerRecord, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	// 1. safety gate: the only stage whose rejection is final
	if solver.ContainsPromptInjection(question) {
		return &models.AnswerRecord{Source: models.SourceGuardrail, Text: unsafeInputText}, nil
	}
	if !solver.IsMathQuestion(question) {
		return &models.AnswerRecord{Source: models.SourceGuardrail, Text: notMathText}, nil
	}

	// 2. arithmetic
	if answer, ok := solver.TryArithmetic(question); ok {
		return &models.AnswerRecord{Source: models.SourceArithmetic, Text: answer}, nil
	}

	// 3. linear equation
	if answer, ok := solver.TryLinear(question); ok {
		return &models.AnswerRecord{Source: models.SourceLinear, Text: answer}, nil
	}

	// 4. derivative lookup
	if answer, ok := solver.TryDerivative(question); ok {
		return &models.AnswerRecord{Source: models.SourceDerivative, Text: answer}, nil
	}

	// 5. knowledge base
	hits, err := s.knowledge.SearchText(ctx, question, s.kbConfig.TopK)
	if err != nil {
		s.logger.Warn("Stage unavailable, falling through",
			zap.String("stage", "knowledge_base"),
			zap.Error(err),
		)
		hits = nil
	}
	if len(hits) > 0 && hits[0].Similarity > s.kbConfig.MatchThreshold {
		return &models.AnswerRecord{
			Source:     models.SourceKnowledgeBase,
			Text:       hits[0].Entry.Answer,
			Confidence: hits[0].Similarity,
		}, nil
	}

	// 6. web search; low-confidence results become LLM context
	var contextSnippets []string
	if s.web != nil {
		webCtx, cancel := context.WithTimeout(ctx, s.webTime)
		resp, err := s.web.Search(webCtx, question, s.webLimit)
		cancel()
		switch {
		case err != nil:
			s.logger.Warn("Stage unavailable, falling through",
				zap.String("stage", "web_search"),
				zap.Error(err),
			)
		case resp.Answer != "":
			return &models.AnswerRecord{Source: models.SourceWebSearch, Text: resp.Answer}, nil
		default:
			for _, hit := range resp.Results {
				if len(contextSnippets) >= maxContextHits {
					break
				}
				contextSnippets = append(contextSnippets, formatWebSnippet(hit))
			}
		}
	}

	// near-miss knowledge hits help the LLM even below the match threshold
	for i, hit := range hits {
		if i >= maxContextHits {
			break
		}
		contextSnippets = append(contextSnippets, fmt.Sprintf(
			"KB match (score=%.2f): Q: %s / A: %s",
			hit.Similarity,
			truncateWords(hit.Entry.Question, kbSnippetQuestion),
			truncateWords(hit.Entry.Answer, kbSnippetAnswer),
		))
	}

	// 7. LLM fallback, the terminal stage
	if s.llm == nil {
		return nil, fmt.Errorf("%w: no LLM configured", ErrAllStagesExhausted)
	}
	llmCtx, cancel := context.WithTimeout(ctx, s.llmTime)
	defer cancel()
	text, err := s.llm.Solve(llmCtx, question, contextSnippets)
	if err != nil {
		s.logger.Error("Terminal LLM stage failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %s", ErrAllStagesExhausted, err)
	}
	return &models.AnswerRecord{Source: models.SourceLLM, Text: text}, nil
}

func formatWebSnippet(hit WebSearchResult) string {
	return fmt.Sprintf("Source: %s (%s)\nSnippet: %s",
		hit.Title, hit.URL, truncateWords(hit.Snippet, snippetMaxLen))
}

// truncateWords shortens s to at most n bytes, cutting at the last word
// boundary and appending an ellipsis. The cut never splits a multi-byte
// rune.
func truncateWords(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	cut := s[:n]
	if idx := strings.LastIndexByte(cut, ' '); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "..."
}
