package service

import (
	"context"
	"fmt"
	"strings"

	"math-routing-agent/pkg/config"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const tutorSystemPrompt = "You are a precise math tutor. Answer exactly as numbered steps only. " +
	"Do NOT include titles/headings/extra commentary. Example:\n" +
	"1. Step one\n2. Step two\n3. Final answer: x = 2\nReturn only the steps and final answer."

// LLMService is the terminal fallback of the routing pipeline. It talks to
// any OpenAI-compatible chat completion endpoint (Groq by default).
type LLMService struct {
	client *openai.Client
	config *config.LLMConfig
	logger *zap.Logger
}

func NewLLMService(cfg *config.LLMConfig, logger *zap.Logger) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("LLM API key is not configured")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	logger.Info("LLM client initialized",
		zap.String("base_url", clientConfig.BaseURL),
		zap.String("model", cfg.Model),
	)

	return &LLMService{
		client: openai.NewClientWithConfig(clientConfig),
		config: cfg,
		logger: logger,
	}, nil
}

// Solve asks the model to solve or explain the question. Context snippets
// gathered by earlier stages (web hits, near-miss knowledge-base matches)
// are passed as a separate user message so the model can draw on them
// without repeating them verbatim.
func (s *LLMService) Solve(ctx context.Context, question string, contextSnippets []string) (string, error) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: tutorSystemPrompt},
	}

	if len(contextSnippets) > 0 {
		ctxText := "Related snippets for context (do not repeat verbatim):\n" +
			strings.Join(contextSnippets, "\n\n")
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleUser,
			Content: ctxText,
		})
	}

	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: "Solve or explain: " + question,
	})

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.config.Model,
		Messages:    messages,
		Temperature: s.config.Temperature,
		MaxTokens:   s.config.MaxTokens,
		N:           1,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("LLM returned no choices")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	// models occasionally wrap the whole reply in bold markers
	if strings.HasPrefix(text, "**") && strings.HasSuffix(text, "**") {
		text = strings.TrimSpace(strings.Trim(text, "*"))
	}
	return text, nil
}
