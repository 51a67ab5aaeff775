package service

import (
	"context"
	"fmt"

	"math-routing-agent/pkg/config"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// EmbeddingService maps text to fixed-length vectors through an
// OpenAI-compatible embedding endpoint. The model name is pinned in
// configuration and stamped onto every stored entry so that a model change
// is detectable at load time.
type EmbeddingService struct {
	embedder embeddings.Embedder
	config   *config.EmbeddingConfig
	logger   *zap.Logger
}

func NewEmbeddingService(cfg *config.EmbeddingConfig, logger *zap.Logger) (*EmbeddingService, error) {
	client, err := openai.New(
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithToken(cfg.APIKey),
		openai.WithEmbeddingModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding client: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	return &EmbeddingService{
		embedder: embedder,
		config:   cfg,
		logger:   logger,
	}, nil
}

// Embed generates a vector for a single text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := s.embedder.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("embedding failed: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("embedder returned no vectors")
	}
	if err := s.checkDimensions(vectors[0]); err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch generates vectors for multiple texts in one call.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors, err := s.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("batch embedding failed: %w", err)
	}
	for _, v := range vectors {
		if err := s.checkDimensions(v); err != nil {
			return nil, err
		}
	}
	return vectors, nil
}

// checkDimensions rejects vectors that do not match the configured
// dimensionality. A mismatch means the endpoint is serving a different
// model than the one pinned in configuration.
func (s *EmbeddingService) checkDimensions(vector []float32) error {
	if s.config.Dimensions > 0 && len(vector) != s.config.Dimensions {
		return fmt.Errorf("embedding has %d dimensions, expected %d for model %s",
			len(vector), s.config.Dimensions, s.config.Model)
	}
	return nil
}

// Model returns the pinned embedding model name.
func (s *EmbeddingService) Model() string {
	return s.config.Model
}
