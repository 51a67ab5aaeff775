package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"math-routing-agent/internal/repository"
	"math-routing-agent/internal/service"
	"math-routing-agent/pkg/config"
	"math-routing-agent/pkg/logger"
	"math-routing-agent/pkg/postgres"

	"go.uber.org/zap"
)

// defaultCorpus is the built-in sample set, used when no seed file is given.
var defaultCorpus = []service.QAPair{
	{Question: "What is 2+2?", Answer: "2 + 2 = 4. Explanation: 2 plus 2 equals 4."},
	{Question: "Solve 2x + 5 = 15", Answer: "Step 1: subtract 5 => 2x = 10. Step 2: divide by 2 => x = 5."},
	{Question: "Derivative of x^2", Answer: "Derivative of x^2 with respect to x is 2x."},
	{Question: "What is the square root of 16?", Answer: "The square root of 16 is 4."},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	kbRepo := repository.NewKBRepository(db, appLogger)
	if err := kbRepo.Init(ctx); err != nil {
		appLogger.Fatal("Failed to ensure knowledge base schema", zap.Error(err))
	}

	embeddingService, err := service.NewEmbeddingService(&cfg.Embedding, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize embedding service", zap.Error(err))
	}

	knowledgeService := service.NewKnowledgeService(kbRepo, embeddingService, &cfg.Knowledge, appLogger)
	if err := knowledgeService.Load(ctx); err != nil {
		appLogger.Fatal("Failed to load knowledge base", zap.Error(err))
	}

	corpus, err := loadCorpus(os.Getenv("SEED_FILE"))
	if err != nil {
		appLogger.Fatal("Failed to load seed corpus", zap.Error(err))
	}

	appLogger.Info("Seeding knowledge base", zap.Int("corpus_size", len(corpus)))

	added, err := knowledgeService.BulkLoad(ctx, corpus)
	if err != nil {
		appLogger.Fatal("Seeding failed", zap.Int("added_before_failure", added), zap.Error(err))
	}

	appLogger.Info("Seeding completed",
		zap.Int("added", added),
		zap.Int("skipped", len(corpus)-added),
		zap.Int("total_entries", knowledgeService.Size()),
	)
}

// loadCorpus reads question/answer pairs from a JSON file, falling back to
// the built-in sample corpus when path is empty.
func loadCorpus(path string) ([]service.QAPair, error) {
	if path == "" {
		return defaultCorpus, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var corpus []service.QAPair
	if err := json.Unmarshal(data, &corpus); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	if len(corpus) == 0 {
		return nil, fmt.Errorf("seed file %s contains no entries", path)
	}
	return corpus, nil
}
