package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"math-routing-agent/internal/api"
	"math-routing-agent/internal/api/handlers"
	"math-routing-agent/internal/repository"
	"math-routing-agent/internal/service"
	"math-routing-agent/pkg/config"
	"math-routing-agent/pkg/logger"
	"math-routing-agent/pkg/postgres"

	"go.uber.org/zap"
)

// @title Math Routing Agent API
// @version 1.0
// @description Answers free-text math questions through a cascade of solving strategies and learns from user corrections

// @host localhost:8080
// @BasePath /api

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting Math Routing Agent")

	// Initialize database
	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Initialize repositories
	kbRepo := repository.NewKBRepository(db, appLogger)
	feedbackRepo := repository.NewFeedbackRepository(db, appLogger)

	if err := kbRepo.Init(ctx); err != nil {
		appLogger.Fatal("Failed to ensure knowledge base schema", zap.Error(err))
	}
	if err := feedbackRepo.Init(ctx); err != nil {
		appLogger.Fatal("Failed to ensure feedback schema", zap.Error(err))
	}

	// Initialize services
	embeddingService, err := service.NewEmbeddingService(&cfg.Embedding, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize embedding service", zap.Error(err))
	}

	knowledgeService := service.NewKnowledgeService(kbRepo, embeddingService, &cfg.Knowledge, appLogger)
	if err := knowledgeService.Load(ctx); err != nil {
		appLogger.Fatal("Failed to load knowledge base", zap.Error(err))
	}

	webSearchService := service.NewWebSearchService(&cfg.WebSearch, appLogger)

	// The LLM stage is the terminal fallback; without it the cascade can
	// still answer deterministic and knowledge-base questions.
	var llmService service.LLMClient
	if llm, err := service.NewLLMService(&cfg.LLM, appLogger); err != nil {
		appLogger.Warn("LLM fallback disabled", zap.Error(err))
	} else {
		llmService = llm
	}

	routerService := service.NewRouterService(knowledgeService, webSearchService, llmService, cfg, appLogger)
	feedbackService := service.NewFeedbackService(feedbackRepo, knowledgeService, appLogger)

	// Initialize handlers
	askHandler := handlers.NewAskHandler(routerService, appLogger)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackService, appLogger)
	debugHandler := handlers.NewDebugHandler(knowledgeService, kbRepo, cfg.Embedding.Model, appLogger)

	// Setup router
	app := api.SetupRouter(&cfg.Server, askHandler, feedbackHandler, debugHandler)

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
