package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Embedding EmbeddingConfig
	LLM       LLMConfig
	WebSearch WebSearchConfig
	Knowledge KnowledgeConfig
	Logger    LoggerConfig
}

type LoggerConfig struct {
	Level string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// EmbeddingConfig points at an OpenAI-compatible embedding endpoint.
// Model and Dimensions are pinned: every stored vector carries the model
// name, and entries embedded under a different model are refused at load.
type EmbeddingConfig struct {
	BaseURL    string
	APIKey     string
	Model      string
	Dimensions int
}

type LLMConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float32
	Timeout     time.Duration
}

type WebSearchConfig struct {
	APIKey     string
	BaseURL    string
	Depth      string
	MaxResults int
	Timeout    time.Duration
}

// KnowledgeConfig carries the similarity thresholds of the routing pipeline.
// MatchThreshold is the minimum cosine similarity for a knowledge-base hit to
// answer a question; DedupThreshold (stricter) decides when an upsert updates
// an existing entry instead of inserting a new one.
type KnowledgeConfig struct {
	MatchThreshold float64
	DedupThreshold float64
	TopK           int
}

func Load() (*Config, error) {
	// Try to load .env file from current directory or project root
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}
	// No .env file is fine: environment variables are used directly
	// (useful for Docker/K8s)

	readTimeout, _ := strconv.Atoi(getEnv("SERVER_READ_TIMEOUT", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("SERVER_WRITE_TIMEOUT", "30"))
	embeddingDims, _ := strconv.Atoi(getEnv("EMBEDDING_DIMENSIONS", "384"))
	llmMaxTokens, _ := strconv.Atoi(getEnv("GROQ_MAX_TOKENS", "700"))
	llmTemperature := getEnvFloat("GROQ_TEMPERATURE", 0.05)
	llmTimeout, _ := strconv.Atoi(getEnv("GROQ_TIMEOUT", "60"))
	searchTimeout, _ := strconv.Atoi(getEnv("TAVILY_TIMEOUT", "15"))
	searchLimit, _ := strconv.Atoi(getEnv("TAVILY_MAX_RESULTS", "3"))
	matchThreshold := getEnvFloat("KB_MATCH_THRESHOLD", 0.85)
	dedupThreshold := getEnvFloat("KB_DEDUP_THRESHOLD", 0.92)
	topK, _ := strconv.Atoi(getEnv("KB_TOP_K", "5"))

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "math_agent"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Embedding: EmbeddingConfig{
			BaseURL:    getEnv("EMBEDDING_BASE_URL", "http://localhost:8081/v1"),
			APIKey:     getEnv("EMBEDDING_API_KEY", "none"),
			Model:      getEnv("EMBEDDING_MODEL", "all-MiniLM-L6-v2"),
			Dimensions: embeddingDims,
		},
		LLM: LLMConfig{
			APIKey:      getEnv("GROQ_API_KEY", ""),
			BaseURL:     getEnv("GROQ_API_BASE", "https://api.groq.com/openai/v1"),
			Model:       getEnv("GROQ_MODEL", "openai/gpt-oss-20b"),
			MaxTokens:   llmMaxTokens,
			Temperature: float32(llmTemperature),
			Timeout:     time.Duration(llmTimeout) * time.Second,
		},
		WebSearch: WebSearchConfig{
			APIKey:     getEnv("TAVILY_API_KEY", ""),
			BaseURL:    getEnv("TAVILY_API_BASE", "https://api.tavily.com"),
			Depth:      getEnv("TAVILY_SEARCH_DEPTH", "basic"),
			MaxResults: searchLimit,
			Timeout:    time.Duration(searchTimeout) * time.Second,
		},
		Knowledge: KnowledgeConfig{
			MatchThreshold: matchThreshold,
			DedupThreshold: dedupThreshold,
			TopK:           topK,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
