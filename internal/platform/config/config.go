package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/jinford/shop-rag/internal/core/chunk"
	"github.com/jinford/shop-rag/internal/core/retrieval"
	"github.com/jinford/shop-rag/internal/infra/openai"
)

// Config はアプリケーション全体の設定を保持します
type Config struct {
	// Database設定
	Database DatabaseConfig

	// OpenAI設定（Embeddings + Chat用）
	OpenAI OpenAIConfig

	// チャンク分割設定
	Chunking ChunkingConfig

	// 検索設定
	Retrieval RetrievalConfig

	// ログ設定
	Log LogConfig
}

// DatabaseConfig はデータベース接続設定
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// OpenAIConfig はOpenAI API設定（Embeddings + Chat）
type OpenAIConfig struct {
	APIKey             string
	EmbeddingModel     string
	EmbeddingDimension int
	ChatModel          string // チャット補完に使用するモデル名
}

// ChunkingConfig はセマンティックチャンク分割の設定
type ChunkingConfig struct {
	SimilarityThreshold float64 // 隣接文の結合しきい値
	MaxTokens           int     // 1チャンクあたりの最大トークン数（0で無効）
}

// RetrievalConfig はベクトル検索の設定
type RetrievalConfig struct {
	Limit      int // 最終的に返す件数
	Candidates int // 候補プールの件数
}

// LogConfig はログ出力の設定
type LogConfig struct {
	Level  string // "debug" / "info" / "warn" / "error"
	Format string // "json" or "text"
}

// Load は環境変数または.envファイルから設定を読み込みます
func Load(envFilePath string) (*Config, error) {
	// .envファイルが存在する場合は読み込む
	if envFilePath != "" {
		if err := godotenv.Load(envFilePath); err != nil {
			// ファイルが存在しない場合はエラーとしない（環境変数のみで動作可能）
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to load .env file: %w", err)
			}
		}
	}

	cfg := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "shoprag"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "shoprag"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		OpenAI: OpenAIConfig{
			APIKey:             getEnv("OPENAI_API_KEY", ""),
			EmbeddingModel:     getEnv("OPENAI_EMBEDDING_MODEL", openai.DefaultEmbeddingModel),
			EmbeddingDimension: getEnvAsInt("OPENAI_EMBEDDING_DIMENSION", openai.DefaultEmbeddingDimension),
			ChatModel:          getEnv("OPENAI_CHAT_MODEL", openai.DefaultChatModel),
		},
		Chunking: ChunkingConfig{
			SimilarityThreshold: getEnvAsFloat("CHUNK_SIMILARITY_THRESHOLD", chunk.DefaultSimilarityThreshold),
			MaxTokens:           getEnvAsInt("CHUNK_MAX_TOKENS", chunk.DefaultMaxTokens),
		},
		Retrieval: RetrievalConfig{
			Limit:      getEnvAsInt("RETRIEVAL_LIMIT", retrieval.DefaultLimit),
			Candidates: getEnvAsInt("RETRIEVAL_CANDIDATES", retrieval.DefaultCandidates),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	return cfg, nil
}

// getEnv は環境変数を取得し、存在しない場合はデフォルト値を返します
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt は環境変数を整数として取得します
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsFloat は環境変数を浮動小数点数として取得します
func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}
