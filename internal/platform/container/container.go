package container

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jinford/shop-rag/internal/core/chat"
	"github.com/jinford/shop-rag/internal/core/chunk"
	"github.com/jinford/shop-rag/internal/core/ingestion"
	"github.com/jinford/shop-rag/internal/core/retrieval"
	"github.com/jinford/shop-rag/internal/core/router"
	"github.com/jinford/shop-rag/internal/infra/crawler"
	"github.com/jinford/shop-rag/internal/infra/openai"
	"github.com/jinford/shop-rag/internal/infra/postgres"
	"github.com/jinford/shop-rag/internal/platform/config"
	"github.com/jinford/shop-rag/internal/platform/database"
)

// ServiceContainer はアプリケーションの依存関係を保持する。
// グローバルな状態は持たず、必要なサービスはすべてここから取り出す。
type ServiceContainer struct {
	IngestionService *ingestion.Service
	RetrievalService *retrieval.Service
	RouterService    *router.SemanticRouter
	ChatService      *chat.Service
	ChunkRepository  *postgres.ChunkRepository

	logger   *slog.Logger
	database *database.Database
}

type containerOptions struct {
	logger       *slog.Logger
	embedder     Embedder
	llmClient    chat.LLMClient
	pageProvider ingestion.PageProvider
	routes       []router.Route
}

// Embedder は取り込み・検索・ルーティングで共有する Embedding クライアント
type Embedder interface {
	ingestion.Embedder
	retrieval.Embedder
	router.Embedder
}

// ContainerOption は ServiceContainer 構築時のオプション
type ContainerOption func(*containerOptions)

// WithContainerLogger はロガーを差し替える
func WithContainerLogger(logger *slog.Logger) ContainerOption {
	return func(opts *containerOptions) {
		opts.logger = logger
	}
}

// WithContainerEmbedder はカスタム Embedder を注入する
func WithContainerEmbedder(embedder Embedder) ContainerOption {
	return func(opts *containerOptions) {
		opts.embedder = embedder
	}
}

// WithContainerLLMClient は LLM クライアントを差し替える
func WithContainerLLMClient(client chat.LLMClient) ContainerOption {
	return func(opts *containerOptions) {
		opts.llmClient = client
	}
}

// WithContainerPageProvider は PageProvider を差し替える
func WithContainerPageProvider(provider ingestion.PageProvider) ContainerOption {
	return func(opts *containerOptions) {
		opts.pageProvider = provider
	}
}

// WithContainerRoutes はルート定義を差し替える
func WithContainerRoutes(routes []router.Route) ContainerOption {
	return func(opts *containerOptions) {
		opts.routes = routes
	}
}

// NewContainer は設定からコンテナを生成する。
// ルーターのサンプル Embedding は起動時に一度だけ計算する。
func NewContainer(ctx context.Context, cfg *config.Config, opts ...ContainerOption) (*ServiceContainer, error) {
	db, err := database.New(ctx, database.ConnectionParams{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		return nil, fmt.Errorf("データベース初期化に失敗しました: %w", err)
	}

	container, err := NewContainerWithDB(ctx, cfg, db, opts...)
	if err != nil {
		db.Close()
		return nil, err
	}
	return container, nil
}

// NewContainerWithDB は既存の Database を受け取りコンテナを生成する。
func NewContainerWithDB(ctx context.Context, cfg *config.Config, db *database.Database, opts ...ContainerOption) (*ServiceContainer, error) {
	options := containerOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(&options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	// Embedder (OpenAI)
	embedder := options.embedder
	if embedder == nil {
		embedder = openai.NewEmbedder(
			cfg.OpenAI.APIKey,
			openai.WithEmbeddingModel(cfg.OpenAI.EmbeddingModel),
			openai.WithEmbeddingDimension(cfg.OpenAI.EmbeddingDimension),
		)
	}

	// LLMClient (OpenAI)
	llmClient := options.llmClient
	if llmClient == nil {
		client, err := openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.ChatModel)
		if err != nil {
			return nil, fmt.Errorf("OpenAI クライアント初期化に失敗しました: %w", err)
		}
		llmClient = client
	}

	// PageProvider (クローラー)
	pageProvider := options.pageProvider
	if pageProvider == nil {
		pageProvider = crawler.NewPageFetcher(crawler.WithFetcherLogger(options.logger))
	}

	// Repository (PostgreSQL + pgvector)
	chunkRepo := postgres.NewChunkRepository(db.Pool, postgres.WithRepositoryLogger(options.logger))
	if err := chunkRepo.EnsureSchema(ctx, cfg.OpenAI.EmbeddingDimension); err != nil {
		return nil, fmt.Errorf("スキーマ初期化に失敗しました: %w", err)
	}

	// SplitterFactory（しきい値未指定時は設定値を使う）
	chunking := cfg.Chunking
	splitterFactory := func(threshold float64) (ingestion.Splitter, error) {
		if threshold <= 0 {
			threshold = chunking.SimilarityThreshold
		}
		return chunk.NewSemanticSplitter(
			chunk.WithSimilarityThreshold(threshold),
			chunk.WithMaxTokens(chunking.MaxTokens),
		)
	}

	// IngestionService
	ingestionService := ingestion.NewService(
		pageProvider,
		splitterFactory,
		embedder,
		chunkRepo,
		ingestion.WithLogger(options.logger),
	)

	// RetrievalService
	retrievalService := retrieval.NewService(
		chunkRepo,
		embedder,
		retrieval.WithCandidates(cfg.Retrieval.Candidates),
		retrieval.WithLogger(options.logger),
	)

	// SemanticRouter（サンプル Embedding は起動時に計算）
	routes := options.routes
	if routes == nil {
		routes = router.DefaultRoutes()
	}
	semanticRouter, err := router.NewSemanticRouter(ctx, embedder, routes, router.WithRouterLogger(options.logger))
	if err != nil {
		return nil, fmt.Errorf("ルーター初期化に失敗しました: %w", err)
	}

	// ChatService
	chatService := chat.NewService(
		semanticRouter,
		retrievalService,
		llmClient,
		chat.WithLogger(options.logger),
	)

	return &ServiceContainer{
		IngestionService: ingestionService,
		RetrievalService: retrievalService,
		RouterService:    semanticRouter,
		ChatService:      chatService,
		ChunkRepository:  chunkRepo,
		logger:           options.logger,
		database:         db,
	}, nil
}

// Close は内部リソースを解放する。
func (c *ServiceContainer) Close() {
	if c != nil && c.database != nil {
		c.database.Close()
	}
}

// Logger はロガーを返す。
func (c *ServiceContainer) Logger() *slog.Logger {
	if c == nil || c.logger == nil {
		return slog.Default()
	}
	return c.logger
}

// Database はデータベースを返す。
func (c *ServiceContainer) Database() *database.Database {
	if c == nil {
		return nil
	}
	return c.database
}
