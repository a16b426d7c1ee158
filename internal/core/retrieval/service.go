package retrieval

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samber/mo"
)

const (
	// DefaultLimit は検索結果件数の既定値
	DefaultLimit = 5

	// DefaultCandidates は近似検索の候補プールサイズの既定値
	DefaultCandidates = 100
)

// Embedder はクエリの Embedding 生成インターフェース。
// 空文字・空白のみの入力ではモデルを呼ばずに (nil, nil) を返す。
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Service はベクトル検索のビジネスロジックを提供する
type Service struct {
	repo       Repository
	embedder   Embedder
	candidates int
	logger     *slog.Logger
}

type serviceOptions struct {
	candidates int
	logger     *slog.Logger
}

// ServiceOption は Service のオプション設定
type ServiceOption func(*serviceOptions)

// WithCandidates は候補プールサイズを上書きする
func WithCandidates(candidates int) ServiceOption {
	return func(o *serviceOptions) {
		o.candidates = candidates
	}
}

// WithLogger は Service にロガーを設定する
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(o *serviceOptions) {
		o.logger = logger
	}
}

// NewService は新しい Service を作成する
func NewService(repo Repository, embedder Embedder, opts ...ServiceOption) *Service {
	options := serviceOptions{
		candidates: DefaultCandidates,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.candidates <= 0 {
		options.candidates = DefaultCandidates
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	return &Service{
		repo:       repo,
		embedder:   embedder,
		candidates: options.candidates,
		logger:     options.logger,
	}
}

// Retrieve はクエリを Embedding に変換し、類似チャンクをスコア降順で返す。
// 空のクエリは「シグナルなし」として空の結果を返す（エラーではない）。
// Embedder やストアの障害はエラーとして伝播し、結果 0 件とは区別される。
func (s *Service) Retrieve(ctx context.Context, query string, limit int, topic mo.Option[string]) ([]*ScoredChunk, error) {
	queryVector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(queryVector) == 0 {
		s.logger.Info("クエリの Embedding が空のため検索をスキップ", "query", query)
		return []*ScoredChunk{}, nil
	}

	if limit <= 0 {
		limit = DefaultLimit
	}

	candidates := s.candidates
	if candidates < limit {
		candidates = limit
	}

	results, err := s.repo.Search(ctx, SearchParams{
		Vector:     queryVector,
		Limit:      limit,
		Candidates: candidates,
		Topic:      topic,
	})
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	s.logger.Info("ベクトル検索が完了",
		"query", query,
		"limit", limit,
		"results", len(results),
	)

	return results, nil
}
