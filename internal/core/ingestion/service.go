package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/jinford/shop-rag/internal/core/retrieval"
)

// maxEmbedBatchSize は 1 回の BatchEmbed に渡す最大件数
const maxEmbedBatchSize = 100

// Splitter はテキストをチャンクに分割するインターフェース
type Splitter interface {
	Split(text string) []string
}

// SplitterFactory はしきい値を指定して Splitter を生成する
type SplitterFactory func(threshold float64) (Splitter, error)

// Service は URL 取り込みのユースケースを提供する。
// ページ取得 → チャンク分割 → Embedding 生成 → ストア保存 の順に処理する。
type Service struct {
	provider        PageProvider
	splitterFactory SplitterFactory
	embedder        Embedder
	repository      Repository
	logger          *slog.Logger
}

type serviceOptions struct {
	logger *slog.Logger
}

// ServiceOption は Service のオプション設定
type ServiceOption func(*serviceOptions)

// WithLogger は Service にロガーを設定する
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(o *serviceOptions) {
		o.logger = logger
	}
}

// NewService は新しい Service を作成する
func NewService(
	provider PageProvider,
	splitterFactory SplitterFactory,
	embedder Embedder,
	repository Repository,
	opts ...ServiceOption,
) *Service {
	options := serviceOptions{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	return &Service{
		provider:        provider,
		splitterFactory: splitterFactory,
		embedder:        embedder,
		repository:      repository,
		logger:          options.logger,
	}
}

// IngestURLs は各 URL のページを取り込み、チャンクとしてストアへ保存する。
// トリム後に空となるチャンクはここで捨てる（Splitter は捨てない）。
// Embedding やストアの障害はエラーとして伝播する。部分的に保存済みの
// チャンクはそのまま残る（追記専用のため取り消しは行わない）。
func (s *Service) IngestURLs(ctx context.Context, params IngestParams) (*IngestResult, error) {
	if len(params.URLs) == 0 {
		return nil, fmt.Errorf("urls は必須です")
	}

	splitter, err := s.splitterFactory(params.Threshold)
	if err != nil {
		return nil, fmt.Errorf("failed to create splitter: %w", err)
	}

	totalChunks := 0
	for _, url := range params.URLs {
		count, err := s.ingestURL(ctx, splitter, url, params.Topic)
		if err != nil {
			return nil, fmt.Errorf("failed to ingest %s: %w", url, err)
		}
		totalChunks += count
	}

	s.logger.Info("取り込みが完了",
		"urls", len(params.URLs),
		"topic", params.Topic,
		"totalChunks", totalChunks,
	)

	return &IngestResult{
		Status:      "ok",
		URLs:        params.URLs,
		TotalChunks: totalChunks,
	}, nil
}

func (s *Service) ingestURL(ctx context.Context, splitter Splitter, url, topic string) (int, error) {
	text, err := s.provider.FetchPage(ctx, url)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch page: %w", err)
	}

	chunks := make([]string, 0)
	for _, chunk := range splitter.Split(text) {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		chunks = append(chunks, chunk)
	}

	if len(chunks) == 0 {
		s.logger.Warn("チャンクが得られなかったためスキップ", "url", url)
		return 0, nil
	}

	embeddings, err := s.batchEmbed(ctx, chunks)
	if err != nil {
		return 0, fmt.Errorf("failed to embed chunks: %w", err)
	}

	inserted := 0
	for i, content := range chunks {
		if len(embeddings[i]) == 0 {
			s.logger.Warn("空の Embedding を検出したためスキップ", "url", url, "ordinal", i)
			continue
		}
		chunk := &retrieval.Chunk{
			ID:        uuid.New(),
			URL:       url,
			Content:   content,
			Topic:     topic,
			Embedding: embeddings[i],
		}
		if err := s.repository.InsertChunk(ctx, chunk); err != nil {
			return inserted, fmt.Errorf("failed to insert chunk: %w", err)
		}
		inserted++
	}

	s.logger.Info("ページを取り込み",
		"url", url,
		"chunks", inserted,
	)

	return inserted, nil
}

// batchEmbed はチャンクを maxEmbedBatchSize ごとに分けて Embedding を生成する
func (s *Service) batchEmbed(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += maxEmbedBatchSize {
		end := start + maxEmbedBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch, err := s.embedder.BatchEmbed(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		if len(batch) != end-start {
			return nil, fmt.Errorf("embedding count mismatch: got %d, want %d", len(batch), end-start)
		}
		embeddings = append(embeddings, batch...)
	}
	return embeddings, nil
}
