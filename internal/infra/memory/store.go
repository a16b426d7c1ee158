package memory

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/jinford/shop-rag/internal/core/ingestion"
	"github.com/jinford/shop-rag/internal/core/retrieval"
)

// Store は retrieval.Repository のインメモリ実装。
// コサイン類似度を手動で計算してランキングするため、
// PostgreSQL を使わないテストや小規模データの検証に使える。
type Store struct {
	mu     sync.RWMutex
	chunks []*retrieval.Chunk
	logger *slog.Logger
}

type storeOptions struct {
	logger *slog.Logger
}

// StoreOption は Store のオプション設定
type StoreOption func(*storeOptions)

// WithStoreLogger は Store にロガーを設定する
func WithStoreLogger(logger *slog.Logger) StoreOption {
	return func(o *storeOptions) {
		o.logger = logger
	}
}

// NewStore は新しい Store を作成する
func NewStore(opts ...StoreOption) *Store {
	options := storeOptions{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	return &Store{logger: options.logger}
}

var _ retrieval.Repository = (*Store)(nil)
var _ ingestion.Repository = (*Store)(nil)

// Insert はチャンクを 1 件保存する。
// トリム後に空のコンテンツは保存せず no-op とする。
// 保存時はディープコピーするため、呼び出し側の変更は反映されない。
func (s *Store) Insert(_ context.Context, chunk *retrieval.Chunk) error {
	if chunk == nil {
		return fmt.Errorf("chunk must not be nil")
	}
	if strings.TrimSpace(chunk.Content) == "" {
		s.logger.Warn("空のチャンクは保存しない", "url", chunk.URL)
		return nil
	}
	if chunk.ID == uuid.Nil {
		chunk.ID = uuid.New()
	}

	stored := &retrieval.Chunk{
		ID:      chunk.ID,
		URL:     chunk.URL,
		Content: chunk.Content,
		Topic:   chunk.Topic,
	}
	if len(chunk.Embedding) > 0 {
		stored.Embedding = make([]float32, len(chunk.Embedding))
		copy(stored.Embedding, chunk.Embedding)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = append(s.chunks, stored)
	return nil
}

// InsertChunk は ingestion.Repository の実装
func (s *Store) InsertChunk(ctx context.Context, chunk *retrieval.Chunk) error {
	return s.Insert(ctx, chunk)
}

// Len は保存されているチャンク数を返す
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

// Search はクエリベクトルとの類似度をすべてのチャンクに対して計算し、
// スコア降順の top-K を返す。同点は挿入順で安定させる。
// 返却するチャンクに Embedding は含めない。
func (s *Store) Search(_ context.Context, params retrieval.SearchParams) ([]*retrieval.ScoredChunk, error) {
	if len(params.Vector) == 0 {
		return []*retrieval.ScoredChunk{}, nil
	}

	limit := params.Limit
	if limit <= 0 {
		limit = retrieval.DefaultLimit
	}
	candidates := params.Candidates
	if candidates < limit {
		candidates = limit
	}

	topic, hasTopic := params.Topic.Get()

	s.mu.RLock()
	scored := make([]*retrieval.ScoredChunk, 0, len(s.chunks))
	for _, chunk := range s.chunks {
		if len(chunk.Embedding) == 0 {
			continue
		}
		if hasTopic && chunk.Topic != topic {
			continue
		}
		scored = append(scored, &retrieval.ScoredChunk{
			Chunk: retrieval.Chunk{
				ID:      chunk.ID,
				URL:     chunk.URL,
				Content: chunk.Content,
				Topic:   chunk.Topic,
			},
			Score: cosineSimilarity(params.Vector, chunk.Embedding),
		})
	}
	s.mu.RUnlock()

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > candidates {
		scored = scored[:candidates]
	}
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

// cosineSimilarity は2つのベクトルのコサイン類似度を計算する。
// いずれかがゼロベクトルの場合は 0 を返す。
func cosineSimilarity(a, b []float32) float64 {
	length := len(a)
	if len(b) < length {
		length = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < length; i++ {
		dot += float64(a[i]) * float64(b[i])
	}
	for _, v := range a {
		normA += float64(v) * float64(v)
	}
	for _, v := range b {
		normB += float64(v) * float64(v)
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
