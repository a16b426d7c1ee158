package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/jinford/shop-rag/internal/core/ingestion"
	"github.com/jinford/shop-rag/internal/core/retrieval"
)

// ChunkRepository は retrieval.Repository を実装する PostgreSQL リポジトリ。
// pgvector のネイティブ類似度検索を使い、候補プールを top-K に絞り込む。
type ChunkRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

type chunkRepositoryOptions struct {
	logger *slog.Logger
}

// ChunkRepositoryOption は ChunkRepository のオプション設定
type ChunkRepositoryOption func(*chunkRepositoryOptions)

// WithRepositoryLogger は ChunkRepository にロガーを設定する
func WithRepositoryLogger(logger *slog.Logger) ChunkRepositoryOption {
	return func(o *chunkRepositoryOptions) {
		o.logger = logger
	}
}

// NewChunkRepository は新しい ChunkRepository を返す
func NewChunkRepository(pool *pgxpool.Pool, opts ...ChunkRepositoryOption) *ChunkRepository {
	options := chunkRepositoryOptions{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	return &ChunkRepository{pool: pool, logger: options.logger}
}

var _ retrieval.Repository = (*ChunkRepository)(nil)
var _ ingestion.Repository = (*ChunkRepository)(nil)

// EnsureSchema は pgvector 拡張とチャンクテーブルを用意する。
// seq 列は挿入順を保持し、同点スコアの安定した順序付けに使う。
func (r *ChunkRepository) EnsureSchema(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return fmt.Errorf("dimension must be positive: %d", dimension)
	}

	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS chunks (
			id UUID PRIMARY KEY,
			seq BIGINT GENERATED ALWAYS AS IDENTITY,
			url TEXT NOT NULL,
			content TEXT NOT NULL,
			topic TEXT,
			embedding vector(%d),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, dimension),
		`CREATE INDEX IF NOT EXISTS chunks_topic_idx ON chunks (topic)`,
	}

	for _, statement := range statements {
		if _, err := r.pool.Exec(ctx, statement); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}

// Insert はチャンクを 1 件保存する。
// トリム後に空のコンテンツは保存せず、ログに記録して no-op とする。
// ID が未設定の場合は採番する。更新経路は存在しない（追記専用）。
func (r *ChunkRepository) Insert(ctx context.Context, chunk *retrieval.Chunk) error {
	if strings.TrimSpace(chunk.Content) == "" {
		r.logger.Warn("空のチャンクは保存しない", "url", chunk.URL)
		return nil
	}
	if chunk.ID == uuid.Nil {
		chunk.ID = uuid.New()
	}

	var embedding any
	if len(chunk.Embedding) > 0 {
		embedding = pgvector.NewVector(chunk.Embedding)
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO chunks (id, url, content, topic, embedding) VALUES ($1, $2, $3, $4, $5)`,
		UUIDToPgtype(chunk.ID),
		chunk.URL,
		chunk.Content,
		StringToNullableText(chunk.Topic),
		embedding,
	)
	if err != nil {
		return fmt.Errorf("failed to insert chunk: %w", err)
	}
	return nil
}

// InsertChunk は ingestion.Repository の実装
func (r *ChunkRepository) InsertChunk(ctx context.Context, chunk *retrieval.Chunk) error {
	return r.Insert(ctx, chunk)
}

// Search はクエリベクトルに類似するチャンクをスコア降順で返す。
// 内側のクエリで候補プール（Candidates 件）をコサイン距離順に取り出し、
// 外側で top-K に絞る。同点は seq（挿入順）で安定させる。
// 返却するチャンクに Embedding は含めない。
func (r *ChunkRepository) Search(ctx context.Context, params retrieval.SearchParams) ([]*retrieval.ScoredChunk, error) {
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

	rows, err := r.pool.Query(ctx,
		`SELECT id, url, content, topic, score FROM (
			SELECT id, seq, url, content, topic, 1 - (embedding <=> $1) AS score
			FROM chunks
			WHERE embedding IS NOT NULL
			  AND ($2::text IS NULL OR topic = $2)
			ORDER BY embedding <=> $1, seq
			LIMIT $3
		) AS candidates
		ORDER BY score DESC, seq
		LIMIT $4`,
		pgvector.NewVector(params.Vector),
		OptionToPgtext(params.Topic),
		candidates,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search chunks: %w", err)
	}
	defer rows.Close()

	results := make([]*retrieval.ScoredChunk, 0, limit)
	for rows.Next() {
		var (
			id    pgtype.UUID
			url   string
			text  string
			topic pgtype.Text
			score float64
		)
		if err := rows.Scan(&id, &url, &text, &topic, &score); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		results = append(results, &retrieval.ScoredChunk{
			Chunk: retrieval.Chunk{
				ID:      PgtypeToUUID(id),
				URL:     url,
				Content: text,
				Topic:   PgtextToString(topic),
			},
			Score: score,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read chunks: %w", err)
	}

	return results, nil
}
