package ingestion

import (
	"context"

	"github.com/jinford/shop-rag/internal/core/retrieval"
)

// Repository は取り込み時のチャンク書き込みインターフェース
type Repository interface {
	// InsertChunk はチャンクを 1 件保存する
	InsertChunk(ctx context.Context, chunk *retrieval.Chunk) error
}
