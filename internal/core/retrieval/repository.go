package retrieval

import (
	"context"
)

// Repository はチャンクの永続化とベクトル検索を提供するインターフェース。
// Insert が唯一の書き込み経路であり、既存チャンクの更新は行わない。
// トリム後に空のコンテンツは各実装が保存せずに無視する。
// Search はスコア降順で結果を返し、同点は挿入順で安定させる。
type Repository interface {
	// Insert はチャンクを 1 件保存する。ID が未設定の場合は採番する
	Insert(ctx context.Context, chunk *Chunk) error

	// Search はクエリベクトルに類似するチャンクを検索する
	Search(ctx context.Context, params SearchParams) ([]*ScoredChunk, error)
}
