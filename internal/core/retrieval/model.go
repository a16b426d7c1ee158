package retrieval

import (
	"github.com/google/uuid"
	"github.com/samber/mo"
)

// Chunk は永続化されるドキュメント断片を表す。
// Embedding の次元数はストア内で一定であり、挿入後の更新は行わない（追記専用）。
type Chunk struct {
	ID        uuid.UUID `json:"id"`
	URL       string    `json:"url"`
	Content   string    `json:"content"`
	Topic     string    `json:"topic,omitempty"`
	Embedding []float32 `json:"embedding,omitempty"`
}

// ScoredChunk は類似度スコア付きの検索結果を表す。
// Score はコサイン類似度で [-1, 1] の範囲をとる。
// 検索結果の Embedding は返却前に取り除かれる。
type ScoredChunk struct {
	Chunk
	Score float64 `json:"score"`
}

// SearchParams はベクトル検索のパラメータを表す
type SearchParams struct {
	Vector     []float32          // クエリベクトル
	Limit      int                // 返却する最大件数
	Candidates int                // 近似検索の候補プールサイズ（Limit より十分大きい値）
	Topic      mo.Option[string]  // トピックによる完全一致の事前フィルタ
}
