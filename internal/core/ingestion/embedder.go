package ingestion

import "context"

// Embedder はテキストの Embedding 生成インターフェース。
// 同一モデルバージョンに対して決定的であること（同じ入力は同じベクトル）。
//
// Embed は空・空白のみの入力に対してモデルを呼ばずに (nil, nil) を返す。
// BatchEmbed は取り込み時に使うバッチ経路であり、部分的な失敗を握り潰すと
// ストアが壊れるため、モデル障害はエラーとして伝播する。
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	BatchEmbed(ctx context.Context, texts []string) ([][]float32, error)
}
