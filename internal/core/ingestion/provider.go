package ingestion

import "context"

// PageProvider は商品ページの本文テキストを取得するインターフェース。
// クローラーの実装詳細（HTML 抽出など）は infra 側が担う。
type PageProvider interface {
	FetchPage(ctx context.Context, url string) (string, error)
}
