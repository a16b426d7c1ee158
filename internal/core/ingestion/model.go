package ingestion

// IngestParams は URL 取り込みのパラメータを表す
type IngestParams struct {
	URLs      []string // 取り込み対象の商品ページ URL
	Topic     string   // 取り込むチャンクに付与するトピックラベル
	Threshold float64  // チャンク分割の類似度しきい値（0 以下で既定値）
}

// IngestResult は取り込み処理の結果を表す
type IngestResult struct {
	Status      string   `json:"status"`
	URLs        []string `json:"urls"`
	TotalChunks int      `json:"totalChunks"`
}
