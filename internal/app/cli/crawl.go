package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/jinford/shop-rag/internal/core/ingestion"
)

// CrawlAction はページ取り込みコマンドのアクション
func CrawlAction(ctx context.Context, cmd *cli.Command) error {
	// フラグの取得
	topic := cmd.String("topic")
	threshold := cmd.Float("threshold")
	envFile := cmd.String("env")

	// URL一覧の取得
	urls := cmd.Args().Slice()
	if len(urls) == 0 {
		return fmt.Errorf("取り込む URL を1つ以上指定してください")
	}

	slog.Info("ページ取り込みを開始",
		"topic", topic,
		"threshold", threshold,
		"urls", len(urls),
	)

	// 共通コンテキストの初期化
	appCtx, err := NewAppContext(ctx, envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	// 取り込み処理を実行
	result, err := appCtx.Container.IngestionService.IngestURLs(ctx, ingestion.IngestParams{
		URLs:      urls,
		Topic:     topic,
		Threshold: threshold,
	})
	if err != nil {
		slog.Error("ページ取り込みに失敗しました", "error", err)
		return err
	}

	// 結果出力
	fmt.Printf("取り込み完了: %d URL, %d チャンク\n", len(result.URLs), result.TotalChunks)
	for _, url := range result.URLs {
		fmt.Printf("  - %s\n", url)
	}

	slog.Info("ページ取り込みが完了しました", "total_chunks", result.TotalChunks)
	return nil
}
