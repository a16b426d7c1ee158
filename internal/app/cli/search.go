package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samber/mo"
	"github.com/urfave/cli/v3"
)

// SearchAction はベクトル検索コマンドのアクション
func SearchAction(ctx context.Context, cmd *cli.Command) error {
	// フラグの取得
	topic := cmd.String("topic")
	limit := cmd.Int("limit")
	envFile := cmd.String("env")

	// 検索クエリの取得
	query := cmd.Args().First()
	if query == "" {
		return fmt.Errorf("検索クエリを指定してください")
	}

	slog.Info("ベクトル検索を開始", "query", query, "topic", topic, "limit", limit)

	// 共通コンテキストの初期化
	appCtx, err := NewAppContext(ctx, envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	topicFilter := mo.None[string]()
	if topic != "" {
		topicFilter = mo.Some(topic)
	}

	// 検索処理を実行
	results, err := appCtx.Container.RetrievalService.Retrieve(ctx, query, limit, topicFilter)
	if err != nil {
		slog.Error("ベクトル検索に失敗しました", "error", err)
		return err
	}

	// 結果出力
	if len(results) == 0 {
		fmt.Println("該当するチャンクは見つかりませんでした")
		return nil
	}

	for i, result := range results {
		fmt.Printf("[%d] スコア: %.4f トピック: %s\n", i+1, result.Score, result.Topic)
		fmt.Printf("    %s\n", result.Content)
		fmt.Printf("    出典: %s\n", result.URL)
	}

	slog.Info("ベクトル検索が完了しました", "results", len(results))
	return nil
}
