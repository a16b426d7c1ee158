package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"
)

// RouteAction はルート判定コマンドのアクション
func RouteAction(ctx context.Context, cmd *cli.Command) error {
	envFile := cmd.String("env")

	// クエリの取得
	query := cmd.Args().First()
	if query == "" {
		return fmt.Errorf("判定するクエリを指定してください")
	}

	slog.Info("ルート判定を開始", "query", query)

	// 共通コンテキストの初期化
	appCtx, err := NewAppContext(ctx, envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	// 判定処理を実行
	match, err := appCtx.Container.RouterService.Classify(ctx, query)
	if err != nil {
		slog.Error("ルート判定に失敗しました", "error", err)
		return err
	}

	// 結果出力
	if m, ok := match.Get(); ok {
		fmt.Printf("ルート: %s (スコア: %.4f)\n", m.Name, m.Score)
	} else {
		fmt.Println("該当するルートはありません")
	}

	slog.Info("ルート判定が完了しました")
	return nil
}
