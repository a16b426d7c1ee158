package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/jinford/shop-rag/internal/core/chat"
)

// AskAction は質問応答コマンドのアクション
func AskAction(ctx context.Context, cmd *cli.Command) error {
	// フラグの取得
	showRoute := cmd.Bool("show-route")
	envFile := cmd.String("env")

	// 質問文の取得
	question := cmd.Args().First()
	if question == "" {
		return fmt.Errorf("質問文を指定してください")
	}

	slog.Info("質問応答を開始", "question", question)

	// 共通コンテキストの初期化
	appCtx, err := NewAppContext(ctx, envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	// 質問応答処理を実行
	result, err := appCtx.Container.ChatService.Answer(ctx, []chat.Message{
		{Role: chat.RoleUser, Content: question},
	})
	if err != nil {
		slog.Error("質問応答に失敗しました", "error", err)
		return err
	}

	// 結果出力
	fmt.Println(result.Content)

	// --show-routeフラグが指定されている場合、判定されたルートも出力
	if showRoute {
		route := result.Route
		if route == "" {
			route = "(なし)"
		}
		fmt.Printf("\n--- ルート: %s ---\n", route)
	}

	slog.Info("質問応答が完了しました", "route", result.Route)
	return nil
}
