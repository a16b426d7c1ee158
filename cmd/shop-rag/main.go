package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	appcli "github.com/jinford/shop-rag/internal/app/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 構造化ログの設定
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	app := &cli.Command{
		Name:  "shop-rag",
		Usage: "商品ページ向け RAG 検索およびチャット応答システム",
		Commands: []*cli.Command{
			{
				Name:      "crawl",
				Usage:     "商品ページを取り込みチャンクとして保存",
				ArgsUsage: "<url> [<url>...]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "env",
						Usage: "環境変数ファイルパス",
						Value: ".env",
					},
					&cli.StringFlag{
						Name:     "topic",
						Usage:    "チャンクに付与するトピック (例: products)",
						Required: true,
					},
					&cli.FloatFlag{
						Name:  "threshold",
						Usage: "チャンク分割の類似度しきい値（省略時は設定値）",
					},
				},
				Action: appcli.CrawlAction,
			},
			{
				Name:      "search",
				Usage:     "クエリに類似するチャンクを検索",
				ArgsUsage: "<query>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "env",
						Usage: "環境変数ファイルパス",
						Value: ".env",
					},
					&cli.StringFlag{
						Name:  "topic",
						Usage: "トピックで絞り込み",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "取得件数（省略時は設定値）",
					},
				},
				Action: appcli.SearchAction,
			},
			{
				Name:      "route",
				Usage:     "クエリのルートを判定",
				ArgsUsage: "<query>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "env",
						Usage: "環境変数ファイルパス",
						Value: ".env",
					},
				},
				Action: appcli.RouteAction,
			},
			{
				Name:      "ask",
				Usage:     "質問に対してチャット応答を生成",
				ArgsUsage: "<question>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "env",
						Usage: "環境変数ファイルパス",
						Value: ".env",
					},
					&cli.BoolFlag{
						Name:  "show-route",
						Usage: "判定されたルートも表示",
					},
				},
				Action: appcli.AskAction,
			},
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
