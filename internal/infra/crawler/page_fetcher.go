package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jinford/shop-rag/internal/core/ingestion"
)

const (
	// DefaultFetchTimeout はページ取得のデフォルトタイムアウト
	DefaultFetchTimeout = 30 * time.Second

	// defaultUserAgent はページ取得時に送る User-Agent
	defaultUserAgent = "shop-rag-crawler/1.0"
)

// PageFetcher は商品レビューページを取得し本文テキストを抽出する。
// レビュータイトル（div.review-title 内の h1 と p）と
// 記事本文（.ck-content 直下の h2/h3/p と ul>li）のみを対象とし、
// ナビゲーションや広告などのノイズは拾わない。
type PageFetcher struct {
	client *http.Client
	logger *slog.Logger
}

type pageFetcherOptions struct {
	client *http.Client
	logger *slog.Logger
}

// PageFetcherOption は PageFetcher のオプション設定
type PageFetcherOption func(*pageFetcherOptions)

// WithHTTPClient は PageFetcher に HTTP クライアントを設定する
func WithHTTPClient(client *http.Client) PageFetcherOption {
	return func(o *pageFetcherOptions) {
		o.client = client
	}
}

// WithFetcherLogger は PageFetcher にロガーを設定する
func WithFetcherLogger(logger *slog.Logger) PageFetcherOption {
	return func(o *pageFetcherOptions) {
		o.logger = logger
	}
}

// NewPageFetcher は新しい PageFetcher を作成する
func NewPageFetcher(opts ...PageFetcherOption) *PageFetcher {
	options := pageFetcherOptions{
		client: &http.Client{Timeout: DefaultFetchTimeout},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.client == nil {
		options.client = &http.Client{Timeout: DefaultFetchTimeout}
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	return &PageFetcher{client: options.client, logger: options.logger}
}

var _ ingestion.PageProvider = (*PageFetcher)(nil)

// FetchPage は URL のページを取得し、抽出した本文テキストを返す。
// 対象要素が存在しないページでは空文字列を返す（エラーにはしない）。
func (f *PageFetcher) FetchPage(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	text := extractContent(doc)
	f.logger.Debug("ページを取得した", "url", url, "content_length", len(text))
	return text, nil
}

// extractContent はドキュメントから本文テキストを組み立てる
func extractContent(doc *goquery.Document) string {
	var builder strings.Builder

	doc.Find("div.review-title").First().Each(func(_ int, title *goquery.Selection) {
		if h1 := title.Find("h1").First(); h1.Length() > 0 {
			appendLine(&builder, h1.Text())
		}
		title.Find("p").Each(func(_ int, p *goquery.Selection) {
			appendLine(&builder, p.Text())
		})
	})

	doc.Find(".ck-content").Each(func(_ int, content *goquery.Selection) {
		content.Children().Each(func(_ int, el *goquery.Selection) {
			switch goquery.NodeName(el) {
			case "h2", "h3", "p":
				appendLine(&builder, el.Text())
			case "ul":
				el.Find("li").Each(func(_ int, li *goquery.Selection) {
					item := strings.Join(strings.Fields(li.Text()), " ")
					if item != "" {
						builder.WriteString("- " + item + "\n")
					}
				})
			}
		})
	})

	return builder.String()
}

func appendLine(builder *strings.Builder, text string) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return
	}
	builder.WriteString(trimmed + "\n")
}
