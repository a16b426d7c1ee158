package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/samber/mo"

	"github.com/jinford/shop-rag/internal/core/retrieval"
	"github.com/jinford/shop-rag/internal/core/router"
)

// ErrNoUserMessage はユーザーメッセージが含まれない会話に対するエラー
var ErrNoUserMessage = errors.New("no user message in conversation")

// productContextLimit は商品相談時に取得するチャンク数。
// 通常の検索既定値（5）より広めにコンテキストを集める。
const productContextLimit = 10

// Retriever はベクトル検索インターフェース
type Retriever interface {
	Retrieve(ctx context.Context, query string, limit int, topic mo.Option[string]) ([]*retrieval.ScoredChunk, error)
}

// Classifier はクエリのルート分類インターフェース
type Classifier interface {
	Classify(ctx context.Context, query string) (mo.Option[router.RouteMatch], error)
}

// Service はチャット応答のユースケースを提供する。
// クエリをルーターで分類し、商品相談なら検索コンテキスト付きプロンプトを
// 組み立てて LLM に渡す。それ以外は会話をそのまま LLM に渡す。
type Service struct {
	classifier Classifier
	retriever  Retriever
	llm        LLMClient
	logger     *slog.Logger
}

type serviceOptions struct {
	logger *slog.Logger
}

// ServiceOption は Service のオプション設定
type ServiceOption func(*serviceOptions)

// WithLogger は Service にロガーを設定する
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(o *serviceOptions) {
		o.logger = logger
	}
}

// NewService は新しい Service を作成する
func NewService(classifier Classifier, retriever Retriever, llm LLMClient, opts ...ServiceOption) *Service {
	options := serviceOptions{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	return &Service{
		classifier: classifier,
		retriever:  retriever,
		llm:        llm,
		logger:     options.logger,
	}
}

// Answer は会話履歴の最後のユーザーメッセージに応答する
func (s *Service) Answer(ctx context.Context, messages []Message) (*AnswerResult, error) {
	query, err := lastUserQuery(messages)
	if err != nil {
		return nil, err
	}

	match, err := s.classifier.Classify(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to classify query: %w", err)
	}

	routeName := ""
	if m, ok := match.Get(); ok {
		routeName = m.Name
	}

	s.logger.Info("クエリをルーティング",
		"query", query,
		"route", routeName,
	)

	// 商品相談ルート以外（未分類含む）は会話をそのまま LLM に渡す
	if routeName != router.RouteProducts {
		content, err := s.llm.ChatCompletion(ctx, messages)
		if err != nil {
			return nil, fmt.Errorf("chat completion failed: %w", err)
		}
		return &AnswerResult{Role: RoleModel, Content: content, Route: routeName}, nil
	}

	return s.answerProducts(ctx, messages, query, routeName)
}

// answerProducts は検索コンテキスト付きプロンプトで商品相談に応答する
func (s *Service) answerProducts(ctx context.Context, messages []Message, query, routeName string) (*AnswerResult, error) {
	results, err := s.retriever.Retrieve(ctx, query, productContextLimit, mo.Some(routeName))
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve context: %w", err)
	}

	s.logger.Info("商品コンテキストを取得",
		"query", query,
		"results", len(results),
	)

	prompt := BuildProductPrompt(query, results)

	augmented := make([]Message, 0, len(messages)+1)
	augmented = append(augmented, messages...)
	augmented = append(augmented, Message{Role: RoleUser, Content: prompt})

	content, err := s.llm.ChatCompletion(ctx, augmented)
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}

	return &AnswerResult{Role: RoleModel, Content: content, Route: routeName}, nil
}

// lastUserQuery は会話履歴の末尾から最初のユーザーメッセージを探す
func lastUserQuery(messages []Message) (string, error) {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role != RoleUser {
			continue
		}
		query := strings.TrimSpace(messages[i].Content)
		if query == "" {
			return "", ErrNoUserMessage
		}
		return query, nil
	}
	return "", ErrNoUserMessage
}
