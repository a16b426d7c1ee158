package chunk

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

const (
	// DefaultSimilarityThreshold は文間類似度の既定しきい値
	DefaultSimilarityThreshold = 0.2

	// DefaultMaxTokens は 1 チャンクあたりの最大トークン数
	DefaultMaxTokens = 1600
)

// SemanticSplitter はテキストを話題的にまとまった文グループへ分割する。
// 連続する文の語彙的類似度がしきい値を下回った位置で新しいチャンクを開始する。
type SemanticSplitter struct {
	threshold float64
	maxTokens int
	encoder   *tiktoken.Tiktoken
}

type splitterOptions struct {
	threshold float64
	maxTokens int
}

// SplitterOption は SemanticSplitter のオプション設定
type SplitterOption func(*splitterOptions)

// WithSimilarityThreshold は類似度しきい値を上書きする
func WithSimilarityThreshold(threshold float64) SplitterOption {
	return func(o *splitterOptions) {
		o.threshold = threshold
	}
}

// WithMaxTokens は 1 チャンクあたりの最大トークン数を上書きする。
// 0 を指定するとトークン数の制限を無効化する。
func WithMaxTokens(maxTokens int) SplitterOption {
	return func(o *splitterOptions) {
		o.maxTokens = maxTokens
	}
}

// NewSemanticSplitter は新しい SemanticSplitter を作成する
func NewSemanticSplitter(opts ...SplitterOption) (*SemanticSplitter, error) {
	options := splitterOptions{
		threshold: DefaultSimilarityThreshold,
		maxTokens: DefaultMaxTokens,
	}
	for _, opt := range opts {
		opt(&options)
	}

	var encoder *tiktoken.Tiktoken
	if options.maxTokens > 0 {
		// text-embedding-3-small と互換の cl100k_base エンコーダを使用
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return nil, fmt.Errorf("failed to get tiktoken encoder: %w", err)
		}
		encoder = enc
	}

	return &SemanticSplitter{
		threshold: options.threshold,
		maxTokens: options.maxTokens,
		encoder:   encoder,
	}, nil
}

// Threshold は類似度しきい値を返す
func (s *SemanticSplitter) Threshold() float64 {
	return s.threshold
}

// Split はテキストをチャンクに分割する。
// チャンクは元の文書内の出現順で返す。トリム後に空となるチャンクの除去は
// 呼び出し側の責務であり、Split は行わない。
func (s *SemanticSplitter) Split(text string) []string {
	sentences := splitSentences(text)

	// 文が 2 未満の場合はテキスト全体を 1 チャンクとして返す
	if len(sentences) < 2 {
		return []string{text}
	}

	vectorizer := newTermVectorizer(sentences)

	// 語彙が得られない退化ケースでは 1 文 1 チャンクにフォールバックする
	if vectorizer.dimension() == 0 {
		return s.capTokens(toSingleSentenceChunks(sentences))
	}

	vectors := make([][]float64, len(sentences))
	for i, sentence := range sentences {
		vectors[i] = vectorizer.vectorize(sentence)
	}

	groups := [][]string{{sentences[0]}}
	for i := 1; i < len(sentences); i++ {
		score := cosineSimilarity(vectors[i-1], vectors[i])
		if score >= s.threshold {
			last := len(groups) - 1
			groups[last] = append(groups[last], sentences[i])
		} else {
			groups = append(groups, []string{sentences[i]})
		}
	}

	chunks := make([]string, 0, len(groups))
	for _, group := range groups {
		chunks = append(chunks, strings.Join(group, " "))
	}
	return s.capTokens(chunks)
}

// capTokens は maxTokens を超えるチャンクを文境界で分割する
func (s *SemanticSplitter) capTokens(chunks []string) []string {
	if s.encoder == nil {
		return chunks
	}

	capped := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		if s.countTokens(chunk) <= s.maxTokens {
			capped = append(capped, chunk)
			continue
		}

		var current []string
		currentTokens := 0
		for _, sentence := range splitSentences(chunk) {
			tokens := s.countTokens(sentence)
			if currentTokens+tokens > s.maxTokens && len(current) > 0 {
				capped = append(capped, strings.Join(current, " "))
				current = nil
				currentTokens = 0
			}
			current = append(current, sentence)
			currentTokens += tokens
		}
		if len(current) > 0 {
			capped = append(capped, strings.Join(current, " "))
		}
	}
	return capped
}

func (s *SemanticSplitter) countTokens(text string) int {
	return len(s.encoder.Encode(text, nil, nil))
}

func toSingleSentenceChunks(sentences []string) []string {
	chunks := make([]string, len(sentences))
	copy(chunks, sentences)
	return chunks
}
