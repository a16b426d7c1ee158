package router

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/samber/mo"
)

// Embedder はルートサンプルとクエリの Embedding 生成インターフェース
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	BatchEmbed(ctx context.Context, texts []string) ([][]float32, error)
}

// SemanticRouter はクエリを登録済みルートのいずれかに分類する。
// ルートのサンプル Embedding は構築時に一度だけ計算・正規化してキャッシュし、
// 以降は不変として扱う。構築後は複数ゴルーチンから同時に Classify してよい。
type SemanticRouter struct {
	embedder Embedder
	routes   []Route

	// ルートごとの正規化済みサンプルベクトル（登録順）
	sampleVectors [][][]float64

	logger *slog.Logger
}

type routerOptions struct {
	logger *slog.Logger
}

// RouterOption は SemanticRouter のオプション設定
type RouterOption func(*routerOptions)

// WithRouterLogger は SemanticRouter にロガーを設定する
func WithRouterLogger(logger *slog.Logger) RouterOption {
	return func(o *routerOptions) {
		o.logger = logger
	}
}

// NewSemanticRouter は新しい SemanticRouter を作成する。
// 各ルートのサンプルをバッチで Embedding に変換するため、構築時に
// モデル呼び出しが発生する。ルート名の重複はエラーとする。
func NewSemanticRouter(ctx context.Context, embedder Embedder, routes []Route, opts ...RouterOption) (*SemanticRouter, error) {
	options := routerOptions{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	seen := make(map[string]struct{}, len(routes))
	for _, route := range routes {
		if route.Name == "" {
			return nil, fmt.Errorf("route name is required")
		}
		if _, ok := seen[route.Name]; ok {
			return nil, fmt.Errorf("duplicate route name: %s", route.Name)
		}
		seen[route.Name] = struct{}{}
	}

	sampleVectors := make([][][]float64, len(routes))
	for i, route := range routes {
		if len(route.Samples) == 0 {
			return nil, fmt.Errorf("route %s has no samples", route.Name)
		}

		embeddings, err := embedder.BatchEmbed(ctx, route.Samples)
		if err != nil {
			return nil, fmt.Errorf("failed to embed samples for route %s: %w", route.Name, err)
		}

		vectors := make([][]float64, 0, len(embeddings))
		for _, embedding := range embeddings {
			if len(embedding) == 0 {
				continue
			}
			vectors = append(vectors, normalize(embedding))
		}
		if len(vectors) == 0 {
			return nil, fmt.Errorf("route %s produced no sample embeddings", route.Name)
		}
		sampleVectors[i] = vectors
	}

	options.logger.Info("セマンティックルーターを構築",
		"routes", len(routes),
	)

	return &SemanticRouter{
		embedder:      embedder,
		routes:        routes,
		sampleVectors: sampleVectors,
		logger:        options.logger,
	}, nil
}

// Routes は登録済みルートを登録順で返す
func (r *SemanticRouter) Routes() []Route {
	return r.routes
}

// Classify はクエリを最も近いルートに分類する。
// ルートが 0 件、またはクエリが空・Embedding が得られない場合は None を返す。
// 同点の場合は先に登録されたルートが勝つ。
func (r *SemanticRouter) Classify(ctx context.Context, query string) (mo.Option[RouteMatch], error) {
	if len(r.routes) == 0 {
		r.logger.Warn("ルートが登録されていないため分類をスキップ")
		return mo.None[RouteMatch](), nil
	}
	if strings.TrimSpace(query) == "" {
		return mo.None[RouteMatch](), nil
	}

	queryEmbedding, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return mo.None[RouteMatch](), fmt.Errorf("failed to embed query: %w", err)
	}
	if len(queryEmbedding) == 0 {
		return mo.None[RouteMatch](), nil
	}

	queryVector := normalize(queryEmbedding)

	best := RouteMatch{Score: math.Inf(-1)}
	for i, route := range r.routes {
		score := r.meanScore(i, queryVector)
		if score > best.Score {
			best = RouteMatch{Name: route.Name, Score: score}
		}
	}

	r.logger.Info("クエリを分類",
		"route", best.Name,
		"score", best.Score,
	)

	return mo.Some(best), nil
}

// meanScore は正規化済みサンプルベクトルとクエリベクトルの内積の平均を返す。
// 正規化済み同士の内積はコサイン類似度に一致する。
func (r *SemanticRouter) meanScore(routeIndex int, queryVector []float64) float64 {
	vectors := r.sampleVectors[routeIndex]
	var sum float64
	for _, vector := range vectors {
		sum += dot(vector, queryVector)
	}
	return sum / float64(len(vectors))
}

func normalize(embedding []float32) []float64 {
	vector := make([]float64, len(embedding))
	var norm float64
	for i, v := range embedding {
		vector[i] = float64(v)
		norm += float64(v) * float64(v)
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return vector
	}
	for i := range vector {
		vector[i] /= norm
	}
	return vector
}

func dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
