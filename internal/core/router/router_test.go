package router

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// keywordEmbedder は語の出現に基づいて決定的なベクトルを返すテスト用 Embedder。
// 商品関連の語は第 1 軸、挨拶関連の語は第 2 軸に寄与する。
type keywordEmbedder struct {
	err error
}

func (e *keywordEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	lower := strings.ToLower(text)
	vector := []float32{0.1, 0.1, 1}
	for _, kw := range []string{"điện thoại", "mua", "giá", "camera", "pin", "samsung", "iphone"} {
		if strings.Contains(lower, kw) {
			vector[0] += 1
		}
	}
	for _, kw := range []string{"chào", "khỏe", "cảm ơn", "tạm biệt", "thời tiết", "tên"} {
		if strings.Contains(lower, kw) {
			vector[1] += 1
		}
	}
	return vector, nil
}

func (e *keywordEmbedder) BatchEmbed(ctx context.Context, texts []string) ([][]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		embedding, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		embeddings[i] = embedding
	}
	return embeddings, nil
}

func newTestRouter(t *testing.T) *SemanticRouter {
	t.Helper()
	r, err := NewSemanticRouter(context.Background(), &keywordEmbedder{}, DefaultRoutes())
	require.NoError(t, err)
	return r
}

func TestSemanticRouter_Classify_Products(t *testing.T) {
	r := newTestRouter(t)

	match, err := r.Classify(context.Background(), "Tôi muốn mua điện thoại Samsung")
	require.NoError(t, err)

	got, ok := match.Get()
	require.True(t, ok)
	assert.Equal(t, RouteProducts, got.Name)
	assert.GreaterOrEqual(t, got.Score, -1.0)
	assert.LessOrEqual(t, got.Score, 1.0)
}

func TestSemanticRouter_Classify_Chitchat(t *testing.T) {
	r := newTestRouter(t)

	match, err := r.Classify(context.Background(), "Xin chào, bạn khỏe không?")
	require.NoError(t, err)

	got, ok := match.Get()
	require.True(t, ok)
	assert.Equal(t, RouteChitchat, got.Name)
}

func TestSemanticRouter_Classify_Deterministic(t *testing.T) {
	r := newTestRouter(t)

	first, err := r.Classify(context.Background(), "Điện thoại nào pin trâu nhất?")
	require.NoError(t, err)
	second, err := r.Classify(context.Background(), "Điện thoại nào pin trâu nhất?")
	require.NoError(t, err)

	assert.Equal(t, first.MustGet().Name, second.MustGet().Name)
	assert.Equal(t, first.MustGet().Score, second.MustGet().Score)
}

func TestSemanticRouter_Classify_ZeroRoutes(t *testing.T) {
	r, err := NewSemanticRouter(context.Background(), &keywordEmbedder{}, nil)
	require.NoError(t, err)

	// ルートなしはエラーではなく None を返す（フェイルクローズ）
	match, err := r.Classify(context.Background(), "Tôi muốn mua điện thoại")
	require.NoError(t, err)
	assert.True(t, match.IsAbsent())
}

func TestSemanticRouter_Classify_EmptyQuery(t *testing.T) {
	r := newTestRouter(t)

	match, err := r.Classify(context.Background(), "   ")
	require.NoError(t, err)
	assert.True(t, match.IsAbsent())
}

func TestSemanticRouter_Classify_TieBreakFirstRegistered(t *testing.T) {
	routes := []Route{
		{Name: "first", Samples: []string{"xin chào"}},
		{Name: "second", Samples: []string{"xin chào"}},
	}
	r, err := NewSemanticRouter(context.Background(), &keywordEmbedder{}, routes)
	require.NoError(t, err)

	match, err := r.Classify(context.Background(), "xin chào")
	require.NoError(t, err)
	assert.Equal(t, "first", match.MustGet().Name)
}

func TestNewSemanticRouter_DuplicateName(t *testing.T) {
	routes := []Route{
		{Name: "products", Samples: []string{"a"}},
		{Name: "products", Samples: []string{"b"}},
	}
	_, err := NewSemanticRouter(context.Background(), &keywordEmbedder{}, routes)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate route name")
}

func TestNewSemanticRouter_EmbedderFailure(t *testing.T) {
	_, err := NewSemanticRouter(context.Background(), &keywordEmbedder{err: errors.New("model unreachable")}, DefaultRoutes())
	require.Error(t, err)
}

func TestSemanticRouter_Classify_EmbedderFailure(t *testing.T) {
	r := newTestRouter(t)
	failing := &keywordEmbedder{err: errors.New("model unreachable")}
	r.embedder = failing

	_, err := r.Classify(context.Background(), "Tôi muốn mua điện thoại")
	require.Error(t, err)
}
