package ingestion

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinford/shop-rag/internal/core/retrieval"
)

type stubProvider struct {
	pages map[string]string
	err   error
}

func (p *stubProvider) FetchPage(ctx context.Context, url string) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	return p.pages[url], nil
}

// lineSplitter は改行でチャンクに分割する単純な Splitter
type lineSplitter struct{}

func (s *lineSplitter) Split(text string) []string {
	return strings.Split(text, "\n")
}

type stubBatchEmbedder struct {
	dimension int
	err       error
}

func (e *stubBatchEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	return make([]float32, e.dimension), nil
}

func (e *stubBatchEmbedder) BatchEmbed(ctx context.Context, texts []string) ([][]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	embeddings := make([][]float32, len(texts))
	for i := range texts {
		embeddings[i] = make([]float32, e.dimension)
		embeddings[i][0] = float32(len(texts[i]))
	}
	return embeddings, nil
}

type recordingRepository struct {
	chunks []*retrieval.Chunk
	err    error
}

func (r *recordingRepository) InsertChunk(ctx context.Context, chunk *retrieval.Chunk) error {
	if r.err != nil {
		return r.err
	}
	r.chunks = append(r.chunks, chunk)
	return nil
}

func newTestService(provider PageProvider, repo Repository, embedder Embedder) *Service {
	factory := func(threshold float64) (Splitter, error) {
		return &lineSplitter{}, nil
	}
	return NewService(provider, factory, embedder, repo)
}

func TestService_IngestURLs(t *testing.T) {
	provider := &stubProvider{pages: map[string]string{
		"https://example.com/p1": "Điện thoại Samsung Galaxy.\nGiá 10 triệu đồng.",
	}}
	repo := &recordingRepository{}
	service := newTestService(provider, repo, &stubBatchEmbedder{dimension: 4})

	result, err := service.IngestURLs(context.Background(), IngestParams{
		URLs:  []string{"https://example.com/p1"},
		Topic: "phones",
	})
	require.NoError(t, err)

	assert.Equal(t, "ok", result.Status)
	assert.Equal(t, []string{"https://example.com/p1"}, result.URLs)
	assert.Equal(t, 2, result.TotalChunks)

	require.Len(t, repo.chunks, 2)
	for _, chunk := range repo.chunks {
		assert.NotEqual(t, uuid.Nil, chunk.ID)
		assert.Equal(t, "https://example.com/p1", chunk.URL)
		assert.Equal(t, "phones", chunk.Topic)
		assert.Len(t, chunk.Embedding, 4)
		assert.NotEmpty(t, strings.TrimSpace(chunk.Content))
	}
}

func TestService_IngestURLs_DropsEmptyChunks(t *testing.T) {
	// 空行はチャンクとして保存されない
	provider := &stubProvider{pages: map[string]string{
		"https://example.com/p1": "Nội dung thật.\n\n   \nNội dung khác.",
	}}
	repo := &recordingRepository{}
	service := newTestService(provider, repo, &stubBatchEmbedder{dimension: 4})

	result, err := service.IngestURLs(context.Background(), IngestParams{
		URLs:  []string{"https://example.com/p1"},
		Topic: "phones",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalChunks)
}

func TestService_IngestURLs_EmptyPage(t *testing.T) {
	provider := &stubProvider{pages: map[string]string{
		"https://example.com/empty": "   ",
	}}
	repo := &recordingRepository{}
	service := newTestService(provider, repo, &stubBatchEmbedder{dimension: 4})

	result, err := service.IngestURLs(context.Background(), IngestParams{
		URLs:  []string{"https://example.com/empty"},
		Topic: "phones",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.TotalChunks)
	assert.Empty(t, repo.chunks)
}

func TestService_IngestURLs_FetchFailure(t *testing.T) {
	provider := &stubProvider{err: errors.New("connection refused")}
	repo := &recordingRepository{}
	service := newTestService(provider, repo, &stubBatchEmbedder{dimension: 4})

	_, err := service.IngestURLs(context.Background(), IngestParams{
		URLs:  []string{"https://example.com/p1"},
		Topic: "phones",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch page")
}

func TestService_IngestURLs_EmbedderFailurePropagates(t *testing.T) {
	// バッチ経路のモデル障害は握り潰さずに伝播する
	provider := &stubProvider{pages: map[string]string{
		"https://example.com/p1": "Nội dung.",
	}}
	repo := &recordingRepository{}
	service := newTestService(provider, repo, &stubBatchEmbedder{dimension: 4, err: errors.New("model unreachable")})

	_, err := service.IngestURLs(context.Background(), IngestParams{
		URLs:  []string{"https://example.com/p1"},
		Topic: "phones",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to embed chunks")
	assert.Empty(t, repo.chunks)
}

func TestService_IngestURLs_NoURLs(t *testing.T) {
	service := newTestService(&stubProvider{}, &recordingRepository{}, &stubBatchEmbedder{dimension: 4})

	_, err := service.IngestURLs(context.Background(), IngestParams{Topic: "phones"})
	require.Error(t, err)
}
