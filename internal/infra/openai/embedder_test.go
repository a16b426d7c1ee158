package openai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedder_Embed_EmptyInputShortCircuits(t *testing.T) {
	// 空入力は API を呼ばないためダミーキーで動作する
	embedder := NewEmbedder("dummy-key")

	tests := []struct {
		name string
		text string
	}{
		{name: "空文字列", text: ""},
		{name: "空白のみ", text: "   \t\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vector, err := embedder.Embed(context.Background(), tt.text)
			require.NoError(t, err)
			assert.Nil(t, vector)
		})
	}
}

func TestEmbedder_BatchEmbed_AllEmptyShortCircuits(t *testing.T) {
	embedder := NewEmbedder("dummy-key")

	embeddings, err := embedder.BatchEmbed(context.Background(), []string{"", "  ", "\n"})
	require.NoError(t, err)
	require.Len(t, embeddings, 3)
	for _, embedding := range embeddings {
		assert.Nil(t, embedding)
	}
}

func TestEmbedder_BatchEmbed_Validation(t *testing.T) {
	embedder := NewEmbedder("dummy-key")

	_, err := embedder.BatchEmbed(context.Background(), nil)
	require.Error(t, err)

	tooMany := make([]string, maxBatchSize+1)
	for i := range tooMany {
		tooMany[i] = "text"
	}
	_, err = embedder.BatchEmbed(context.Background(), tooMany)
	require.Error(t, err)
}

func TestEmbedder_Defaults(t *testing.T) {
	embedder := NewEmbedder("dummy-key")
	assert.Equal(t, DefaultEmbeddingModel, embedder.ModelName())
	assert.Equal(t, DefaultEmbeddingDimension, embedder.Dimension())

	custom := NewEmbedder("dummy-key",
		WithEmbeddingModel("text-embedding-3-large"),
		WithEmbeddingDimension(3072),
	)
	assert.Equal(t, "text-embedding-3-large", custom.ModelName())
	assert.Equal(t, 3072, custom.Dimension())
}
