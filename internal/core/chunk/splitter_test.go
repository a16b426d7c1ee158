package chunk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "英語の複数文",
			text: "Hello world. This is a test! Is it working?",
			want: []string{"Hello world.", "This is a test!", "Is it working?"},
		},
		{
			name: "ベトナム語の文",
			text: "Điện thoại này rất tốt. Giá cả phải chăng.",
			want: []string{"Điện thoại này rất tốt.", "Giá cả phải chăng."},
		},
		{
			name: "終止符のない末尾",
			text: "First sentence. trailing fragment",
			want: []string{"First sentence.", "trailing fragment"},
		},
		{
			name: "空文字列",
			text: "",
			want: []string{},
		},
		{
			name: "空白のみ",
			text: "   \n\t  ",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitSentences(tt.text)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSemanticSplitter_Split(t *testing.T) {
	splitter, err := NewSemanticSplitter(WithSimilarityThreshold(0.1))
	require.NoError(t, err)

	t.Run("無関係な文は別チャンクになる", func(t *testing.T) {
		// 1-2文目と3文目は語彙的に無関係なので強制マージされない
		text := "A smartphone with 6GB RAM. The camera is excellent. Weather today is sunny."
		chunks := splitter.Split(text)

		require.GreaterOrEqual(t, len(chunks), 2)
		assert.Equal(t, "A smartphone with 6GB RAM.", chunks[0])
	})

	t.Run("類似した文は同じチャンクにまとまる", func(t *testing.T) {
		text := "The phone has a great camera. The phone camera takes great photos. The phone camera works well at night."
		chunks := splitter.Split(text)

		assert.Len(t, chunks, 1)
	})

	t.Run("チャンクは元の文書順で返る", func(t *testing.T) {
		text := "Alpha beta gamma delta. Epsilon zeta eta theta. Alpha beta gamma delta again."
		chunks := splitter.Split(text)

		joined := strings.Join(chunks, " ")
		assert.Equal(t, strings.Join(splitSentences(text), " "), joined)
	})
}

func TestSemanticSplitter_Split_Degenerate(t *testing.T) {
	splitter, err := NewSemanticSplitter()
	require.NoError(t, err)

	t.Run("1文のみはテキスト全体を1チャンクで返す", func(t *testing.T) {
		text := "Chỉ có một câu duy nhất."
		chunks := splitter.Split(text)

		require.Len(t, chunks, 1)
		assert.Equal(t, text, chunks[0])
	})

	t.Run("空文字列も1チャンクで返す", func(t *testing.T) {
		// トリム後に空となるチャンクの除去は呼び出し側の責務
		chunks := splitter.Split("")
		require.Len(t, chunks, 1)
		assert.Equal(t, "", chunks[0])
	})

	t.Run("語彙が得られないテキストでもクラッシュしない", func(t *testing.T) {
		chunks := splitter.Split("!!! ??? ... !!! ???")
		assert.NotEmpty(t, chunks)
	})
}

func TestSemanticSplitter_Split_Idempotent(t *testing.T) {
	splitter, err := NewSemanticSplitter(WithSimilarityThreshold(0.1))
	require.NoError(t, err)

	// まとまりのあるチャンクを再分割しても 1 チャンクのまま
	text := "The phone battery lasts long. The phone battery charges fast. The phone battery capacity is large."
	first := splitter.Split(text)
	require.Len(t, first, 1)

	second := splitter.Split(first[0])
	assert.Len(t, second, 1)
	assert.Equal(t, first[0], second[0])
}

func TestSemanticSplitter_TokenCap(t *testing.T) {
	splitter, err := NewSemanticSplitter(
		WithSimilarityThreshold(0.0),
		WithMaxTokens(50),
	)
	require.NoError(t, err)

	// しきい値 0 で全文が 1 チャンクにまとまるが、トークン上限で分割される
	text := strings.TrimSpace(strings.Repeat("The quick brown fox jumps over the lazy dog near the river bank. ", 20))
	chunks := splitter.Split(text)

	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, splitter.countTokens(chunk), 50)
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    []float64
		b    []float64
		want float64
	}{
		{name: "同一ベクトル", a: []float64{1, 2, 3}, b: []float64{1, 2, 3}, want: 1.0},
		{name: "直交ベクトル", a: []float64{1, 0}, b: []float64{0, 1}, want: 0.0},
		{name: "逆向きベクトル", a: []float64{1, 0}, b: []float64{-1, 0}, want: -1.0},
		{name: "ゼロベクトル", a: []float64{0, 0}, b: []float64{1, 1}, want: 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, cosineSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}
