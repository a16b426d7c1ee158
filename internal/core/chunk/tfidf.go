package chunk

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// termVectorizer は文集合からドキュメントローカルな TF-IDF ベクトルを計算する。
// グローバルコーパスは使わず、与えられた文集合のみを母集団とする。
type termVectorizer struct {
	vocabulary map[string]int
	idf        []float64
}

var tokenPattern = regexp.MustCompile(`\p{L}+|\p{N}+`)

// newTermVectorizer は文集合から語彙と IDF を構築する
func newTermVectorizer(sentences []string) *termVectorizer {
	df := make(map[string]int)
	for _, sentence := range sentences {
		seen := make(map[string]struct{})
		for _, token := range tokenize(sentence) {
			if _, ok := seen[token]; ok {
				continue
			}
			seen[token] = struct{}{}
			df[token]++
		}
	}

	// 語彙の順序を安定させる
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	v := &termVectorizer{
		vocabulary: make(map[string]int, len(terms)),
		idf:        make([]float64, len(terms)),
	}
	n := float64(len(sentences))
	for i, term := range terms {
		v.vocabulary[term] = i
		// スムージング付き IDF
		v.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}
	return v
}

// dimension はベクトルの次元数（語彙サイズ）を返す
func (v *termVectorizer) dimension() int {
	return len(v.idf)
}

// vectorize は 1 文を TF-IDF ベクトルに変換する
func (v *termVectorizer) vectorize(sentence string) []float64 {
	vec := make([]float64, v.dimension())
	tf := make(map[int]int)
	total := 0
	for _, token := range tokenize(sentence) {
		if idx, ok := v.vocabulary[token]; ok {
			tf[idx]++
			total++
		}
	}
	if total == 0 {
		return vec
	}
	for idx, count := range tf {
		vec[idx] = float64(count) / float64(total) * v.idf[idx]
	}
	return vec
}

// cosineSimilarity は 2 ベクトルのコサイン類似度を返す。
// どちらかがゼロベクトルの場合は 0 を返す。
func cosineSimilarity(a, b []float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}
