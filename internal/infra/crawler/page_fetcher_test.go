package crawler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!DOCTYPE html>
<html>
<head><title>Samsung Galaxy S24</title></head>
<body>
<nav><a href="/">ホーム</a></nav>
<div class="review-title">
  <h1>Đánh giá Samsung Galaxy S24</h1>
  <p>Điện thoại flagship mới nhất.</p>
</div>
<div class="ck-content">
  <h2>Thiết kế</h2>
  <p>Màn hình 6.2 inch rất đẹp.</p>
  <ul>
    <li>RAM 8GB</li>
    <li>Pin
        4000mAh</li>
  </ul>
  <h3>Camera</h3>
  <p>Camera 50MP chụp đêm tốt.</p>
  <div class="ads">quảng cáo</div>
</div>
<footer>フッター</footer>
</body>
</html>`

func TestPageFetcher_FetchPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(samplePage))
	}))
	defer server.Close()

	fetcher := NewPageFetcher()
	text, err := fetcher.FetchPage(context.Background(), server.URL)
	require.NoError(t, err)

	expected := "Đánh giá Samsung Galaxy S24\n" +
		"Điện thoại flagship mới nhất.\n" +
		"Thiết kế\n" +
		"Màn hình 6.2 inch rất đẹp.\n" +
		"- RAM 8GB\n" +
		"- Pin 4000mAh\n" +
		"Camera\n" +
		"Camera 50MP chụp đêm tốt.\n"
	assert.Equal(t, expected, text)

	// ナビゲーション・広告・フッターは含まれない
	assert.NotContains(t, text, "ホーム")
	assert.NotContains(t, text, "quảng cáo")
	assert.NotContains(t, text, "フッター")
}

func TestPageFetcher_FetchPage_NoTargetElements(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><div>本文なし</div></body></html>`))
	}))
	defer server.Close()

	fetcher := NewPageFetcher()
	text, err := fetcher.FetchPage(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestPageFetcher_FetchPage_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	fetcher := NewPageFetcher()
	_, err := fetcher.FetchPage(context.Background(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestPageFetcher_FetchPage_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(samplePage))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := NewPageFetcher()
	_, err := fetcher.FetchPage(ctx, server.URL)
	require.Error(t, err)
}
