package chat

import (
	"fmt"
	"strings"

	"github.com/jinford/shop-rag/internal/core/retrieval"
)

// noContextFallback は関連ドキュメントが見つからなかった場合のコンテキスト文
const noContextFallback = "Không tìm thấy thông tin phù hợp trong cơ sở dữ liệu."

// BuildProductPrompt は検索結果から商品相談用のプロンプトを構築する。
// 検索結果が空でもプロンプトは成立する（フォールバック文を埋め込む）。
func BuildProductPrompt(query string, results []*retrieval.ScoredChunk) string {
	context := buildContext(results)

	var sb strings.Builder
	sb.WriteString("Hãy trở thành chuyên gia tư vấn bán hàng cho một cửa hàng điện thoại.\n\n")
	sb.WriteString(fmt.Sprintf("Khách hỏi: %q\n\n", query))
	sb.WriteString("Dưới đây là một số thông tin liên quan:\n\n")
	sb.WriteString(context)
	sb.WriteString("\n\nTrả lời một cách tự nhiên và chi tiết. ")
	sb.WriteString("Nếu khách hàng muốn biết thêm, hãy mời họ bấm vào link để xem chi tiết sản phẩm.")
	return sb.String()
}

// buildContext は検索結果を「本文 (Nguồn: URL)」形式で連結する
func buildContext(results []*retrieval.ScoredChunk) string {
	if len(results) == 0 {
		return noContextFallback
	}

	lines := make([]string, 0, len(results))
	for _, result := range results {
		source := result.URL
		if source == "" {
			source = "không rõ"
		}
		lines = append(lines, fmt.Sprintf("%s (Nguồn: %s)", result.Content, source))
	}
	return strings.Join(lines, "\n\n")
}
