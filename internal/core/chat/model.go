package chat

import "context"

// メッセージロール
const (
	RoleUser   = "user"
	RoleModel  = "model"
	RoleSystem = "system"
)

// Message は会話履歴の 1 メッセージを表す
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// AnswerResult はチャット応答の結果を表す
type AnswerResult struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	Route   string `json:"route,omitempty"` // 分類されたルート名（未分類なら空）
}

// LLMClient はチャット補完の生成インターフェース。
// メッセージ列を受け取り、単一のテキスト補完を返す。
type LLMClient interface {
	ChatCompletion(ctx context.Context, messages []Message) (string, error)
}
