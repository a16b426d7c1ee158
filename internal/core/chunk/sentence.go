package chunk

import (
	"regexp"
	"strings"
)

// 文末記号（終止符・感嘆符・疑問符・三点リーダ）で区切る。
// ベトナム語を含むラテン文字圏のテキストを想定している。
var sentencePattern = regexp.MustCompile(`[^.!?…\n]+[.!?…]*`)

// splitSentences はテキストを文単位に分割する。
// 空白のみの断片は除外し、各文はトリムして返す。
func splitSentences(text string) []string {
	raw := sentencePattern.FindAllString(text, -1)
	sentences := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		sentences = append(sentences, s)
	}
	return sentences
}
