package keywords

import (
	"log/slog"
	"strings"
	"sync"
	"unicode"
)

// Tokenizer extracts noun-like tokens from text. The production tokenizer is
// a lightweight Hangul heuristic; tests may inject their own.
type Tokenizer interface {
	Nouns(text string) []string
}

var (
	tokenizerInstance Tokenizer
	tokenizerOnce     sync.Once
)

// getTokenizer lazily builds the shared tokenizer. It is stateless once
// built, so a single instance serves every request for the process lifetime.
func getTokenizer() Tokenizer {
	tokenizerOnce.Do(func() {
		slog.Info("[Tokenizer] Building shared noun tokenizer")
		tokenizerInstance = newHangulTokenizer()
	})
	return tokenizerInstance
}

// josa suffixes stripped from token ends, longest first so compound particles
// win over their single-syllable prefixes.
var josaSuffixes = []string{
	"에서는", "에게서", "으로는", "이라고", "라고는",
	"에서", "에게", "한테", "부터", "까지", "으로", "이나", "이랑", "라고", "처럼", "보다", "마저", "조차", "밖에",
	"은", "는", "이", "가", "을", "를", "에", "와", "과", "도", "만", "의", "로", "나", "랑", "요",
}

type hangulTokenizer struct{}

func newHangulTokenizer() *hangulTokenizer {
	return &hangulTokenizer{}
}

// Nouns splits on whitespace, keeps Hangul runs, and strips one trailing
// particle per token. It is intentionally shallow: good enough for keyword
// frequency ranking, not a full morphological analysis.
func (t *hangulTokenizer) Nouns(text string) []string {
	var nouns []string
	for _, field := range strings.Fields(text) {
		token := keepLetters(field)
		if token == "" {
			continue
		}
		token = stripJosa(token)
		if token == "" {
			continue
		}
		nouns = append(nouns, token)
	}
	return nouns
}

func keepLetters(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func stripJosa(token string) string {
	runes := []rune(token)
	// single-rune tokens are dropped downstream anyway; nothing to strip
	if len(runes) < 2 {
		return token
	}
	for _, josa := range josaSuffixes {
		if strings.HasSuffix(token, josa) {
			trimmed := strings.TrimSuffix(token, josa)
			if len([]rune(trimmed)) >= 2 {
				return trimmed
			}
		}
	}
	return token
}
