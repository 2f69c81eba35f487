package keywords

import (
	"regexp"
	"sort"
	"strings"

	"github.com/yunseo-dev/disasterscope/internal/taxonomy"
)

var (
	punctPattern = regexp.MustCompile(`[^\p{L}\p{N}\s]`)
	digitPattern = regexp.MustCompile(`\d+`)
)

// KeywordCount is one ranked keyword with its frequency.
type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// ExtractKeywords tokenizes text into nouns, filters stopwords and
// single-rune tokens, and returns up to k keywords ranked by frequency.
// Ties keep first-seen order. Empty or whitespace-only input yields an
// empty slice.
func ExtractKeywords(text string, k int, customStopwords []string) []KeywordCount {
	if strings.TrimSpace(text) == "" || k <= 0 {
		return []KeywordCount{}
	}

	processed := punctPattern.ReplaceAllString(text, "")
	processed = digitPattern.ReplaceAllString(processed, "")

	stopwords := make(map[string]struct{}, len(taxonomy.DefaultStopwords)+len(customStopwords))
	for _, w := range taxonomy.DefaultStopwords {
		stopwords[w] = struct{}{}
	}
	for _, w := range customStopwords {
		stopwords[w] = struct{}{}
	}

	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	for _, noun := range getTokenizer().Nouns(processed) {
		if len([]rune(noun)) <= 1 {
			continue
		}
		if _, stopped := stopwords[noun]; stopped {
			continue
		}
		if _, seen := counts[noun]; !seen {
			firstSeen[noun] = len(firstSeen)
		}
		counts[noun]++
	}

	ranked := make([]KeywordCount, 0, len(counts))
	for noun, count := range counts {
		ranked = append(ranked, KeywordCount{Keyword: noun, Count: count})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return firstSeen[ranked[i].Keyword] < firstSeen[ranked[j].Keyword]
	})

	if len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}
