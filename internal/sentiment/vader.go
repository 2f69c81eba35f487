package sentiment

import (
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"
)

var analyzer = govader.NewSentimentIntensityAnalyzer()

func RemoveLinks(input string) string {
	linkPattern := regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	input = linkPattern.ReplaceAllString(input, "$1") // Keep only the text

	urlPattern := regexp.MustCompile(`https?://\S+|www\.\S+`)
	input = urlPattern.ReplaceAllString(input, "")

	return input
}

func ConvertMarkdownToText(input string) string {
	output := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	plainText := strings.Join(strings.Fields(string(output)), " ")

	return RemoveLinks(plainText)
}

// PolarityScore returns the VADER compound polarity in [-1, 1] for a comment
// after stripping links and markdown noise. It complements the KOTE labels
// with a single scalar the dashboard can sort and bucket on.
func PolarityScore(text string) float64 {
	plainText := ConvertMarkdownToText(text)
	if strings.TrimSpace(plainText) == "" {
		return 0
	}

	sentiment := analyzer.PolarityScores(plainText)
	return sentiment.Compound
}
