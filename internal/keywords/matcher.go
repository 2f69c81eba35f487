package keywords

import (
	"sort"
	"strings"
	"sync"

	"github.com/yunseo-dev/disasterscope/internal/taxonomy"
)

var (
	categoryOrder     []string
	categoryOrderOnce sync.Once
)

// categories returns the dictionary's category names in a fixed sorted order
// so repeated calls over the same text produce identical label slices.
func categories() []string {
	categoryOrderOnce.Do(func() {
		for category := range taxonomy.DisasterSynonyms {
			categoryOrder = append(categoryOrder, category)
		}
		sort.Strings(categoryOrder)
	})
	return categoryOrder
}

// DisasterCategories returns every known disaster category in the same
// fixed order LabelDisaster emits them.
func DisasterCategories() []string {
	return append([]string(nil), categories()...)
}

// LabelDisaster maps free text to the set of disaster categories whose
// synonyms appear in it. Matching is plain substring containment against the
// dictionary entries as written; a category is emitted at most once no matter
// how many of its synonyms hit, and several categories may match the same
// text. Empty or whitespace-only input yields an empty slice.
func LabelDisaster(text string) []string {
	labels := []string{}
	if strings.TrimSpace(text) == "" {
		return labels
	}

	for _, category := range categories() {
		for _, synonym := range taxonomy.DisasterSynonyms[category] {
			if strings.Contains(text, synonym) {
				labels = append(labels, category)
				break
			}
		}
	}
	return labels
}

// ContainsDisasterTerm reports whether the query mentions any synonym from
// the dictionary. Used to gate searches before any API call is made.
func ContainsDisasterTerm(query string) bool {
	if strings.TrimSpace(query) == "" {
		return false
	}
	for _, synonyms := range taxonomy.DisasterSynonyms {
		for _, synonym := range synonyms {
			if strings.Contains(query, synonym) {
				return true
			}
		}
	}
	return false
}
