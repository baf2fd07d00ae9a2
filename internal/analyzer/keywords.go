package analyzer

import (
	"sort"
	"strings"
	"unicode"

	"github.com/BerylCAtieno/resume-insights-api/internal/models"
)

// FallbackKeywordLimit caps the keywords kept in a fallback insight.
const FallbackKeywordLimit = 5

// TopKeywords returns up to limit of the most frequent alphabetic tokens,
// lowercased. Tokens are split on whitespace and dropped unless every rune is
// a letter. Equal counts keep first-seen order.
func TopKeywords(text string, limit int) []string {
	counts := make(map[string]int)
	var order []string

	for _, field := range strings.Fields(text) {
		if !isAlpha(field) {
			continue
		}
		word := strings.ToLower(field)
		if _, seen := counts[word]; !seen {
			order = append(order, word)
		}
		counts[word]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if limit < 0 {
		limit = 0
	}
	if len(order) > limit {
		order = order[:limit]
	}

	keywords := make([]string, len(order))
	copy(keywords, order)
	return keywords
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// Fallback builds the degraded insight for text the completion service could not analyze.
func Fallback(text string) models.Insight {
	return models.NewFallbackInsight(TopKeywords(text, FallbackKeywordLimit))
}
