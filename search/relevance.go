package search

import (
	"sort"
	"strings"

	"github.com/kyliekoshet/ZyoniaRAG/core"
)

// Terms that mark a result as off-topic for neighborhood research no
// matter how well it matches the location.
var irrelevantTerms = []string{
	"restaurant", "taco", "menu", "food", "cuisine", "recipe",
	"nasa", "space", "solar", "heliospheric", "observatory",
	"bus tracking", "gps technology", "transportation app",
}

// FilterRelevant drops results that never mention the target
// neighborhood and ranks the rest. Each location term scores 3 in the
// title, 2 in the snippet and 1 in the URL; every off-topic term found
// costs 5. Only sources with a positive score survive, sorted by score
// with ties keeping their backend order. A positive max caps the
// returned slice.
func FilterRelevant(sources []core.Source, neighborhood string, max int) []core.Source {
	if neighborhood == "" {
		return capSources(sources, max)
	}

	terms := locationTerms(neighborhood)
	filtered := make([]core.Source, 0, len(sources))

	for _, src := range sources {
		title := strings.ToLower(src.Title)
		snippet := strings.ToLower(src.Snippet)
		pageURL := strings.ToLower(src.URL)

		score := 0
		for _, term := range terms {
			if strings.Contains(title, term) {
				score += 3
			}
			if strings.Contains(snippet, term) {
				score += 2
			}
			if strings.Contains(pageURL, term) {
				score++
			}
		}
		for _, term := range irrelevantTerms {
			if strings.Contains(title, term) || strings.Contains(snippet, term) {
				score -= 5
			}
		}

		if score <= 0 {
			continue
		}
		src.RelevanceScore = score
		filtered = append(filtered, src)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].RelevanceScore > filtered[j].RelevanceScore
	})

	return capSources(filtered, max)
}

// locationTerms splits a neighborhood label into lowercase match terms.
func locationTerms(neighborhood string) []string {
	if !strings.Contains(neighborhood, ",") {
		return []string{strings.ToLower(neighborhood)}
	}
	parts := strings.Split(neighborhood, ",")
	terms := make([]string, 0, len(parts))
	for _, p := range parts {
		terms = append(terms, strings.ToLower(strings.TrimSpace(p)))
	}
	return terms
}

func capSources(sources []core.Source, max int) []core.Source {
	if max > 0 && len(sources) > max {
		return sources[:max]
	}
	return sources
}
