package search

import (
	"github.com/nikbrunner/favdash/internal/model"
	"github.com/sahilm/fuzzy"
)

// Result represents a fuzzy search match.
type Result struct {
	Link           model.Link
	MatchedIndexes []int
	Score          int
}

// linkTitles implements fuzzy.Source for a link slice.
type linkTitles []model.Link

func (lt linkTitles) String(i int) string {
	return lt[i].Title
}

func (lt linkTitles) Len() int {
	return len(lt)
}

// FuzzySearch searches links by title using fuzzy matching.
// Returns results sorted by match score (best first).
func FuzzySearch(links []model.Link, query string) []Result {
	if query == "" {
		return nil
	}

	matches := fuzzy.FindFrom(query, linkTitles(links))

	results := make([]Result, len(matches))
	for i, m := range matches {
		results[i] = Result{
			Link:           links[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}

	return results
}
