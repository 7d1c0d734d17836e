package commands

import (
	"context"
	"sort"
	"strings"

	"ideagraph/internal/application"
	"ideagraph/internal/domain"
)

// DefaultSearchLimit caps hits when the caller passes no limit
const DefaultSearchLimit = 50

// Searcher finds ideas by label or title. application.Catalog satisfies it.
type Searcher interface {
	Search(query string, limit int) ([]domain.SearchHit, error)
}

// SearchResult wraps domain.SearchHit with a relevance score
type SearchResult struct {
	domain.SearchHit
	Score int
}

// SearchCommand searches saved ideas with fuzzy ranking
type SearchCommand struct {
	searcher Searcher
	Query    string
	Limit    int
}

// NewSearchCommand creates a new SearchCommand
func NewSearchCommand(searcher Searcher, query string, limit int) *SearchCommand {
	return &SearchCommand{
		searcher: searcher,
		Query:    query,
		Limit:    limit,
	}
}

// Execute runs the search command and returns scored, sorted results.
// Queries shorter than two characters return nothing.
func (c *SearchCommand) Execute(ctx context.Context) ([]SearchResult, error) {
	query := strings.TrimSpace(c.Query)
	if len(query) < 2 {
		return nil, nil
	}
	if c.searcher == nil {
		return nil, application.ErrNoIndex
	}

	limit := c.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	hits, err := c.searcher.Search(query, limit)
	if err != nil {
		return nil, err
	}

	return FuzzySort(hits, query), nil
}

// FuzzyScore calculates a relevance score for how well target matches query
func FuzzyScore(target, query string) int {
	target = strings.ToLower(target)
	query = strings.ToLower(query)

	if len(query) == 0 {
		return 0
	}

	// Check for exact substring match first (highest priority)
	if strings.Contains(target, query) {
		score := 100
		// Bonus if it starts with query
		if strings.HasPrefix(target, query) {
			score += 50
		}
		return score
	}

	// Fuzzy match: check if chars appear in order
	score := 0
	queryIdx := 0
	prevMatchIdx := -1

	for i := 0; i < len(target) && queryIdx < len(query); i++ {
		if target[i] == query[queryIdx] {
			if prevMatchIdx == i-1 {
				score += 10 // consecutive chars
			}
			if i == 0 {
				score += 15 // start of string
			}
			if i > 0 && (target[i-1] == ' ' || target[i-1] == '.' || target[i-1] == '-') {
				score += 10 // after separator
			}
			score += 1
			prevMatchIdx = i
			queryIdx++
		}
	}

	if queryIdx == len(query) {
		return score
	}
	return 0
}

// FuzzySort sorts search hits by relevance to the query. Hits matching
// neither label nor title are dropped.
func FuzzySort(hits []domain.SearchHit, query string) []SearchResult {
	scored := make([]SearchResult, 0, len(hits))

	for _, h := range hits {
		best := max(FuzzyScore(h.Label, query), FuzzyScore(h.Title, query))

		if best > 0 {
			scored = append(scored, SearchResult{
				SearchHit: h,
				Score:     best,
			})
		}
	}

	// Sort by score descending, stable so index order breaks ties
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	return scored
}
