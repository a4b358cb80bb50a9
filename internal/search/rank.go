package search

import (
	"context"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/mmcdole/streambox/internal/domain"
)

// Rank orders search results by how closely their titles match query.
// Ties keep the more popular item first. The input slice is not modified.
func Rank(query string, items []domain.CatalogItem) []domain.CatalogItem {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || len(items) < 2 {
		return items
	}

	type rankedItem struct {
		item  domain.CatalogItem
		score int
	}

	ranked := make([]rankedItem, len(items))
	for i, item := range items {
		ranked[i] = rankedItem{item: item, score: matchScore(strings.ToLower(item.Title), query)}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score < ranked[j].score
		}
		return ranked[i].item.Popularity > ranked[j].item.Popularity
	})

	results := make([]domain.CatalogItem, len(ranked))
	for i, r := range ranked {
		results[i] = r.item
	}
	return results
}

// matchScore scores a lowercase title against a lowercase query.
// Lower score = better match.
func matchScore(title, query string) int {
	switch {
	case title == query:
		return 0
	case strings.HasPrefix(title, query):
		return 10
	case strings.Contains(title, query):
		return 50
	case fuzzy.Match(query, title):
		return 75
	}
	return 100 + fuzzy.LevenshteinDistance(query, title)
}

// RankedSource re-ranks search results of another catalog source.
// Trending results keep their upstream order.
type RankedSource struct {
	Source domain.CatalogSource
}

// Fetch implements domain.CatalogSource
func (r RankedSource) Fetch(ctx context.Context, category domain.Category, query string) ([]domain.CatalogItem, error) {
	items, err := r.Source.Fetch(ctx, category, query)
	if err != nil {
		return nil, err
	}
	return Rank(query, items), nil
}
