package search

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/mmcdole/streambox/internal/domain"
)

// FilterItem is a catalog item with the metadata needed to filter it
type FilterItem struct {
	Item  domain.CatalogItem
	Title string
	Type  domain.MediaType
}

// FilterResult is a filter match with highlight positions
type FilterResult struct {
	FilterItem
	MatchedIndexes []int // Rune positions in Title
	Score          int   // Higher is better
}

// index implements fuzzy.Source over pre-lowered titles
type index struct {
	items       []FilterItem
	lowerTitles []string
}

func (idx *index) String(i int) string { return idx.lowerTitles[i] }

func (idx *index) Len() int { return len(idx.items) }

func newIndex(items []domain.CatalogItem, types []domain.MediaType) *index {
	typeSet := makeTypeSet(types)
	idx := &index{}
	for _, it := range items {
		if typeSet != nil && !typeSet[it.MediaType] {
			continue
		}
		idx.items = append(idx.items, FilterItem{Item: it, Title: it.Title, Type: it.MediaType})
		idx.lowerTitles = append(idx.lowerTitles, strings.ToLower(it.Title))
	}
	return idx
}

// Filter fuzzy-matches query against item titles, best match first.
// types restricts the media types considered (nil = all).
func Filter(query string, items []domain.CatalogItem, types []domain.MediaType) []FilterResult {
	query = strings.TrimSpace(query)
	if query == "" || len(items) == 0 {
		return nil
	}

	idx := newIndex(items, types)
	if idx.Len() == 0 {
		return nil
	}

	matches := fuzzy.FindFrom(strings.ToLower(query), idx)

	results := make([]FilterResult, len(matches))
	for i, m := range matches {
		results[i] = FilterResult{
			FilterItem:     idx.items[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}
	return results
}

func makeTypeSet(types []domain.MediaType) map[domain.MediaType]bool {
	if len(types) == 0 {
		return nil
	}
	set := make(map[domain.MediaType]bool, len(types))
	for _, t := range types {
		set[t] = true
	}
	return set
}
