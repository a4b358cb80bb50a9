package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/streambox/internal/domain"
)

func catalog() []domain.CatalogItem {
	return []domain.CatalogItem{
		{ID: 1, Title: "The Batman", MediaType: domain.MediaTypeMovie, Popularity: 90},
		{ID: 2, Title: "Batman Begins", MediaType: domain.MediaTypeMovie, Popularity: 40},
		{ID: 3, Title: "Batwoman", MediaType: domain.MediaTypeTV, Popularity: 20},
		{ID: 4, Title: "Dune", MediaType: domain.MediaTypeMovie, Popularity: 80},
		{ID: 5, Title: "batman", MediaType: domain.MediaTypeTV, Popularity: 1},
	}
}

func titles(items []domain.CatalogItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Title
	}
	return out
}

func TestFilter(t *testing.T) {
	results := Filter("batmn", catalog(), nil)
	require.NotEmpty(t, results)
	for _, r := range results {
		assert.NotEqual(t, 4, r.Item.ID)
		assert.NotEmpty(t, r.MatchedIndexes)
	}

	assert.Nil(t, Filter("  ", catalog(), nil))
	assert.Nil(t, Filter("dune", nil, nil))
}

func TestFilterByType(t *testing.T) {
	results := Filter("bat", catalog(), []domain.MediaType{domain.MediaTypeTV})
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, domain.MediaTypeTV, r.Type)
	}
}

func TestFilterHighlightsTitle(t *testing.T) {
	results := Filter("dune", catalog(), nil)
	require.Len(t, results, 1)
	assert.Equal(t, []int{0, 1, 2, 3}, results[0].MatchedIndexes)
}

func TestRank(t *testing.T) {
	ranked := Rank("batman", catalog())

	assert.Equal(t, []string{"batman", "Batman Begins", "The Batman"}, titles(ranked)[:3])
	assert.Equal(t, 5, ranked[0].ID)
	assert.Equal(t, "Dune", ranked[len(ranked)-1].Title)
}

func TestRankEmptyQueryKeepsOrder(t *testing.T) {
	in := catalog()
	assert.Equal(t, in, Rank("", in))
}

type staticSource []domain.CatalogItem

func (s staticSource) Fetch(context.Context, domain.Category, string) ([]domain.CatalogItem, error) {
	return s, nil
}

func TestRankedSource(t *testing.T) {
	src := RankedSource{Source: staticSource(catalog())}

	items, err := src.Fetch(context.Background(), domain.CategoryAll, "dune")
	require.NoError(t, err)
	assert.Equal(t, "Dune", items[0].Title)

	items, err = src.Fetch(context.Background(), domain.CategoryAll, "")
	require.NoError(t, err)
	assert.Equal(t, titles(catalog()), titles(items))
}
