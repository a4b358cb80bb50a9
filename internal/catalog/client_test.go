package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/mmcdole/streambox/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const trendingBody = `{
  "page": 1,
  "results": [
    {"id": 1, "media_type": "movie", "title": "Dune", "overview": "Spice.", "poster_path": "/dune.jpg", "backdrop_path": "/dune-bg.jpg", "vote_average": 8.1, "popularity": 120.5, "release_date": "2021-10-22"},
    {"id": 2, "media_type": "tv", "name": "Severance", "poster_path": "/sev.jpg", "first_air_date": "2022-02-18", "vote_average": 12},
    {"id": 3, "media_type": "person", "name": "Somebody", "poster_path": "/p.jpg"},
    {"id": 4, "media_type": "movie", "title": "No Poster"},
    {"id": 0, "media_type": "movie", "title": "No Id", "poster_path": "/x.jpg"},
    {"id": 5, "media_type": "movie", "original_title": "Only Original", "poster_path": "/o.jpg"},
    {"id": 6, "name": "Untyped", "poster_path": "/u.jpg", "popularity": -3}
  ]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Options{BaseURL: srv.URL, ImageBaseURL: "https://img.test/t/p", APIKey: "k3y"}, nil)
}

func TestFetchTrendingNormalizes(t *testing.T) {
	var gotPath, gotKey string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("api_key")
		_, _ = w.Write([]byte(trendingBody))
	})

	items, err := c.Fetch(context.Background(), domain.CategoryAll, "  ")
	require.NoError(t, err)

	assert.Equal(t, "/trending/all/week", gotPath)
	assert.Equal(t, "k3y", gotKey)

	require.Len(t, items, 3)
	for _, it := range items {
		assert.NotZero(t, it.ID)
		assert.NotEmpty(t, it.Title)
		assert.NotEmpty(t, it.Thumbnail)
	}

	dune := items[0]
	assert.Equal(t, "Dune", dune.Title)
	assert.Equal(t, "Spice.", dune.Description)
	assert.Equal(t, "https://img.test/t/p/w342/dune.jpg", dune.Thumbnail)
	assert.Equal(t, []string{"https://img.test/t/p/w1280/dune-bg.jpg", "https://img.test/t/p/w500/dune.jpg"}, dune.Images)
	assert.Equal(t, 2021, dune.Year())
	assert.Equal(t, domain.MediaTypeMovie, dune.MediaType)

	sev := items[1]
	assert.Equal(t, "Severance", sev.Title)
	assert.Equal(t, "No description available", sev.Description)
	assert.Equal(t, 10.0, sev.Rating, "rating is clamped")
	assert.Equal(t, "2022-02-18", sev.ReleaseDate)
	assert.Equal(t, domain.MediaTypeTV, sev.MediaType)
	assert.Equal(t, []string{"https://img.test/t/p/w500/sev.jpg"}, sev.Images)

	untyped := items[2]
	assert.Equal(t, 6, untyped.ID)
	assert.Zero(t, untyped.Popularity)
	assert.Equal(t, domain.MediaTypeMovie, untyped.MediaType)
}

func TestFetchSearchEndpoints(t *testing.T) {
	tests := []struct {
		category domain.Category
		query    string
		path     string
	}{
		{domain.CategoryAll, "bat", "/search/multi"},
		{domain.CategoryMovies, "bat", "/search/movie"},
		{domain.CategoryShows, "the office", "/search/tv"},
		{domain.CategoryMovies, "", "/trending/movie/week"},
		{domain.CategoryShows, "", "/trending/tv/week"},
	}

	for _, tt := range tests {
		t.Run(string(tt.category)+"/"+tt.query, func(t *testing.T) {
			var gotPath, gotQuery string
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				gotQuery = r.URL.Query().Get("query")
				_, _ = w.Write([]byte(`{"results": []}`))
			})

			items, err := c.Fetch(context.Background(), tt.category, tt.query)
			require.NoError(t, err)
			assert.Empty(t, items)
			assert.Equal(t, tt.path, gotPath)
			assert.Equal(t, tt.query, gotQuery)
		})
	}
}

func TestFetchShowsDefaultsMediaType(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results": [{"id": 9, "name": "Show", "poster_path": "/s.jpg"}]}`))
	})

	items, err := c.Fetch(context.Background(), domain.CategoryShows, "")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, domain.MediaTypeTV, items[0].MediaType)
}

func TestFetchUnmappedCategoriesSkipNetwork(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})

	for _, cat := range []domain.Category{domain.CategoryPodcasts, domain.CategorySongs} {
		items, err := c.Fetch(context.Background(), cat, "")
		require.NoError(t, err)
		assert.Empty(t, items)

		items, err = c.Fetch(context.Background(), cat, "jazz")
		require.NoError(t, err)
		assert.Empty(t, items)
	}
	assert.Zero(t, calls.Load())
}

func TestFetchStatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := c.Fetch(context.Background(), domain.CategoryAll, "")
	var fe *domain.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, http.StatusUnauthorized, fe.Status)
	assert.Equal(t, "HTTP error! status: 401", fe.Error())
}

func TestFetchParseError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	})

	_, err := c.Fetch(context.Background(), domain.CategoryMovies, "")
	var fe *domain.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Zero(t, fe.Status)
}

func TestFetchNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	c := NewClient(Options{BaseURL: srv.URL}, nil)

	_, err := c.Fetch(context.Background(), domain.CategoryAll, "")
	var fe *domain.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Error(), "network request failed")
}

func TestFetchHonoursCancellation(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Fetch(ctx, domain.CategoryAll, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestDetails(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"id": 1396, "name": "Breaking Bad", "poster_path": "/bb.jpg", "first_air_date": "2008-01-20"}`))
	})

	item, err := c.Details(context.Background(), domain.MediaTypeTV, 1396)
	require.NoError(t, err)
	assert.Equal(t, "/tv/1396", gotPath)
	assert.Equal(t, "Breaking Bad", item.Title)
	assert.Equal(t, domain.MediaTypeTV, item.MediaType)
}

func TestDetailsIncompleteRecord(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": 5, "title": "Artless"}`))
	})

	_, err := c.Details(context.Background(), domain.MediaTypeMovie, 5)
	var fe *domain.FetchError
	require.ErrorAs(t, err, &fe)
}
