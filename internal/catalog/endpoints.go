package catalog

import (
	"fmt"
	"strings"

	"github.com/mmcdole/streambox/internal/domain"
)

const (
	DefaultBaseURL      = "https://api.themoviedb.org/3"
	DefaultImageBaseURL = "https://image.tmdb.org/t/p"
)

// Catalog API paths
const (
	pathTrendingAll    = "/trending/all/week"
	pathTrendingMovies = "/trending/movie/week"
	pathTrendingTV     = "/trending/tv/week"
	pathSearchMulti    = "/search/multi"
	pathSearchMovie    = "/search/movie"
	pathSearchTV       = "/search/tv"
)

// Image size variants
const (
	PosterSmall    = "/w185"
	PosterMedium   = "/w342"
	PosterLarge    = "/w500"
	PosterOriginal = "/original"

	BackdropSmall    = "/w300"
	BackdropMedium   = "/w780"
	BackdropLarge    = "/w1280"
	BackdropOriginal = "/original"
)

// endpoint is a resolved catalog request
type endpoint struct {
	Path  string
	Query string // empty for trending requests
}

// resolveEndpoint picks the search or trending path for a category.
// ok is false for categories the catalog has no content for.
func resolveEndpoint(category domain.Category, query string) (endpoint, bool) {
	query = strings.TrimSpace(query)

	if query != "" {
		switch category {
		case domain.CategoryAll:
			return endpoint{Path: pathSearchMulti, Query: query}, true
		case domain.CategoryMovies:
			return endpoint{Path: pathSearchMovie, Query: query}, true
		case domain.CategoryShows:
			return endpoint{Path: pathSearchTV, Query: query}, true
		}
		return endpoint{}, false
	}

	switch category {
	case domain.CategoryAll:
		return endpoint{Path: pathTrendingAll}, true
	case domain.CategoryMovies:
		return endpoint{Path: pathTrendingMovies}, true
	case domain.CategoryShows:
		return endpoint{Path: pathTrendingTV}, true
	}
	return endpoint{}, false
}

// detailsPath returns the path of a single title
func detailsPath(mediaType domain.MediaType, id int) string {
	if mediaType == domain.MediaTypeTV {
		return fmt.Sprintf("/tv/%d", id)
	}
	return fmt.Sprintf("/movie/%d", id)
}

// buildImageURL resolves an image path against the image base URL
func buildImageURL(imageBaseURL, path, size string) string {
	if path == "" {
		return ""
	}
	return imageBaseURL + size + path
}

// WebURL returns the public web page of a catalog item
func WebURL(item domain.CatalogItem) string {
	return fmt.Sprintf("https://www.themoviedb.org/%s/%d", item.MediaType, item.ID)
}
