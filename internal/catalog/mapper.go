package catalog

import (
	"github.com/mmcdole/streambox/internal/domain"
)

const (
	fallbackTitle       = "Untitled"
	fallbackDescription = "No description available"

	mediaTypePerson = "person"
	maxRating       = 10.0
)

// mapEntries converts raw catalog records into normalized items.
// Records that cannot be rendered are dropped, never repaired.
func mapEntries(entries []catalogEntry, category domain.Category, imageBaseURL string) []domain.CatalogItem {
	items := make([]domain.CatalogItem, 0, len(entries))
	for _, e := range entries {
		item, ok := mapEntry(e, category, imageBaseURL)
		if !ok {
			continue
		}
		items = append(items, item)
	}
	return items
}

// mapEntry normalizes a single record. ok is false when the record is a
// person, is missing identity or artwork, or yields no thumbnail.
func mapEntry(e catalogEntry, category domain.Category, imageBaseURL string) (domain.CatalogItem, bool) {
	if e.MediaType == mediaTypePerson {
		return domain.CatalogItem{}, false
	}
	if e.ID == 0 || (e.Title == "" && e.Name == "") || e.PosterPath == "" {
		return domain.CatalogItem{}, false
	}

	item := domain.CatalogItem{
		ID:          e.ID,
		Title:       firstNonEmpty(e.Title, e.Name, e.OriginalTitle, e.OriginalName, fallbackTitle),
		Description: firstNonEmpty(e.Overview, fallbackDescription),
		Thumbnail:   buildImageURL(imageBaseURL, e.PosterPath, PosterMedium),
		Images:      buildImages(imageBaseURL, e.BackdropPath, e.PosterPath),
		Rating:      clamp(e.VoteAverage, 0, maxRating),
		ReleaseDate: firstNonEmpty(e.ReleaseDate, e.FirstAirDate),
		Popularity:  max(e.Popularity, 0),
		MediaType:   mapMediaType(e.MediaType, category),
	}

	if item.Thumbnail == "" {
		return domain.CatalogItem{}, false
	}
	return item, true
}

// buildImages returns the backdrop then the poster, skipping missing ones
func buildImages(imageBaseURL, backdropPath, posterPath string) []string {
	var images []string
	if u := buildImageURL(imageBaseURL, backdropPath, BackdropLarge); u != "" {
		images = append(images, u)
	}
	if u := buildImageURL(imageBaseURL, posterPath, PosterLarge); u != "" {
		images = append(images, u)
	}
	return images
}

func mapMediaType(raw string, category domain.Category) domain.MediaType {
	switch domain.MediaType(raw) {
	case domain.MediaTypeMovie:
		return domain.MediaTypeMovie
	case domain.MediaTypeTV:
		return domain.MediaTypeTV
	}
	return category.DefaultMediaType()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}
