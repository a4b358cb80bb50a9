package domain

import (
	"fmt"
	"strings"
	"time"
)

// MediaType distinguishes catalog content types
type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeTV    MediaType = "tv"
)

// Category is the content category a user browses
type Category string

const (
	CategoryAll      Category = "all"
	CategoryMovies   Category = "movies"
	CategoryShows    Category = "shows"
	CategoryPodcasts Category = "podcasts"
	CategorySongs    Category = "songs"
)

// Categories lists every category in display order
var Categories = []Category{CategoryAll, CategoryMovies, CategoryShows, CategoryPodcasts, CategorySongs}

// ParseCategory converts a user-supplied string into a Category
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// DefaultMediaType returns the media type implied by a category
// when the catalog record does not carry one.
func (c Category) DefaultMediaType() MediaType {
	if c == CategoryShows {
		return MediaTypeTV
	}
	return MediaTypeMovie
}

// CatalogItem is the canonical, normalized catalog record
type CatalogItem struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Thumbnail   string    `json:"thumbnail"`
	Images      []string  `json:"images,omitempty"`
	Rating      float64   `json:"rating"`      // 0-10
	ReleaseDate string    `json:"releaseDate"` // ISO date or empty
	Popularity  float64   `json:"popularity"`  // >= 0
	MediaType   MediaType `json:"mediaType"`
}

// Year returns the release year, or 0 when the release date is unknown
func (c CatalogItem) Year() int {
	if len(c.ReleaseDate) < 4 {
		return 0
	}
	var year int
	if _, err := fmt.Sscanf(c.ReleaseDate[:4], "%d", &year); err != nil {
		return 0
	}
	return year
}

// User is the identity attached to a session.
// Local logins only populate Username.
type User struct {
	ID        int    `json:"id,omitempty"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Gender    string `json:"gender,omitempty"`
	Image     string `json:"image,omitempty"`
}

// Key returns the identity used to namespace per-user data
func (u User) Key() string {
	if u.ID != 0 {
		return fmt.Sprintf("%d", u.ID)
	}
	return u.Username
}

// FullName joins first and last name
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Session is an authenticated user plus bearer token
type Session struct {
	User      *User
	Token     string
	ExpiresAt time.Time // zero when the token carries no expiry
}

// IsAuthenticated holds iff both user and token are present
func (s Session) IsAuthenticated() bool {
	return s.User != nil && s.Token != ""
}

// Profile is the user-editable profile record
type Profile struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	Avatar    string `json:"avatar,omitempty"`
}

// FullName joins first and last name
func (p Profile) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Credential is a locally registered login.
// Password holds a bcrypt hash, never the plain text.
type Credential struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Theme is the UI colour scheme preference
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Valid reports whether t is a known theme
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Opposite returns the other theme
func (t Theme) Opposite() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}
