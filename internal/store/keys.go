package store

// Storage keys. Every manager writes to a disjoint namespace.
const (
	// KeyToken holds the session bearer token
	KeyToken = "token"

	// KeyUser holds the JSON session user record
	KeyUser = "user"

	// KeyLocalUsers holds the JSON list of locally registered credentials
	KeyLocalUsers = "local_users"

	// KeyProfile holds the JSON cached profile
	KeyProfile = "@streambox_profile"

	// KeyTheme holds the theme preference ("light" or "dark")
	KeyTheme = "@streambox_theme"

	// KeyFavouritesPrefix is the prefix for per-user favourites (@streambox_favourites_{userID})
	KeyFavouritesPrefix = "@streambox_favourites_"
)

// FavouritesKey returns the favourites key for a user
func FavouritesKey(userID string) string {
	return KeyFavouritesPrefix + userID
}
