package domain

import "context"

// CatalogSource fetches normalized catalog items (implemented by the catalog adapter)
type CatalogSource interface {
	// Fetch returns trending items for the category, or search results when
	// query is non-empty. Categories without upstream content return nil, nil.
	Fetch(ctx context.Context, category Category, query string) ([]CatalogItem, error)
}

// AuthResult contains the result of a successful remote authentication
type AuthResult struct {
	Token string
	User  User
}

// AuthClient is the remote credential service
type AuthClient interface {
	// Login exchanges credentials for a token and user record
	Login(ctx context.Context, username, password string) (*AuthResult, error)

	// Me returns the user identified by a bearer token
	Me(ctx context.Context, token string) (*User, error)
}
