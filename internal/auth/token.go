package auth

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const localTokenPrefix = "local-"

// newLocalToken returns a unique, time-ordered token for a local login
func newLocalToken() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return localTokenPrefix + id.String(), nil
}

// IsLocalToken reports whether token was issued by a local login
func IsLocalToken(token string) bool {
	return strings.HasPrefix(token, localTokenPrefix)
}

// TokenExpiry reads the exp claim of a JWT without verifying its signature.
// Non-JWT tokens return the zero time.
func TokenExpiry(token string) time.Time {
	if token == "" || IsLocalToken(token) {
		return time.Time{}
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

// Expired reports whether token carries an expiry before now
func Expired(token string, now time.Time) bool {
	exp := TokenExpiry(token)
	return !exp.IsZero() && now.After(exp)
}
