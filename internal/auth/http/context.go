// Package http provides HTTP middleware and handlers for session operations.
package http

import (
	"context"

	"github.com/google/uuid"
)

// principalKey is a context key type for storing authenticated principal IDs.
type principalKey struct{}

// accessTokenKey is a context key type for storing the presented access token.
type accessTokenKey struct{}

// WithPrincipal stores an authenticated principal ID in the context.
// Called by the authentication middleware after successful token validation.
func WithPrincipal(ctx context.Context, principalID uuid.UUID) context.Context {
	return context.WithValue(ctx, principalKey{}, principalID)
}

// GetPrincipal retrieves the authenticated principal ID from the context.
// Returns (id, true) if present, or (uuid.Nil, false) if no principal was set.
func GetPrincipal(ctx context.Context) (uuid.UUID, bool) {
	principalID, ok := ctx.Value(principalKey{}).(uuid.UUID)
	return principalID, ok
}

// WithAccessToken stores the raw presented access token in the context.
// Logout needs the exact token string to remove its session row.
func WithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, accessTokenKey{}, token)
}

// GetAccessToken retrieves the raw presented access token from the context.
func GetAccessToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(accessTokenKey{}).(string)
	return token, ok
}
