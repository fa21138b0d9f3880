// Package domain defines the core session domain entities and types.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// SessionToken is a persisted session pair: the signed access token handed to
// the client plus the opaque refresh token that can mint a replacement pair.
// ExpiresAt bounds the refresh token; the access token carries its own expiry
// inside its signed claims.
type SessionToken struct {
	ID           uuid.UUID
	PrincipalID  uuid.UUID
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Expired reports whether the refresh token can no longer be redeemed.
// A token is still redeemable at its exact expiry instant.
func (s *SessionToken) Expired(now time.Time) bool {
	return s.ExpiresAt.Before(now)
}

// SessionPair is what the caller receives after issue, login or refresh.
type SessionPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}
