package dto

import (
	"time"

	authDomain "github.com/allisson/authd/internal/auth/domain"
)

// SessionPairResponse contains a newly issued session pair.
// SECURITY: Both tokens are only returned once and must be saved securely.
type SessionPairResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// MapSessionPairToResponse converts a domain session pair to an API response.
func MapSessionPairToResponse(pair *authDomain.SessionPair) SessionPairResponse {
	return SessionPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.ExpiresAt,
	}
}

// InvalidateAllResponse reports the number of sessions removed.
type InvalidateAllResponse struct {
	SessionsRemoved int64 `json:"sessions_removed"`
}
