package dto

import (
	"time"

	authDomain "github.com/allisson/authd/internal/auth/domain"
	"github.com/allisson/authd/internal/user/domain"
)

// UserResponse represents a user in API responses (excludes the password hash).
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MapUserToResponse converts a domain user to an API response.
func MapUserToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID.String(),
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// SessionResponse contains a session pair issued alongside a user operation.
// SECURITY: Both tokens are only returned once and must be saved securely.
type SessionResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// UserWithSessionResponse bundles a user with a freshly issued session pair.
type UserWithSessionResponse struct {
	User    UserResponse    `json:"user"`
	Session SessionResponse `json:"session"`
}

// MapUserWithSessionToResponse converts a user and session pair to an API response.
func MapUserWithSessionToResponse(user *domain.User, pair *authDomain.SessionPair) UserWithSessionResponse {
	return UserWithSessionResponse{
		User: MapUserToResponse(user),
		Session: SessionResponse{
			AccessToken:  pair.AccessToken,
			RefreshToken: pair.RefreshToken,
			ExpiresAt:    pair.ExpiresAt,
		},
	}
}
