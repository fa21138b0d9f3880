package service

import (
	"crypto/rand"
	"encoding/base64"

	apperrors "github.com/allisson/authd/internal/errors"
)

// refreshTokenService generates opaque refresh tokens from random bytes.
type refreshTokenService struct{}

// GenerateToken creates a new cryptographically secure 32-byte random token.
// The token is base64 URL-encoded for easy transmission and storage.
func (r *refreshTokenService) GenerateToken() (string, error) {
	randomBytes := make([]byte, 32)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", apperrors.Wrap(err, "failed to generate random token")
	}

	return base64.URLEncoding.EncodeToString(randomBytes), nil
}

// NewRefreshTokenService creates a new RefreshTokenService instance.
func NewRefreshTokenService() RefreshTokenService {
	return &refreshTokenService{}
}
