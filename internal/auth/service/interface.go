// Package service provides token primitives for the session lifecycle:
// signed access token encoding/decoding and opaque refresh token generation.
package service

import (
	"time"

	"github.com/google/uuid"
)

// AccessTokenCodec signs and verifies access tokens.
type AccessTokenCodec interface {
	// Encode produces a signed access token for the principal.
	// Returns the token and its expiry.
	Encode(principalID uuid.UUID) (token string, expiresAt time.Time, err error)

	// Decode verifies the token signature and expiry and returns the principal
	// it was issued to. Returns ErrMalformedToken, ErrBadSignature or
	// ErrTokenExpired, all of which unwrap to ErrUnauthorized.
	Decode(token string) (uuid.UUID, error)
}

// RefreshTokenService generates opaque refresh tokens.
type RefreshTokenService interface {
	// GenerateToken creates a new cryptographically secure random token.
	GenerateToken() (string, error)
}

// PasswordService defines operations for password hashing and verification.
// Implementations must use an industry-standard slow hashing algorithm
// (e.g., bcrypt, argon2) with per-password salts.
type PasswordService interface {
	// HashPassword hashes a plain text password for storage.
	HashPassword(plainPassword string) (string, error)

	// ComparePassword compares a plain text password against a stored hash.
	// Returns true on match. This is constant-time to prevent timing attacks.
	ComparePassword(plainPassword string, hashedPassword string) bool
}
