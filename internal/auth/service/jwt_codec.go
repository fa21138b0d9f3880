package service

import (
	"crypto/sha256"
	"errors"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"

	authDomain "github.com/allisson/authd/internal/auth/domain"
	"github.com/allisson/authd/internal/config"
	apperrors "github.com/allisson/authd/internal/errors"
)

const (
	// accessTokenSubject is the fixed sub claim for session access tokens.
	accessTokenSubject = "auth"

	// principalClaim carries the principal UUID inside the token.
	principalClaim = "uid"
)

// jwtCodec implements AccessTokenCodec using HMAC-SHA512 signatures.
// The signing key is derived from the configured secret with HKDF-SHA256 so
// the raw secret is never used directly as key material.
type jwtCodec struct {
	signingKey []byte
	issuer     string
	expiration time.Duration
}

// NewJWTCodec creates an AccessTokenCodec from the application configuration.
// Returns an error if the configured secret is empty.
func NewJWTCodec(cfg *config.Config) (AccessTokenCodec, error) {
	if cfg.AccessTokenSecret == "" {
		return nil, apperrors.New("access token secret is not configured")
	}

	signingKey, err := deriveSigningKey([]byte(cfg.AccessTokenSecret))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to derive access token signing key")
	}

	return &jwtCodec{
		signingKey: signingKey,
		issuer:     cfg.AccessTokenIssuer,
		expiration: cfg.AccessTokenExpiration,
	}, nil
}

// deriveSigningKey uses HKDF-SHA256 to derive a 64-byte HMAC-SHA512 key from
// the configured secret. Info parameter: "access-token-signing-v1" (versioned
// for future algorithm changes).
func deriveSigningKey(secret []byte) ([]byte, error) {
	info := []byte("access-token-signing-v1")
	hkdf := hkdf.New(sha256.New, secret, nil, info)

	signingKey := make([]byte, 64)
	if _, err := io.ReadFull(hkdf, signingKey); err != nil {
		return nil, err
	}

	return signingKey, nil
}

// Encode produces a signed HS512 token with issuer, subject, issue and expiry
// claims plus the principal UUID.
func (j *jwtCodec) Encode(principalID uuid.UUID) (string, time.Time, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(j.expiration)

	claims := jwt.MapClaims{
		"iss":          j.issuer,
		"sub":          accessTokenSubject,
		"iat":          now.Unix(),
		"exp":          expiresAt.Unix(),
		principalClaim: principalID.String(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(j.signingKey)
	if err != nil {
		return "", time.Time{}, apperrors.Wrap(err, "failed to sign access token")
	}

	return token, expiresAt, nil
}

// Decode verifies the token and returns the principal it was issued to.
// Tokens signed with any algorithm other than HS512 are rejected before
// signature verification.
func (j *jwtCodec) Decode(tokenString string) (uuid.UUID, error) {
	token, err := jwt.Parse(
		tokenString,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok || t.Method.Alg() != jwt.SigningMethodHS512.Alg() {
				return nil, authDomain.ErrMalformedToken
			}
			return j.signingKey, nil
		},
		jwt.WithIssuer(j.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return uuid.Nil, authDomain.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return uuid.Nil, authDomain.ErrBadSignature
		default:
			return uuid.Nil, authDomain.ErrMalformedToken
		}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, authDomain.ErrMalformedToken
	}

	rawPrincipal, ok := claims[principalClaim].(string)
	if !ok {
		return uuid.Nil, authDomain.ErrMalformedToken
	}

	principalID, err := uuid.Parse(rawPrincipal)
	if err != nil {
		return uuid.Nil, authDomain.ErrMalformedToken
	}

	return principalID, nil
}
