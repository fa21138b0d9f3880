package domain

import (
	"github.com/allisson/authd/internal/errors"
)

// Session and token errors.
var (
	// ErrSessionNotFound indicates no session matches the presented token.
	ErrSessionNotFound = errors.Wrap(errors.ErrNotFound, "session not found")

	// ErrInvalidCredentials indicates the presented email or password is wrong.
	// It maps to 401 so the response never reveals which part failed.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")

	// ErrMalformedToken indicates the access token could not be parsed or was
	// signed with an unexpected algorithm.
	ErrMalformedToken = errors.Wrap(errors.ErrUnauthorized, "malformed access token")

	// ErrBadSignature indicates the access token signature did not verify.
	ErrBadSignature = errors.Wrap(errors.ErrUnauthorized, "invalid token signature")

	// ErrTokenExpired indicates the access token is past its expiry.
	ErrTokenExpired = errors.Wrap(errors.ErrUnauthorized, "token expired")

	// ErrInvalidRefreshToken covers both an unknown and an expired refresh
	// token. The two cases are deliberately indistinguishable so callers
	// cannot probe which refresh tokens ever existed.
	ErrInvalidRefreshToken = errors.Wrap(errors.ErrUnauthorized, "invalid refresh token")
)
