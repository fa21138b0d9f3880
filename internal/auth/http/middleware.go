package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authService "github.com/allisson/authd/internal/auth/service"
	authzUseCase "github.com/allisson/authd/internal/authz/usecase"
	apperrors "github.com/allisson/authd/internal/errors"
	"github.com/allisson/authd/internal/httputil"
)

// AuthenticationMiddleware authenticates requests via Bearer token in the
// Authorization header.
//
// Token validation is purely cryptographic: the codec verifies the signature,
// algorithm, issuer and expiry without touching the session store. The session
// row only matters for refresh and logout.
//
// On success the principal ID and the raw token are stored in the request
// context for downstream handlers via GetPrincipal and GetAccessToken.
//
// Error handling:
//   - Missing or malformed Authorization header: 401 Unauthorized
//   - Invalid, expired or badly signed token: 401 Unauthorized
func AuthenticationMiddleware(codec authService.AccessTokenCodec, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Debug("authentication failed: missing authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		// Parse Bearer token (case-insensitive)
		const bearerPrefix = "bearer "
		if len(authHeader) < len(bearerPrefix) ||
			!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
			logger.Debug("authentication failed: malformed authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		accessToken := authHeader[len(bearerPrefix):]
		if accessToken == "" {
			logger.Debug("authentication failed: empty bearer token")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		principalID, err := codec.Decode(accessToken)
		if err != nil {
			logger.Debug("authentication failed",
				slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		ctx := WithPrincipal(c.Request.Context(), principalID)
		ctx = WithAccessToken(ctx, accessToken)
		c.Request = c.Request.WithContext(ctx)

		logger.Debug("authentication successful",
			slog.String("principal_id", principalID.String()))

		c.Next()
	}
}

// AuthorizationMiddleware checks that the authenticated principal is
// authorized for the named action via the permission graph.
//
// MUST be used after AuthenticationMiddleware.
//
// Error handling:
//   - No principal in context: 401 Unauthorized
//   - Principal lacks the action: 403 Forbidden
//   - Graph or store failures: 500 Internal Server Error
func AuthorizationMiddleware(
	authz authzUseCase.UseCase,
	action string,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		var principal *uuid.UUID
		if principalID, ok := GetPrincipal(c.Request.Context()); ok {
			principal = &principalID
		}

		if err := authzUseCase.RequireAuthenticated(principal); err != nil {
			logger.Debug("authorization failed: no authenticated principal in context")
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		if err := authz.RequireRole(c.Request.Context(), *principal, action); err != nil {
			if apperrors.Is(err, apperrors.ErrForbidden) {
				logger.Debug("authorization failed: insufficient permissions",
					slog.String("principal_id", principal.String()),
					slog.String("action", action))
			}
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		logger.Debug("authorization successful",
			slog.String("principal_id", principal.String()),
			slog.String("action", action))

		c.Next()
	}
}
