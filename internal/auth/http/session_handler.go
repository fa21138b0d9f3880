package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/authd/internal/auth/http/dto"
	authUseCase "github.com/allisson/authd/internal/auth/usecase"
	apperrors "github.com/allisson/authd/internal/errors"
	"github.com/allisson/authd/internal/httputil"
	customValidation "github.com/allisson/authd/internal/validation"
)

// SessionHandler handles HTTP requests for the session token lifecycle.
type SessionHandler struct {
	sessionUseCase authUseCase.SessionUseCase
	logger         *slog.Logger
}

// NewSessionHandler creates a new session handler with required dependencies.
func NewSessionHandler(
	sessionUseCase authUseCase.SessionUseCase,
	logger *slog.Logger,
) *SessionHandler {
	return &SessionHandler{
		sessionUseCase: sessionUseCase,
		logger:         logger,
	}
}

// LoginHandler verifies credentials and issues a new session pair.
// POST /v1/login - No authentication required.
// Returns 201 Created with the access and refresh tokens.
func (h *SessionHandler) LoginHandler(c *gin.Context) {
	var req dto.LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	pair, err := h.sessionUseCase.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapSessionPairToResponse(pair))
}

// RefreshHandler redeems a refresh token for a new session pair.
// POST /v1/refresh - No authentication required; the refresh token is the credential.
// Returns 201 Created with the new pair. The redeemed token is gone afterwards.
func (h *SessionHandler) RefreshHandler(c *gin.Context) {
	var req dto.RefreshRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	pair, err := h.sessionUseCase.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapSessionPairToResponse(pair))
}

// LogoutHandler removes the session behind the presented access token.
// POST /v1/logout - Requires authentication.
// Returns 204 No Content on success, 404 if the session was already gone.
func (h *SessionHandler) LogoutHandler(c *gin.Context) {
	accessToken, ok := GetAccessToken(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	if err := h.sessionUseCase.Logout(c.Request.Context(), accessToken); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// InvalidateAllHandler removes every session belonging to the principal.
// POST /v1/sessions/invalidate - Requires authentication.
// Returns 200 OK with the number of sessions removed.
func (h *SessionHandler) InvalidateAllHandler(c *gin.Context) {
	principalID, ok := GetPrincipal(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	count, err := h.sessionUseCase.InvalidateAll(c.Request.Context(), principalID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.InvalidateAllResponse{SessionsRemoved: count})
}
