// Package http provides HTTP handlers for user operations.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authHTTP "github.com/allisson/authd/internal/auth/http"
	apperrors "github.com/allisson/authd/internal/errors"
	"github.com/allisson/authd/internal/httputil"
	"github.com/allisson/authd/internal/user/http/dto"
	"github.com/allisson/authd/internal/user/usecase"
)

// UserHandler handles HTTP requests for user operations.
type UserHandler struct {
	userUseCase usecase.UseCase
	logger      *slog.Logger
}

// NewUserHandler creates a new user handler with required dependencies.
func NewUserHandler(userUseCase usecase.UseCase, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
		logger:      logger,
	}
}

// RegisterHandler creates a new user and issues their first session.
// POST /v1/users - No authentication required.
// Returns 201 Created with the user and their session pair.
func (h *UserHandler) RegisterHandler(c *gin.Context) {
	var req dto.RegisterUserRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	output, err := h.userUseCase.RegisterUser(c.Request.Context(), usecase.RegisterUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapUserWithSessionToResponse(output.User, output.Session))
}

// GetMeHandler returns the authenticated user.
// GET /v1/users/me - Requires authentication.
func (h *UserHandler) GetMeHandler(c *gin.Context) {
	principalID, ok := authHTTP.GetPrincipal(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	user, err := h.userUseCase.GetUserByID(c.Request.Context(), principalID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapUserToResponse(user))
}

// UpdateMeHandler replaces the authenticated user's identity and credentials.
// PUT /v1/users/me - Requires authentication.
// Every existing session is invalidated; the response carries the only
// surviving session pair.
func (h *UserHandler) UpdateMeHandler(c *gin.Context) {
	principalID, ok := authHTTP.GetPrincipal(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.UpdateUserRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	output, err := h.userUseCase.UpdateUser(c.Request.Context(), principalID, usecase.UpdateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapUserWithSessionToResponse(output.User, output.Session))
}
