// Package http provides HTTP server implementation and request handlers.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/allisson/authd/internal/auth/http"
	authService "github.com/allisson/authd/internal/auth/service"
	authzUseCase "github.com/allisson/authd/internal/authz/usecase"
	"github.com/allisson/authd/internal/config"
	"github.com/allisson/authd/internal/metrics"
	userHTTP "github.com/allisson/authd/internal/user/http"
)

// Server represents the HTTP server.
type Server struct {
	server *http.Server
	router *gin.Engine
	db     *sql.DB
	logger *slog.Logger
}

// NewServer creates a new HTTP server. Call SetupRouter before Start to
// register routes; the database handle is only used by the readiness check.
func NewServer(
	db *sql.DB,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// RouterDependencies carries everything SetupRouter needs to build the route tree.
type RouterDependencies struct {
	Config           *config.Config
	AccessTokenCodec authService.AccessTokenCodec
	AuthzUseCase     authzUseCase.UseCase
	SessionHandler   *authHTTP.SessionHandler
	UserHandler      *userHTTP.UserHandler
	// MetricsProvider is optional; when set, HTTP request metrics are recorded.
	MetricsProvider *metrics.Provider
}

// SetupRouter builds the Gin router with all middleware and routes.
func (s *Server) SetupRouter(deps RouterDependencies) {
	gin.SetMode(deps.Config.GetGinMode())

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(
		deps.Config.CORSEnabled,
		deps.Config.CORSAllowOrigins,
		s.logger,
	); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if deps.MetricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(
			deps.MetricsProvider.MeterProvider(),
			deps.Config.MetricsNamespace,
		))
	}

	// Health and readiness endpoints
	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")

	// Public endpoints: registration, login and refresh carry their own
	// credentials in the request body.
	v1.POST("/users", deps.UserHandler.RegisterHandler)
	v1.POST("/login", deps.SessionHandler.LoginHandler)
	v1.POST("/refresh", deps.SessionHandler.RefreshHandler)

	// Authenticated endpoints
	authenticated := v1.Group("")
	authenticated.Use(authHTTP.AuthenticationMiddleware(deps.AccessTokenCodec, s.logger))
	if deps.Config.RateLimitEnabled {
		authenticated.Use(authHTTP.RateLimitMiddleware(
			deps.Config.RateLimitRequestsPerSec,
			deps.Config.RateLimitBurst,
			s.logger,
		))
	}

	authenticated.POST("/logout", deps.SessionHandler.LogoutHandler)
	authenticated.POST("/sessions/invalidate", deps.SessionHandler.InvalidateAllHandler)
	authenticated.GET("/users/me", deps.UserHandler.GetMeHandler)
	authenticated.PUT("/users/me",
		authHTTP.AuthorizationMiddleware(deps.AuthzUseCase, "user:update", s.logger),
		deps.UserHandler.UpdateMeHandler,
	)

	s.router = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server can serve traffic. The database
// is the only hard dependency, so readiness is its ping.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{}
	ready := true

	if s.db == nil {
		components["database"] = "error"
		ready = false
	} else {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := s.db.PingContext(pingCtx); err != nil {
			s.logger.Warn("readiness check failed", slog.Any("error", err))
			components["database"] = "error"
			ready = false
		} else {
			components["database"] = "ok"
		}
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": components,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": components,
	})
}
