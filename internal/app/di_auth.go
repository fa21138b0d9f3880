package app

import (
	"fmt"

	authHTTP "github.com/allisson/authd/internal/auth/http"
	authRepository "github.com/allisson/authd/internal/auth/repository"
	authService "github.com/allisson/authd/internal/auth/service"
	authUseCase "github.com/allisson/authd/internal/auth/usecase"
	userRepository "github.com/allisson/authd/internal/user/repository"
)

// AccessTokenCodec returns the signed access token codec.
func (c *Container) AccessTokenCodec() (authService.AccessTokenCodec, error) {
	var err error
	c.accessTokenCodecInit.Do(func() {
		c.accessTokenCodec, err = authService.NewJWTCodec(c.config)
		if err != nil {
			c.initErrors["accessTokenCodec"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["accessTokenCodec"]; exists {
		return nil, storedErr
	}
	return c.accessTokenCodec, nil
}

// RefreshTokenService returns the opaque refresh token generator.
func (c *Container) RefreshTokenService() authService.RefreshTokenService {
	c.refreshTokenServiceInit.Do(func() {
		c.refreshTokenService = authService.NewRefreshTokenService()
	})
	return c.refreshTokenService
}

// PasswordService returns the password hashing service.
func (c *Container) PasswordService() authService.PasswordService {
	c.passwordServiceInit.Do(func() {
		c.passwordService = authService.NewPasswordService()
	})
	return c.passwordService
}

// SessionRepository returns the session token repository based on database driver.
func (c *Container) SessionRepository() (authUseCase.SessionRepository, error) {
	var err error
	c.sessionRepoInit.Do(func() {
		c.sessionRepo, err = c.initSessionRepository()
		if err != nil {
			c.initErrors["sessionRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sessionRepo"]; exists {
		return nil, storedErr
	}
	return c.sessionRepo, nil
}

// SessionUseCase returns the session token lifecycle use case.
func (c *Container) SessionUseCase() (authUseCase.SessionUseCase, error) {
	var err error
	c.sessionUseCaseInit.Do(func() {
		c.sessionUseCase, err = c.initSessionUseCase()
		if err != nil {
			c.initErrors["sessionUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sessionUseCase"]; exists {
		return nil, storedErr
	}
	return c.sessionUseCase, nil
}

// SessionHandler returns the HTTP handler for the session lifecycle.
func (c *Container) SessionHandler() (*authHTTP.SessionHandler, error) {
	var err error
	c.sessionHandlerInit.Do(func() {
		c.sessionHandler, err = c.initSessionHandler()
		if err != nil {
			c.initErrors["sessionHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sessionHandler"]; exists {
		return nil, storedErr
	}
	return c.sessionHandler, nil
}

// initSessionRepository creates the session repository based on the database driver.
func (c *Container) initSessionRepository() (authUseCase.SessionRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for session repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return authRepository.NewPostgreSQLSessionRepository(db), nil
	case "mysql":
		return authRepository.NewMySQLSessionRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initSessionUseCase creates the session use case with all its dependencies.
func (c *Container) initSessionUseCase() (authUseCase.SessionUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for session use case: %w", err)
	}

	sessionRepo, err := c.SessionRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get session repository for session use case: %w", err)
	}

	userRepo, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for session use case: %w", err)
	}

	codec, err := c.AccessTokenCodec()
	if err != nil {
		return nil, fmt.Errorf("failed to get access token codec for session use case: %w", err)
	}

	credentialRepo := userRepository.NewCredentialAdapter(userRepo)

	baseUseCase := authUseCase.NewSessionUseCase(
		c.config,
		sessionRepo,
		credentialRepo,
		codec,
		c.RefreshTokenService(),
		c.PasswordService(),
		txManager,
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for session use case: %w", err)
		}
		return authUseCase.NewSessionUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initSessionHandler creates the session HTTP handler with all its dependencies.
func (c *Container) initSessionHandler() (*authHTTP.SessionHandler, error) {
	sessionUseCase, err := c.SessionUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get session use case for session handler: %w", err)
	}

	logger := c.Logger()

	return authHTTP.NewSessionHandler(sessionUseCase, logger), nil
}
