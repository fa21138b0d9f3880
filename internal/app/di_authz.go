package app

import (
	"fmt"

	authzRepository "github.com/allisson/authd/internal/authz/repository"
	authzService "github.com/allisson/authd/internal/authz/service"
	authzUseCase "github.com/allisson/authd/internal/authz/usecase"
)

// RBACStore is the full permission store surface: graph material for the
// provider plus per-principal assignments for the use case. Both driver
// implementations satisfy it.
type RBACStore interface {
	authzService.GraphSource
	authzUseCase.AssignmentRepository
}

// RBACRepository returns the permission graph repository based on database driver.
func (c *Container) RBACRepository() (RBACStore, error) {
	var err error
	c.rbacRepoInit.Do(func() {
		c.rbacRepo, err = c.initRBACRepository()
		if err != nil {
			c.initErrors["rbacRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["rbacRepo"]; exists {
		return nil, storedErr
	}
	return c.rbacRepo, nil
}

// GraphProvider returns the cached permission graph provider.
func (c *Container) GraphProvider() (*authzService.GraphProvider, error) {
	var err error
	c.graphProviderInit.Do(func() {
		c.graphProvider, err = c.initGraphProvider()
		if err != nil {
			c.initErrors["graphProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["graphProvider"]; exists {
		return nil, storedErr
	}
	return c.graphProvider, nil
}

// AuthzUseCase returns the authorization use case.
func (c *Container) AuthzUseCase() (authzUseCase.UseCase, error) {
	var err error
	c.authzUseCaseInit.Do(func() {
		c.authzUseCase, err = c.initAuthzUseCase()
		if err != nil {
			c.initErrors["authzUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["authzUseCase"]; exists {
		return nil, storedErr
	}
	return c.authzUseCase, nil
}

// initRBACRepository creates the permission graph repository based on the database driver.
func (c *Container) initRBACRepository() (RBACStore, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for rbac repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return authzRepository.NewPostgreSQLRBACRepository(db), nil
	case "mysql":
		return authzRepository.NewMySQLRBACRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initGraphProvider creates the cached graph provider over the permission store.
func (c *Container) initGraphProvider() (*authzService.GraphProvider, error) {
	rbacRepo, err := c.RBACRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get rbac repository for graph provider: %w", err)
	}

	return authzService.NewGraphProvider(
		rbacRepo,
		c.config.AuthzGraphRefreshInterval,
		c.config.AuthzFailOpenUnknownAction,
		c.Logger(),
	), nil
}

// initAuthzUseCase creates the authorization use case with all its dependencies.
func (c *Container) initAuthzUseCase() (authzUseCase.UseCase, error) {
	graphProvider, err := c.GraphProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get graph provider for authz use case: %w", err)
	}

	rbacRepo, err := c.RBACRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get rbac repository for authz use case: %w", err)
	}

	baseUseCase := authzUseCase.NewAuthzUseCase(graphProvider, rbacRepo)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for authz use case: %w", err)
		}
		return authzUseCase.NewUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}
