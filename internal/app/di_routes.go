package app

import (
	"fmt"

	"github.com/allisson/evently/internal/database"
	routeHTTP "github.com/allisson/evently/internal/route/http"
	routeRepository "github.com/allisson/evently/internal/route/repository"
	routeUseCase "github.com/allisson/evently/internal/route/usecase"
)

// RouteRepository returns the route repository instance for the configured driver.
func (c *Container) RouteRepository() (routeUseCase.RouteRepository, error) {
	var err error
	c.routeRepositoryInit.Do(func() {
		c.routeRepository, err = c.initRouteRepository()
		if err != nil {
			c.initErrors["routeRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["routeRepository"]; exists {
		return nil, storedErr
	}
	return c.routeRepository, nil
}

// RouteUseCase returns the route use case instance.
func (c *Container) RouteUseCase() (routeUseCase.RouteUseCase, error) {
	var err error
	c.routeUseCaseInit.Do(func() {
		c.routeUseCase, err = c.initRouteUseCase()
		if err != nil {
			c.initErrors["routeUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["routeUseCase"]; exists {
		return nil, storedErr
	}
	return c.routeUseCase, nil
}

// RouteHandler returns a new route HTTP handler.
func (c *Container) RouteHandler() (*routeHTTP.RouteHandler, error) {
	useCase, err := c.RouteUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get route use case for route handler: %w", err)
	}
	return routeHTTP.NewRouteHandler(useCase, c.Logger()), nil
}

// initRouteRepository creates the route repository for the configured driver.
func (c *Container) initRouteRepository() (routeUseCase.RouteRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for route repository: %w", err)
	}

	switch {
	case database.IsPostgres(c.config.DBDriver):
		return routeRepository.NewPostgreSQLRouteRepository(db), nil
	case c.config.DBDriver == "mysql":
		return routeRepository.NewMySQLRouteRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initRouteUseCase creates the route use case, decorated with metrics when enabled.
func (c *Container) initRouteUseCase() (routeUseCase.RouteUseCase, error) {
	repo, err := c.RouteRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get route repository for route use case: %w", err)
	}

	useCase := routeUseCase.NewRouteUseCase(repo)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for route use case: %w", err)
		}
		useCase = routeUseCase.NewRouteUseCaseWithMetrics(useCase, businessMetrics)
	}

	return useCase, nil
}
