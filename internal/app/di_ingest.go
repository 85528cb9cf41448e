package app

import (
	"fmt"

	"github.com/allisson/evently/internal/database"
	eventRepository "github.com/allisson/evently/internal/event/repository"
	ingestHTTP "github.com/allisson/evently/internal/ingest/http"
	ingestUseCase "github.com/allisson/evently/internal/ingest/usecase"
	jobRepository "github.com/allisson/evently/internal/job/repository"
	"github.com/allisson/evently/internal/worker"
)

// JobRepository is the job store as seen by both the fan-out and the worker.
type JobRepository interface {
	ingestUseCase.JobRepository
	worker.JobCounter
}

// EventRepository returns the event repository instance for the configured driver.
func (c *Container) EventRepository() (ingestUseCase.EventRepository, error) {
	var err error
	c.eventRepositoryInit.Do(func() {
		c.eventRepository, err = c.initEventRepository()
		if err != nil {
			c.initErrors["eventRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["eventRepository"]; exists {
		return nil, storedErr
	}
	return c.eventRepository, nil
}

// JobRepository returns the job repository instance for the configured driver.
func (c *Container) JobRepository() (JobRepository, error) {
	var err error
	c.jobRepositoryInit.Do(func() {
		c.jobRepository, err = c.initJobRepository()
		if err != nil {
			c.initErrors["jobRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["jobRepository"]; exists {
		return nil, storedErr
	}
	return c.jobRepository, nil
}

// IngestUseCase returns the ingest use case instance.
func (c *Container) IngestUseCase() (ingestUseCase.IngestUseCase, error) {
	var err error
	c.ingestUseCaseInit.Do(func() {
		c.ingestUseCase, err = c.initIngestUseCase()
		if err != nil {
			c.initErrors["ingestUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["ingestUseCase"]; exists {
		return nil, storedErr
	}
	return c.ingestUseCase, nil
}

// EventHandler returns a new event HTTP handler.
func (c *Container) EventHandler() (*ingestHTTP.EventHandler, error) {
	useCase, err := c.IngestUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get ingest use case for event handler: %w", err)
	}
	return ingestHTTP.NewEventHandler(useCase, c.Logger()), nil
}

// initEventRepository creates the event repository for the configured driver.
func (c *Container) initEventRepository() (ingestUseCase.EventRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for event repository: %w", err)
	}

	switch {
	case database.IsPostgres(c.config.DBDriver):
		return eventRepository.NewPostgreSQLEventRepository(db), nil
	case c.config.DBDriver == "mysql":
		return eventRepository.NewMySQLEventRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initJobRepository creates the job repository for the configured driver.
func (c *Container) initJobRepository() (JobRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for job repository: %w", err)
	}

	switch {
	case database.IsPostgres(c.config.DBDriver):
		return jobRepository.NewPostgreSQLJobRepository(db), nil
	case c.config.DBDriver == "mysql":
		return jobRepository.NewMySQLJobRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initIngestUseCase creates the ingest use case, decorated with metrics when enabled and
// always traced.
func (c *Container) initIngestUseCase() (ingestUseCase.IngestUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for ingest use case: %w", err)
	}

	eventRepo, err := c.EventRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get event repository for ingest use case: %w", err)
	}

	routeRepo, err := c.RouteRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get route repository for ingest use case: %w", err)
	}

	jobRepo, err := c.JobRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get job repository for ingest use case: %w", err)
	}

	useCase := ingestUseCase.NewIngestUseCase(txManager, eventRepo, routeRepo, jobRepo, c.Logger())

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for ingest use case: %w", err)
		}
		useCase = ingestUseCase.NewIngestUseCaseWithMetrics(useCase, businessMetrics)
	}

	return ingestUseCase.NewIngestUseCaseWithTracing(useCase), nil
}
