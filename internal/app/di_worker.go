package app

import (
	"fmt"

	"github.com/allisson/evently/internal/worker"
)

// Worker returns the worker instance.
func (c *Container) Worker() (*worker.Worker, error) {
	var err error
	c.workerInit.Do(func() {
		c.worker, err = c.initWorker()
		if err != nil {
			c.initErrors["worker"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["worker"]; exists {
		return nil, storedErr
	}
	return c.worker, nil
}

// WorkerHealthServer returns the liveness server of the worker process.
func (c *Container) WorkerHealthServer() (*worker.HealthServer, error) {
	var err error
	c.workerHealthServerInit.Do(func() {
		c.workerHealthServer, err = c.initWorkerHealthServer()
		if err != nil {
			c.initErrors["workerHealthServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["workerHealthServer"]; exists {
		return nil, storedErr
	}
	return c.workerHealthServer, nil
}

func (c *Container) initWorker() (*worker.Worker, error) {
	jobRepo, err := c.JobRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get job repository for worker: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for worker: %w", err)
	}

	return worker.NewWorker(
		worker.Config{ProbeInterval: c.config.WorkerProbeInterval},
		jobRepo,
		businessMetrics,
		c.Logger(),
	), nil
}

func (c *Container) initWorkerHealthServer() (*worker.HealthServer, error) {
	w, err := c.Worker()
	if err != nil {
		return nil, fmt.Errorf("failed to get worker for health server: %w", err)
	}

	return worker.NewHealthServer(c.config.WorkerHost, c.config.WorkerPort, w, c.Logger()), nil
}
