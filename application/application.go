package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go-loyalty/config"
	"go-loyalty/util/logger"
	"go-loyalty/util/module"
	"go-loyalty/util/registry"
)

type Application struct {
	config     config.Config
	httpServer HTTPServer
	reg        registry.ServiceRegistry
	jobs       []module.Job

	jobCancel context.CancelFunc
	jobWG     sync.WaitGroup
}

func New(config config.Config) *Application {
	return &Application{
		config:     config,
		httpServer: newHTTPServer(config),
		reg:        registry.NewServiceRegistry(),
	}
}

func (app *Application) RegisterModules(modules ...module.Module) error {
	for _, m := range modules {
		if err := m.Init(app.reg); err != nil {
			return fmt.Errorf("failed to init module: %w", err)
		}

		m.RegisterRoutes(app.httpServer.Group(fmt.Sprintf("/api/%s", m.APIVersion())))

		if jp, ok := m.(module.JobProvider); ok {
			app.jobs = append(app.jobs, jp.Jobs()...)
		}
	}
	return nil
}

// RegisterJobs adds background jobs that are not owned by any module.
func (app *Application) RegisterJobs(jobs ...module.Job) {
	app.jobs = append(app.jobs, jobs...)
}

func (app *Application) Run() error {
	app.httpServer.Start()

	ctx, cancel := context.WithCancel(context.Background())
	app.jobCancel = cancel
	for _, job := range app.jobs {
		app.jobWG.Add(1)
		go app.runJob(ctx, job)
	}

	return nil
}

// runJob drives one background loop for the process lifetime. A failing cycle
// is logged and the loop continues at the next tick; only cancellation stops it.
func (app *Application) runJob(ctx context.Context, job module.Job) {
	defer app.jobWG.Done()

	logger.Log.Info(fmt.Sprintf("Starting background job %s (interval %s)", job.Name(), job.Interval()))

	ticker := time.NewTicker(job.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Log.Info(fmt.Sprintf("Background job %s stopped", job.Name()))
			return
		case <-ticker.C:
			if err := job.Run(ctx); err != nil {
				logger.Log.Error(fmt.Sprintf("Background job %s failed, continuing: %v", job.Name(), err))
			}
		}
	}
}

func (app *Application) Shutdown() error {
	logger.Log.Info("Shutting down server")
	if err := app.httpServer.Shutdown(); err != nil {
		logger.Log.Error(fmt.Sprintf("Error shutting down server: %v", err))
	}
	logger.Log.Info("Server stopped")

	// จบ background jobs ก่อนปิด DB connection
	if app.jobCancel != nil {
		app.jobCancel()
	}
	app.jobWG.Wait()
	logger.Log.Info("Background jobs stopped")

	return nil
}
