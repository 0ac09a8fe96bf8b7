package module

import (
	"context"
	"time"

	"go-loyalty/util/registry"
	"go-loyalty/util/storage/sqldb/transactor"

	"github.com/gofiber/fiber/v3"
)

type Module interface {
	APIVersion() string
	Init(reg registry.ServiceRegistry) error
	RegisterRoutes(r fiber.Router)
}

// Job is a long-lived background loop owned by a module (token sweep, daily
// backup). The application runs each job at its interval until shutdown.
type Job interface {
	Name() string
	Interval() time.Duration
	Run(ctx context.Context) error
}

// JobProvider is implemented by modules that own background jobs.
type JobProvider interface {
	Jobs() []Job
}

type ModuleContext struct {
	Transactor transactor.Transactor
	DBCtx      transactor.DBTXContext
}

func NewModuleContext(transactor transactor.Transactor, dbCtx transactor.DBTXContext) *ModuleContext {
	return &ModuleContext{
		Transactor: transactor,
		DBCtx:      dbCtx,
	}
}
