package customer

import (
	"go-loyalty/modules/customer/internal/handler"
	"go-loyalty/modules/customer/internal/repository"
	"go-loyalty/modules/customer/reward"
	"go-loyalty/modules/customer/service"
	"go-loyalty/util/module"
	"go-loyalty/util/registry"

	"github.com/gofiber/fiber/v3"
)

const (
	CustomerServiceKey registry.ServiceKey = "customer.CustomerService"
)

type Options struct {
	Tiers         reward.Table
	FreeItemEvery int
}

func NewModule(mCtx *module.ModuleContext, opts Options) module.Module {
	return &moduleImp{mCtx: mCtx, opts: opts}
}

type moduleImp struct {
	mCtx *module.ModuleContext
	opts Options

	custSvc service.CustomerService
}

func (m *moduleImp) APIVersion() string {
	return "v1"
}

func (m *moduleImp) Init(reg registry.ServiceRegistry) error {
	repo := repository.NewCustomerRepository(m.mCtx.DBCtx)
	m.custSvc = service.NewCustomerService(repo, m.opts.Tiers, m.opts.FreeItemEvery)

	reg.Register(CustomerServiceKey, m.custSvc)
	return nil
}

func (m *moduleImp) RegisterRoutes(router fiber.Router) {
	h := handler.NewCustomerHandler(m.custSvc)

	customers := router.Group("/customers")
	customers.Post("/", h.Register)
	customers.Get("/report.csv", h.ClientsReport)
	customers.Get("/:id", h.GetProfile)
	customers.Put("/:id/phone", h.UpdatePhone)
}
