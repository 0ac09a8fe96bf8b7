package audit

import (
	"go-loyalty/modules/audit/internal/handler"
	"go-loyalty/modules/audit/internal/repository"
	"go-loyalty/modules/audit/service"
	"go-loyalty/util/module"
	"go-loyalty/util/registry"

	"github.com/gofiber/fiber/v3"
)

const (
	AuditServiceKey registry.ServiceKey = "audit.AuditService"
)

func NewModule(mCtx *module.ModuleContext) module.Module {
	return &moduleImp{mCtx: mCtx}
}

type moduleImp struct {
	mCtx *module.ModuleContext

	auditSvc service.AuditService
}

func (m *moduleImp) APIVersion() string {
	return "v1"
}

func (m *moduleImp) Init(reg registry.ServiceRegistry) error {
	repo := repository.NewAuditRepository(m.mCtx.DBCtx)
	m.auditSvc = service.NewAuditService(repo)

	reg.Register(AuditServiceKey, m.auditSvc)
	return nil
}

func (m *moduleImp) RegisterRoutes(router fiber.Router) {
	h := handler.NewReportHandler(m.auditSvc)

	reports := router.Group("/audit/reports")
	reports.Get("/waiters.csv", h.WaitersReport)
	reports.Get("/serviced.csv", h.ServicedReport)
}
