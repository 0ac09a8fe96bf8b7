package loyalty

import (
	"time"

	auditModule "go-loyalty/modules/audit"
	customerModule "go-loyalty/modules/customer"
	"go-loyalty/modules/loyalty/internal/handler"
	"go-loyalty/modules/loyalty/internal/repository"
	"go-loyalty/modules/loyalty/service"
	notificationModule "go-loyalty/modules/notification"
	notification "go-loyalty/modules/notification/service"
	"go-loyalty/util/module"
	"go-loyalty/util/registry"

	"github.com/gofiber/fiber/v3"
)

const (
	TokenServiceKey      registry.ServiceKey = "loyalty.TokenService"
	RedemptionServiceKey registry.ServiceKey = "loyalty.RedemptionService"
)

type Options struct {
	TokenTTL      time.Duration
	SweepInterval time.Duration
	FreeItemEvery int
}

// NewModule wires the token manager, the redemption engine and the expiry
// sweeper. Init expects the customer, audit and notification modules to be
// registered first.
func NewModule(mCtx *module.ModuleContext, opts Options) module.Module {
	return &moduleImp{mCtx: mCtx, opts: opts}
}

type moduleImp struct {
	mCtx *module.ModuleContext
	opts Options

	tokenSvc  service.TokenService
	redeemSvc service.RedemptionService
	sweeper   *service.Sweeper
}

func (m *moduleImp) APIVersion() string {
	return "v1"
}

func (m *moduleImp) Init(reg registry.ServiceRegistry) error {
	balances, err := registry.ResolveAs[service.BalanceStore](reg, customerModule.CustomerServiceKey)
	if err != nil {
		return err
	}
	auditor, err := registry.ResolveAs[service.Auditor](reg, auditModule.AuditServiceKey)
	if err != nil {
		return err
	}
	notifier, err := registry.ResolveAs[notification.Notifier](reg, notificationModule.NotifierKey)
	if err != nil {
		return err
	}

	tokenRepo := repository.NewTokenRepository(m.mCtx.DBCtx)
	m.tokenSvc = service.NewTokenService(tokenRepo, notifier, m.opts.TokenTTL)
	m.redeemSvc = service.NewRedemptionService(m.mCtx.Transactor, tokenRepo, balances, auditor, notifier, m.opts.FreeItemEvery)
	m.sweeper = service.NewSweeper(tokenRepo, notifier, m.opts.SweepInterval)

	reg.Register(TokenServiceKey, m.tokenSvc)
	reg.Register(RedemptionServiceKey, m.redeemSvc)
	return nil
}

func (m *moduleImp) RegisterRoutes(router fiber.Router) {
	h := handler.NewLoyaltyHandler(m.tokenSvc, m.redeemSvc)

	router.Post("/tokens", h.IssueToken)
	router.Post("/redemptions", h.Redeem)
}

func (m *moduleImp) Jobs() []module.Job {
	return []module.Job{m.sweeper}
}
