package notification

import (
	"go-loyalty/modules/notification/internal/handler"
	"go-loyalty/modules/notification/service"
	"go-loyalty/util/module"
	"go-loyalty/util/registry"

	customerModule "go-loyalty/modules/customer"

	"github.com/gofiber/fiber/v3"
)

const (
	NotifierKey         registry.ServiceKey = "notification.Notifier"
	BroadcastServiceKey registry.ServiceKey = "notification.BroadcastService"
)

func NewModule(mCtx *module.ModuleContext, notifier service.Notifier, pacing service.PacingPolicy) module.Module {
	return &moduleImp{mCtx: mCtx, notifier: notifier, pacing: pacing}
}

type moduleImp struct {
	mCtx     *module.ModuleContext
	notifier service.Notifier
	pacing   service.PacingPolicy

	broadcastSvc service.BroadcastService
}

func (m *moduleImp) APIVersion() string {
	return "v1"
}

func (m *moduleImp) Init(reg registry.ServiceRegistry) error {
	recipients, err := registry.ResolveAs[service.RecipientSource](reg, customerModule.CustomerServiceKey)
	if err != nil {
		return err
	}

	m.broadcastSvc = service.NewBroadcastService(m.notifier, recipients, m.pacing)

	reg.Register(NotifierKey, m.notifier)
	reg.Register(BroadcastServiceKey, m.broadcastSvc)
	return nil
}

func (m *moduleImp) RegisterRoutes(router fiber.Router) {
	h := handler.NewBroadcastHandler(m.broadcastSvc)
	router.Post("/broadcasts", h.Broadcast)
}
