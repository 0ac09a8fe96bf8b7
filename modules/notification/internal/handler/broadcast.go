package handler

import (
	"go-loyalty/modules/notification/dto"
	"go-loyalty/modules/notification/service"
	"go-loyalty/util/errs"

	"github.com/gofiber/fiber/v3"
)

type BroadcastHandler struct {
	broadcastSvc service.BroadcastService
}

func NewBroadcastHandler(broadcastSvc service.BroadcastService) *BroadcastHandler {
	return &BroadcastHandler{broadcastSvc: broadcastSvc}
}

func (h *BroadcastHandler) Broadcast(c fiber.Ctx) error {
	var req dto.BroadcastRequest
	if err := c.Bind().Body(&req); err != nil {
		return errs.InputValidationError(err.Error())
	}
	if err := req.Validate(); err != nil {
		return errs.InputValidationError(err.Error())
	}

	resp, err := h.broadcastSvc.Broadcast(c.Context(), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}
