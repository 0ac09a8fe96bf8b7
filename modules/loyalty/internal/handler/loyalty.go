package handler

import (
	"go-loyalty/modules/loyalty/dto"
	"go-loyalty/modules/loyalty/service"
	"go-loyalty/util/errs"

	"github.com/gofiber/fiber/v3"
)

type LoyaltyHandler struct {
	tokenSvc  service.TokenService
	redeemSvc service.RedemptionService
}

func NewLoyaltyHandler(tokenSvc service.TokenService, redeemSvc service.RedemptionService) *LoyaltyHandler {
	return &LoyaltyHandler{
		tokenSvc:  tokenSvc,
		redeemSvc: redeemSvc,
	}
}

func (h *LoyaltyHandler) IssueToken(c fiber.Ctx) error {
	var req dto.IssueTokenRequest
	if err := c.Bind().Body(&req); err != nil {
		return errs.InputValidationError(err.Error())
	}
	if err := req.Validate(); err != nil {
		return errs.InputValidationError(err.Error())
	}

	resp, err := h.tokenSvc.Issue(c.Context(), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *LoyaltyHandler) Redeem(c fiber.Ctx) error {
	var req dto.RedeemRequest
	if err := c.Bind().Body(&req); err != nil {
		return errs.InputValidationError(err.Error())
	}
	if err := req.Validate(); err != nil {
		return errs.InputValidationError(err.Error())
	}

	resp, err := h.redeemSvc.Redeem(c.Context(), &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
