package handler

import (
	"strconv"

	"go-loyalty/modules/customer/dto"
	"go-loyalty/modules/customer/service"
	"go-loyalty/util/errs"

	"github.com/gofiber/fiber/v3"
)

type CustomerHandler struct {
	custSvc service.CustomerService
}

func NewCustomerHandler(custSvc service.CustomerService) *CustomerHandler {
	return &CustomerHandler{custSvc: custSvc}
}

func (h *CustomerHandler) Register(c fiber.Ctx) error {
	var req dto.RegisterCustomerRequest
	if err := c.Bind().Body(&req); err != nil {
		return errs.InputValidationError(err.Error())
	}
	if err := req.Validate(); err != nil {
		return errs.InputValidationError(err.Error())
	}

	resp, err := h.custSvc.Register(c.Context(), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *CustomerHandler) UpdatePhone(c fiber.Ctx) error {
	id, err := customerID(c)
	if err != nil {
		return err
	}

	var req dto.UpdatePhoneRequest
	if err := c.Bind().Body(&req); err != nil {
		return errs.InputValidationError(err.Error())
	}
	if err := req.Validate(); err != nil {
		return errs.InputValidationError(err.Error())
	}

	if err := h.custSvc.UpdatePhone(c.Context(), id, req.Phone); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *CustomerHandler) GetProfile(c fiber.Ctx) error {
	id, err := customerID(c)
	if err != nil {
		return err
	}

	resp, err := h.custSvc.GetProfile(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (h *CustomerHandler) ClientsReport(c fiber.Ctx) error {
	report, err := h.custSvc.ClientsReportCSV(c.Context())
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="clients_report.csv"`)
	return c.Send(report)
}

func customerID(c fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.InputValidationError("id must be a positive integer")
	}
	return id, nil
}
