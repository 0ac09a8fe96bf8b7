package handler

import (
	"time"

	"go-loyalty/modules/audit/service"
	"go-loyalty/util/errs"

	"github.com/gofiber/fiber/v3"
)

const dateLayout = "2006-01-02"

type ReportHandler struct {
	auditSvc service.AuditService
}

func NewReportHandler(auditSvc service.AuditService) *ReportHandler {
	return &ReportHandler{auditSvc: auditSvc}
}

func (h *ReportHandler) WaitersReport(c fiber.Ctx) error {
	report, err := h.auditSvc.WaitersReportCSV(c.Context())
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="waiters_report.csv"`)
	return c.Send(report)
}

// ServicedReport covers [from, to] inclusive by day. Defaults to the last
// 30 days when the range is omitted.
func (h *ReportHandler) ServicedReport(c fiber.Ctx) error {
	now := time.Now()
	from := now.AddDate(0, 0, -30)
	to := now

	if q := c.Query("from"); q != "" {
		parsed, err := time.Parse(dateLayout, q)
		if err != nil {
			return errs.InputValidationError("from must be formatted as YYYY-MM-DD")
		}
		from = parsed
	}
	if q := c.Query("to"); q != "" {
		parsed, err := time.Parse(dateLayout, q)
		if err != nil {
			return errs.InputValidationError("to must be formatted as YYYY-MM-DD")
		}
		to = parsed
	}
	if to.Before(from) {
		return errs.InputValidationError("to must not precede from")
	}

	report, err := h.auditSvc.ServicedReportCSV(c.Context(), from, to.AddDate(0, 0, 1))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="serviced_report.csv"`)
	return c.Send(report)
}
