package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"go-loyalty/modules/audit/dto"
	"go-loyalty/modules/audit/internal/model"
	"go-loyalty/modules/audit/internal/repository"
	"go-loyalty/util/errs"
	"go-loyalty/util/logger"
)

type AuditService interface {
	// Append writes one entry. Callers running inside a transaction get the
	// entry committed atomically with the rest of their work.
	Append(ctx context.Context, entry *dto.NewEntry) error

	WaitersReportCSV(ctx context.Context) ([]byte, error)
	ServicedReportCSV(ctx context.Context, from, to time.Time) ([]byte, error)
}

type auditService struct {
	auditRepo repository.AuditRepository
}

func NewAuditService(auditRepo repository.AuditRepository) AuditService {
	return &auditService{
		auditRepo: auditRepo,
	}
}

func (s *auditService) Append(ctx context.Context, entry *dto.NewEntry) error {
	if err := entry.Validate(); err != nil {
		return errs.InputValidationError(err.Error())
	}

	rec := &model.Entry{
		ActorID:    entry.ActorID,
		Action:     entry.Action,
		CustomerID: entry.CustomerID,
		Amount:     entry.Amount,
		ItemCount:  entry.ItemCount,
	}
	if entry.ActorName != "" {
		rec.ActorName = &entry.ActorName
	}

	if err := s.auditRepo.Append(ctx, rec); err != nil {
		logger.Log.Error(err.Error())
		return err
	}
	return nil
}

// WaitersReportCSV renders all-time per-waiter daily totals.
func (s *auditService) WaitersReportCSV(ctx context.Context) ([]byte, error) {
	stats, err := s.auditRepo.WaiterDailyStats(ctx)
	if err != nil {
		logger.Log.Error(err.Error())
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"Date", "Waiter", "Registered", "Transactions", "Amount"})

	for _, st := range stats {
		name := fmt.Sprintf("%d", st.ActorID)
		if st.ActorName != nil && *st.ActorName != "" {
			name = *st.ActorName
		}
		_ = w.Write([]string{
			st.Day.Format("2006-01-02"),
			name,
			fmt.Sprintf("%d", st.RegisteredCount),
			fmt.Sprintf("%d", st.TxCount),
			st.TxSum.StringFixed(2),
		})
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, errs.InternalError(fmt.Sprintf("failed to render waiters report: %v", err))
	}
	return buf.Bytes(), nil
}

// ServicedReportCSV renders per-day serviced-client totals for [from, to).
func (s *auditService) ServicedReportCSV(ctx context.Context, from, to time.Time) ([]byte, error) {
	stats, err := s.auditRepo.ServicedDailyStats(ctx, from, to)
	if err != nil {
		logger.Log.Error(err.Error())
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"Date", "Clients", "Transactions", "Amount"})

	for _, st := range stats {
		_ = w.Write([]string{
			st.Day.Format("2006-01-02"),
			fmt.Sprintf("%d", st.ClientCount),
			fmt.Sprintf("%d", st.TxCount),
			st.TxSum.StringFixed(2),
		})
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, errs.InternalError(fmt.Sprintf("failed to render serviced report: %v", err))
	}
	return buf.Bytes(), nil
}
