package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"go-loyalty/modules/customer/dto"
	"go-loyalty/modules/customer/internal/model"
	"go-loyalty/modules/customer/internal/repository"
	"go-loyalty/modules/customer/reward"
	"go-loyalty/util/errs"
	"go-loyalty/util/logger"

	"github.com/shopspring/decimal"
)

var (
	ErrCustomerNotFound = errs.ResourceNotFoundError("the customer with given id was not found")
)

type CustomerService interface {
	Register(ctx context.Context, req *dto.RegisterCustomerRequest) (*dto.CustomerProfile, error)
	UpdatePhone(ctx context.Context, id int64, phone string) error
	GetProfile(ctx context.Context, id int64) (*dto.CustomerProfile, error)

	// GetBalancesForUpdate and ApplyTransaction are the redemption engine's
	// view of the balance store. Both are meant to run inside the engine's
	// transaction; the row lock taken by GetBalancesForUpdate holds until
	// that transaction ends.
	GetBalancesForUpdate(ctx context.Context, id int64) (*dto.BalanceSnapshot, error)
	ApplyTransaction(ctx context.Context, id int64, amount decimal.Decimal, paidItemsAdded, freeItemsUsed, freeItemsEarned int) (*dto.BalanceSnapshot, error)

	ListRecipientIDs(ctx context.Context) ([]int64, error)
	ClientsReportCSV(ctx context.Context) ([]byte, error)

	Metrics(snapshot *dto.BalanceSnapshot) (reward.TierMetrics, int, int)
}

type customerService struct {
	custRepo      repository.CustomerRepository
	tiers         reward.Table
	freeItemEvery int
}

func NewCustomerService(custRepo repository.CustomerRepository, tiers reward.Table, freeItemEvery int) CustomerService {
	return &customerService{
		custRepo:      custRepo,
		tiers:         tiers,
		freeItemEvery: freeItemEvery,
	}
}

func (s *customerService) Register(ctx context.Context, req *dto.RegisterCustomerRequest) (*dto.CustomerProfile, error) {
	customer, err := s.custRepo.Upsert(ctx, req.ID, req.Name)
	if err != nil {
		logger.Log.Error(err.Error())
		return nil, err
	}
	return s.profileOf(customer), nil
}

func (s *customerService) UpdatePhone(ctx context.Context, id int64, phone string) error {
	updated, err := s.custRepo.UpdatePhone(ctx, id, phone)
	if err != nil {
		logger.Log.Error(err.Error())
		return err
	}
	if !updated {
		return ErrCustomerNotFound
	}
	return nil
}

func (s *customerService) GetProfile(ctx context.Context, id int64) (*dto.CustomerProfile, error) {
	customer, err := s.custRepo.FindByID(ctx, id)
	if err != nil {
		logger.Log.Error(err.Error())
		return nil, err
	}
	if customer == nil {
		return nil, ErrCustomerNotFound
	}
	return s.profileOf(customer), nil
}

func (s *customerService) GetBalancesForUpdate(ctx context.Context, id int64) (*dto.BalanceSnapshot, error) {
	customer, err := s.custRepo.FindByIDForUpdate(ctx, id)
	if err != nil {
		logger.Log.Error(err.Error())
		return nil, err
	}
	if customer == nil {
		return nil, ErrCustomerNotFound
	}
	return snapshotOf(customer), nil
}

func (s *customerService) ApplyTransaction(ctx context.Context, id int64, amount decimal.Decimal, paidItemsAdded, freeItemsUsed, freeItemsEarned int) (*dto.BalanceSnapshot, error) {
	customer, err := s.custRepo.ApplyTransaction(ctx, id, amount, paidItemsAdded, freeItemsUsed, freeItemsEarned)
	if err != nil {
		logger.Log.Error(err.Error())
		return nil, err
	}
	if customer == nil {
		// the statement's own guard rejected the update
		return nil, nil
	}
	return snapshotOf(customer), nil
}

func (s *customerService) ListRecipientIDs(ctx context.Context) ([]int64, error) {
	return s.custRepo.ListIDs(ctx)
}

// ClientsReportCSV renders every customer with derived reward metrics, in
// registration order.
func (s *customerService) ClientsReportCSV(ctx context.Context) ([]byte, error) {
	customers, err := s.custRepo.ListAll(ctx)
	if err != nil {
		logger.Log.Error(err.Error())
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"Name", "Phone", "Total spent", "Paid items", "Free available", "Discount %", "Registered"})

	for _, c := range customers {
		phone := "N/A"
		if c.Phone != nil {
			phone = *c.Phone
		}
		m := s.tiers.MetricsFor(c.TotalSpent)
		_ = w.Write([]string{
			c.Name,
			phone,
			c.TotalSpent.StringFixed(2),
			fmt.Sprintf("%d", c.PaidCount),
			fmt.Sprintf("%d", c.FreeCredit),
			fmt.Sprintf("%d", m.DiscountPercent),
			c.RegisteredAt.Format("2006-01-02 15:04:05"),
		})
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, errs.InternalError(fmt.Sprintf("failed to render clients report: %v", err))
	}
	return buf.Bytes(), nil
}

// Metrics derives discount tier metrics and free-item progress for a snapshot.
func (s *customerService) Metrics(snapshot *dto.BalanceSnapshot) (reward.TierMetrics, int, int) {
	m := s.tiers.MetricsFor(snapshot.TotalSpent)
	towards, needed := reward.FreeItemProgress(snapshot.PaidCount, s.freeItemEvery)
	return m, towards, needed
}

func snapshotOf(c *model.Customer) *dto.BalanceSnapshot {
	return &dto.BalanceSnapshot{
		ID:         c.ID,
		Name:       c.Name,
		Phone:      c.Phone,
		TotalSpent: c.TotalSpent,
		PaidCount:  c.PaidCount,
		FreeCredit: c.FreeCredit,
	}
}

func (s *customerService) profileOf(c *model.Customer) *dto.CustomerProfile {
	snapshot := snapshotOf(c)
	m, towards, needed := s.Metrics(snapshot)
	return &dto.CustomerProfile{
		BalanceSnapshot:    *snapshot,
		DiscountPercent:    m.DiscountPercent,
		NextTierThreshold:  m.NextThreshold,
		TierProgressPct:    m.ProgressPercent,
		AmountToNextTier:   m.AmountToNext,
		ItemsTowardFree:    towards,
		ItemsNeededForFree: needed,
		RegisteredAt:       c.RegisteredAt,
	}
}
