package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go-loyalty/modules/customer/dto"
	"go-loyalty/modules/customer/internal/model"
	"go-loyalty/modules/customer/reward"

	"github.com/shopspring/decimal"
)

type fakeCustomerRepo struct {
	customers map[int64]*model.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[int64]*model.Customer)}
}

func (f *fakeCustomerRepo) Upsert(_ context.Context, id int64, name string) (*model.Customer, error) {
	c, ok := f.customers[id]
	if !ok {
		c = &model.Customer{ID: id, TotalSpent: decimal.Zero, RegisteredAt: time.Now()}
		f.customers[id] = c
	}
	c.Name = name
	copied := *c
	return &copied, nil
}

func (f *fakeCustomerRepo) UpdatePhone(_ context.Context, id int64, phone string) (bool, error) {
	c, ok := f.customers[id]
	if !ok {
		return false, nil
	}
	c.Phone = &phone
	return true, nil
}

func (f *fakeCustomerRepo) FindByID(_ context.Context, id int64) (*model.Customer, error) {
	c, ok := f.customers[id]
	if !ok {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

func (f *fakeCustomerRepo) FindByIDForUpdate(ctx context.Context, id int64) (*model.Customer, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeCustomerRepo) ApplyTransaction(_ context.Context, id int64, amount decimal.Decimal, paidItemsAdded, freeItemsUsed, freeItemsEarned int) (*model.Customer, error) {
	c, ok := f.customers[id]
	if !ok || c.FreeCredit < freeItemsUsed {
		return nil, nil
	}
	c.TotalSpent = c.TotalSpent.Add(amount)
	c.PaidCount += paidItemsAdded
	c.FreeCredit = c.FreeCredit - freeItemsUsed + freeItemsEarned
	copied := *c
	return &copied, nil
}

func (f *fakeCustomerRepo) ListIDs(_ context.Context) ([]int64, error) {
	var ids []int64
	for id := range f.customers {
		ids = append(ids, id)
	}
	return ids, nil
}

func (f *fakeCustomerRepo) ListAll(_ context.Context) ([]model.Customer, error) {
	var customers []model.Customer
	for _, c := range f.customers {
		customers = append(customers, *c)
	}
	return customers, nil
}

func newTestService(t *testing.T) (*fakeCustomerRepo, CustomerService) {
	t.Helper()
	tiers, err := reward.ParseTable("0:1,5000:2,10000:3")
	if err != nil {
		t.Fatal(err)
	}
	repo := newFakeCustomerRepo()
	return repo, NewCustomerService(repo, tiers, 6)
}

func TestRegisterComputesProfile(t *testing.T) {
	_, svc := newTestService(t)

	profile, err := svc.Register(context.Background(), &dto.RegisterCustomerRequest{ID: 42, Name: "Bea"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if profile.Name != "Bea" {
		t.Errorf("name = %q, want Bea", profile.Name)
	}
	if profile.DiscountPercent != 1 {
		t.Errorf("discount = %d, want base tier 1", profile.DiscountPercent)
	}
	if profile.ItemsNeededForFree != 6 {
		t.Errorf("items needed = %d, want 6", profile.ItemsNeededForFree)
	}
}

func TestRegisterIsIdempotentOnName(t *testing.T) {
	repo, svc := newTestService(t)
	repo.customers[42] = &model.Customer{
		ID: 42, Name: "Old", TotalSpent: decimal.NewFromInt(7000), PaidCount: 3,
		RegisteredAt: time.Now().Add(-time.Hour),
	}

	profile, err := svc.Register(context.Background(), &dto.RegisterCustomerRequest{ID: 42, Name: "New"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if profile.Name != "New" {
		t.Errorf("name = %q, want New", profile.Name)
	}
	if !profile.TotalSpent.Equal(decimal.NewFromInt(7000)) {
		t.Errorf("total spent reset on re-register: %s", profile.TotalSpent)
	}
	if profile.DiscountPercent != 2 {
		t.Errorf("discount = %d, want 2", profile.DiscountPercent)
	}
}

func TestGetProfileNotFound(t *testing.T) {
	_, svc := newTestService(t)

	_, err := svc.GetProfile(context.Background(), 999)
	if !errors.Is(err, ErrCustomerNotFound) {
		t.Fatalf("err = %v, want ErrCustomerNotFound", err)
	}
}

func TestUpdatePhoneNotFound(t *testing.T) {
	_, svc := newTestService(t)

	err := svc.UpdatePhone(context.Background(), 999, "+100000000")
	if !errors.Is(err, ErrCustomerNotFound) {
		t.Fatalf("err = %v, want ErrCustomerNotFound", err)
	}
}

func TestClientsReportCSV(t *testing.T) {
	repo, svc := newTestService(t)
	phone := "+100000000"
	repo.customers[42] = &model.Customer{
		ID: 42, Name: "Bea", Phone: &phone,
		TotalSpent: decimal.NewFromInt(7000), PaidCount: 8, FreeCredit: 1,
		RegisteredAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}

	report, err := svc.ClientsReportCSV(context.Background())
	if err != nil {
		t.Fatalf("ClientsReportCSV: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(report)), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want header + 1 row", len(lines))
	}
	if lines[1] != "Bea,+100000000,7000.00,8,1,2,2026-08-01 12:00:00" {
		t.Errorf("row = %q", lines[1])
	}
}

func TestClientsReportCSVMissingPhone(t *testing.T) {
	repo, svc := newTestService(t)
	repo.customers[42] = &model.Customer{
		ID: 42, Name: "Bea", TotalSpent: decimal.Zero,
		RegisteredAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}

	report, err := svc.ClientsReportCSV(context.Background())
	if err != nil {
		t.Fatalf("ClientsReportCSV: %v", err)
	}
	if !strings.Contains(string(report), "N/A") {
		t.Error("missing phone should render as N/A")
	}
}
