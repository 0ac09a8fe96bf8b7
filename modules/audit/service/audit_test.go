package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"go-loyalty/modules/audit/dto"
	"go-loyalty/modules/audit/internal/model"
	"go-loyalty/util/errs"

	"github.com/shopspring/decimal"
)

type fakeAuditRepo struct {
	entries  []model.Entry
	waiters  []model.WaiterDailyStat
	serviced []model.ServicedDailyStat
}

func (f *fakeAuditRepo) Append(_ context.Context, entry *model.Entry) error {
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeAuditRepo) WaiterDailyStats(_ context.Context) ([]model.WaiterDailyStat, error) {
	return f.waiters, nil
}

func (f *fakeAuditRepo) ServicedDailyStats(_ context.Context, _, _ time.Time) ([]model.ServicedDailyStat, error) {
	return f.serviced, nil
}

func TestAppendRejectsUnknownAction(t *testing.T) {
	repo := &fakeAuditRepo{}
	svc := NewAuditService(repo)

	err := svc.Append(context.Background(), &dto.NewEntry{
		ActorID: 7, Action: "deleted", CustomerID: 42,
	})
	if errs.TypeOf(err) != errs.ErrInputValidation {
		t.Fatalf("err = %v, want input validation", err)
	}
	if len(repo.entries) != 0 {
		t.Error("invalid entry was stored")
	}
}

func TestAppendStoresEntry(t *testing.T) {
	repo := &fakeAuditRepo{}
	svc := NewAuditService(repo)

	amount := decimal.NewFromInt(500)
	items := 3
	err := svc.Append(context.Background(), &dto.NewEntry{
		ActorID: 7, ActorName: "Alice", Action: dto.ActionTransaction,
		CustomerID: 42, Amount: &amount, ItemCount: &items,
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if len(repo.entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(repo.entries))
	}
	stored := repo.entries[0]
	if stored.ActorName == nil || *stored.ActorName != "Alice" {
		t.Errorf("actor name = %v, want Alice", stored.ActorName)
	}
	if stored.Amount == nil || !stored.Amount.Equal(amount) {
		t.Errorf("amount = %v, want 500", stored.Amount)
	}
}

func TestWaitersReportCSV(t *testing.T) {
	name := "Alice"
	repo := &fakeAuditRepo{waiters: []model.WaiterDailyStat{
		{
			Day:             time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
			ActorID:         7,
			ActorName:       &name,
			RegisteredCount: 2,
			TxCount:         5,
			TxSum:           decimal.NewFromInt(1750),
		},
		{
			Day:     time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
			ActorID: 9,
			TxCount: 1,
			TxSum:   decimal.NewFromInt(200),
		},
	}}
	svc := NewAuditService(repo)

	report, err := svc.WaitersReportCSV(context.Background())
	if err != nil {
		t.Fatalf("WaitersReportCSV: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(report)), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want header + 2 rows", len(lines))
	}
	if lines[0] != "Date,Waiter,Registered,Transactions,Amount" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "2026-08-30,Alice,2,5,1750.00" {
		t.Errorf("row 1 = %q", lines[1])
	}
	// a waiter without a stored name falls back to the id
	if lines[2] != "2026-08-31,9,0,1,200.00" {
		t.Errorf("row 2 = %q", lines[2])
	}
}

func TestServicedReportCSV(t *testing.T) {
	repo := &fakeAuditRepo{serviced: []model.ServicedDailyStat{
		{
			Day:         time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
			ClientCount: 4,
			TxCount:     6,
			TxSum:       decimal.NewFromInt(2400),
		},
	}}
	svc := NewAuditService(repo)

	report, err := svc.ServicedReportCSV(context.Background(), time.Now().AddDate(0, 0, -7), time.Now())
	if err != nil {
		t.Fatalf("ServicedReportCSV: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(report)), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want header + 1 row", len(lines))
	}
	if lines[1] != "2026-08-31,4,6,2400.00" {
		t.Errorf("row = %q", lines[1])
	}
}
