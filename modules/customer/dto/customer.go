package dto

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type RegisterCustomerRequest struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (r *RegisterCustomerRequest) Validate() error {
	var errs error
	if r.ID <= 0 {
		errs = errors.Join(errs, errors.New("id must be a positive integer"))
	}
	if r.Name == "" {
		errs = errors.Join(errs, errors.New("name is required"))
	}
	return errs
}

type UpdatePhoneRequest struct {
	Phone string `json:"phone"`
}

func (r *UpdatePhoneRequest) Validate() error {
	if r.Phone == "" {
		return errors.New("phone is required")
	}
	return nil
}

// BalanceSnapshot is the customer's raw running balances, without any derived
// reward metrics. Used by the redemption engine while holding the row lock.
type BalanceSnapshot struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	Phone      *string         `json:"phone,omitempty"`
	TotalSpent decimal.Decimal `json:"total_spent"`
	PaidCount  int             `json:"paid_count"`
	FreeCredit int             `json:"free_credit"`
}

// CustomerProfile is a snapshot plus the derived discount tier and free-item
// progress shown to customers and staff.
type CustomerProfile struct {
	BalanceSnapshot
	DiscountPercent    int             `json:"discount_percent"`
	NextTierThreshold  decimal.Decimal `json:"next_tier_threshold"`
	TierProgressPct    int             `json:"tier_progress_pct"`
	AmountToNextTier   decimal.Decimal `json:"amount_to_next_tier"`
	ItemsTowardFree    int             `json:"items_toward_free"`
	ItemsNeededForFree int             `json:"items_needed_for_free"`
	RegisteredAt       time.Time       `json:"registered_at"`
}
