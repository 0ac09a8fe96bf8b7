package dto

import (
	"errors"

	customerDto "go-loyalty/modules/customer/dto"

	"github.com/shopspring/decimal"
)

// RedeemRequest is what the staff terminal submits when a customer presents a
// token code at the counter.
type RedeemRequest struct {
	Code          string          `json:"code"`
	Amount        decimal.Decimal `json:"amount"`
	PaidItems     int             `json:"paid_items"`
	FreeItemsUsed int             `json:"free_items_used"`
	ActorID       int64           `json:"actor_id"`
	ActorName     string          `json:"actor_name"`
}

func (r *RedeemRequest) Validate() error {
	var errs error
	if r.Code == "" {
		errs = errors.Join(errs, errors.New("code is required"))
	}
	if r.Amount.IsNegative() {
		errs = errors.Join(errs, errors.New("amount must not be negative"))
	}
	if r.PaidItems < 0 {
		errs = errors.Join(errs, errors.New("paid_items must not be negative"))
	}
	if r.FreeItemsUsed < 0 {
		errs = errors.Join(errs, errors.New("free_items_used must not be negative"))
	}
	if r.ActorID <= 0 {
		errs = errors.Join(errs, errors.New("actor_id must be a positive integer"))
	}
	return errs
}

// RedeemResponse is the customer's state after the redemption committed.
type RedeemResponse struct {
	Balances        customerDto.BalanceSnapshot `json:"balances"`
	FreeItemsEarned int                         `json:"free_items_earned"`

	DiscountPercent    int             `json:"discount_percent"`
	NextTierThreshold  decimal.Decimal `json:"next_tier_threshold"`
	TierProgressPct    int             `json:"tier_progress_pct"`
	AmountToNextTier   decimal.Decimal `json:"amount_to_next_tier"`
	ItemsTowardFree    int             `json:"items_toward_free"`
	ItemsNeededForFree int             `json:"items_needed_for_free"`
}
