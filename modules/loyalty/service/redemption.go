package service

import (
	"context"
	"fmt"
	"time"

	auditDto "go-loyalty/modules/audit/dto"
	customerDto "go-loyalty/modules/customer/dto"
	"go-loyalty/modules/customer/reward"
	"go-loyalty/modules/loyalty/dto"
	"go-loyalty/modules/loyalty/internal/repository"
	notification "go-loyalty/modules/notification/service"
	"go-loyalty/util/errs"
	"go-loyalty/util/logger"
	"go-loyalty/util/storage/sqldb/transactor"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidOrExpiredToken  = errs.ResourceNotFoundError("token is invalid or expired")
	ErrInsufficientFreeCredit = errs.BusinessRuleError("customer does not have enough free credit")
)

// BalanceStore is the slice of the customer module the redemption engine
// needs. Both mutating calls join the engine's transaction through ctx.
type BalanceStore interface {
	GetBalancesForUpdate(ctx context.Context, id int64) (*customerDto.BalanceSnapshot, error)
	ApplyTransaction(ctx context.Context, id int64, amount decimal.Decimal, paidItemsAdded, freeItemsUsed, freeItemsEarned int) (*customerDto.BalanceSnapshot, error)
	Metrics(snapshot *customerDto.BalanceSnapshot) (reward.TierMetrics, int, int)
}

// Auditor appends audit entries inside the caller's transaction.
type Auditor interface {
	Append(ctx context.Context, entry *auditDto.NewEntry) error
}

type RedemptionService interface {
	Redeem(ctx context.Context, req *dto.RedeemRequest) (*dto.RedeemResponse, error)
}

type redemptionService struct {
	transactor    transactor.Transactor
	tokenRepo     repository.TokenRepository
	balances      BalanceStore
	auditor       Auditor
	notifier      notification.Notifier
	freeItemEvery int
}

func NewRedemptionService(
	tx transactor.Transactor,
	tokenRepo repository.TokenRepository,
	balances BalanceStore,
	auditor Auditor,
	notifier notification.Notifier,
	freeItemEvery int,
) RedemptionService {
	return &redemptionService{
		transactor:    tx,
		tokenRepo:     tokenRepo,
		balances:      balances,
		auditor:       auditor,
		notifier:      notifier,
		freeItemEvery: freeItemEvery,
	}
}

// Redeem settles a visit against a presented token. Token consumption, balance
// mutation and audit rows commit atomically; customer-facing messages go out
// only after the commit.
func (s *redemptionService) Redeem(ctx context.Context, req *dto.RedeemRequest) (*dto.RedeemResponse, error) {
	var resp *dto.RedeemResponse

	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context, registerPostCommitHook func(transactor.PostCommitHook)) error {
		token, err := s.tokenRepo.FindValidByCodeForUpdate(ctx, req.Code, time.Now())
		if err != nil {
			return err
		}
		if token == nil {
			return ErrInvalidOrExpiredToken
		}

		before, err := s.balances.GetBalancesForUpdate(ctx, token.CustomerID)
		if err != nil {
			return err
		}

		if req.FreeItemsUsed > before.FreeCredit {
			return ErrInsufficientFreeCredit
		}

		if before.TotalSpent.IsZero() && req.Amount.IsPositive() {
			if err := s.auditor.Append(ctx, &auditDto.NewEntry{
				ActorID:    req.ActorID,
				ActorName:  req.ActorName,
				Action:     auditDto.ActionRegistered,
				CustomerID: token.CustomerID,
			}); err != nil {
				return err
			}
		}

		itemCount := req.PaidItems + req.FreeItemsUsed
		amount := req.Amount
		if err := s.auditor.Append(ctx, &auditDto.NewEntry{
			ActorID:    req.ActorID,
			ActorName:  req.ActorName,
			Action:     auditDto.ActionTransaction,
			CustomerID: token.CustomerID,
			Amount:     &amount,
			ItemCount:  &itemCount,
		}); err != nil {
			return err
		}

		earned := reward.EarnedFreeItems(before.PaidCount, req.PaidItems, s.freeItemEvery)

		after, err := s.balances.ApplyTransaction(ctx, token.CustomerID, req.Amount, req.PaidItems, req.FreeItemsUsed, earned)
		if err != nil {
			return err
		}
		if after == nil {
			// the conditional update re-checks the credit guard
			return ErrInsufficientFreeCredit
		}

		deleted, err := s.tokenRepo.DeleteByCode(ctx, req.Code)
		if err != nil {
			return err
		}
		if !deleted {
			// another redemption consumed the token first
			return ErrInvalidOrExpiredToken
		}

		m, towards, needed := s.balances.Metrics(after)
		resp = &dto.RedeemResponse{
			Balances:           *after,
			FreeItemsEarned:    earned,
			DiscountPercent:    m.DiscountPercent,
			NextTierThreshold:  m.NextThreshold,
			TierProgressPct:    m.ProgressPercent,
			AmountToNextTier:   m.AmountToNext,
			ItemsTowardFree:    towards,
			ItemsNeededForFree: needed,
		}

		customerID := token.CustomerID
		messageID := token.MessageID
		result := *resp
		registerPostCommitHook(func(hctx context.Context) error {
			if messageID != nil {
				if err := s.notifier.DeleteMessage(hctx, customerID, *messageID); err != nil {
					logger.Log.Warn(fmt.Sprintf("failed to delete token message %d for customer %d: %v", *messageID, customerID, err))
				}
			}
			return s.notifier.SendText(hctx, customerID, resultText(&result))
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func resultText(r *dto.RedeemResponse) string {
	text := fmt.Sprintf("Thanks for your visit!\nTotal spent: %s\nDiscount: %d%%\nFree items available: %d",
		r.Balances.TotalSpent.StringFixed(2), r.DiscountPercent, r.Balances.FreeCredit)
	if r.FreeItemsEarned > 0 {
		text += fmt.Sprintf("\nYou just earned %d free item(s)!", r.FreeItemsEarned)
	} else if r.ItemsNeededForFree > 0 {
		text += fmt.Sprintf("\n%d more paid item(s) until your next free one.", r.ItemsNeededForFree)
	}
	return text
}
