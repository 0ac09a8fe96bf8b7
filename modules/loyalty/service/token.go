package service

import (
	"context"
	"fmt"
	"time"

	"go-loyalty/modules/loyalty/dto"
	"go-loyalty/modules/loyalty/internal/model"
	"go-loyalty/modules/loyalty/internal/repository"
	"go-loyalty/modules/notification/qr"
	notification "go-loyalty/modules/notification/service"
	"go-loyalty/util/errs"
	"go-loyalty/util/logger"
)

type TokenService interface {
	// Issue creates a fresh single-use code. The token is durable before this
	// returns; QR delivery to the customer is best effort on top of that.
	Issue(ctx context.Context, req *dto.IssueTokenRequest) (*dto.IssueTokenResponse, error)
}

type tokenService struct {
	tokenRepo repository.TokenRepository
	notifier  notification.Notifier
	ttl       time.Duration
}

func NewTokenService(tokenRepo repository.TokenRepository, notifier notification.Notifier, ttl time.Duration) TokenService {
	return &tokenService{
		tokenRepo: tokenRepo,
		notifier:  notifier,
		ttl:       ttl,
	}
}

func (s *tokenService) Issue(ctx context.Context, req *dto.IssueTokenRequest) (*dto.IssueTokenResponse, error) {
	code, err := model.NewCode()
	if err != nil {
		return nil, errs.InternalError(fmt.Sprintf("failed to generate a token code: %v", err))
	}

	token, err := s.tokenRepo.Insert(ctx, req.CustomerID, code, time.Now().Add(s.ttl))
	if err != nil {
		logger.Log.Error(err.Error())
		return nil, err
	}

	if err := s.deliverQR(ctx, token); err != nil {
		// the code is already usable at the counter, so delivery failure
		// does not fail the issue
		logger.Log.Warn(fmt.Sprintf("failed to deliver token %s to customer %d: %v", token.Code, token.CustomerID, err))
	}

	return &dto.IssueTokenResponse{
		Code:      token.Code,
		ExpiresAt: token.ExpiresAt,
	}, nil
}

func (s *tokenService) deliverQR(ctx context.Context, token *model.Token) error {
	png, err := qr.Render(token.Code)
	if err != nil {
		return err
	}

	caption := fmt.Sprintf("Your redemption code: %s\nValid for %d minutes, single use.",
		token.Code, int(s.ttl.Minutes()))

	messageID, err := s.notifier.SendImage(ctx, token.CustomerID, png, caption)
	if err != nil {
		return err
	}
	if messageID == 0 {
		return nil
	}

	if err := s.tokenRepo.AttachMessage(ctx, token.CustomerID, token.Code, messageID); err != nil {
		logger.Log.Warn(fmt.Sprintf("failed to attach message %d to token %s: %v", messageID, token.Code, err))
	}
	return nil
}
