package service

import (
	"context"
	"fmt"
	"time"

	"go-loyalty/modules/loyalty/internal/repository"
	notification "go-loyalty/modules/notification/service"
	"go-loyalty/util/logger"
)

// Sweeper deletes expired tokens and tears down their ephemeral messages. It
// runs as a background job for the lifetime of the process.
type Sweeper struct {
	tokenRepo repository.TokenRepository
	notifier  notification.Notifier
	interval  time.Duration
}

func NewSweeper(tokenRepo repository.TokenRepository, notifier notification.Notifier, interval time.Duration) *Sweeper {
	return &Sweeper{
		tokenRepo: tokenRepo,
		notifier:  notifier,
		interval:  interval,
	}
}

func (s *Sweeper) Name() string {
	return "token-sweeper"
}

func (s *Sweeper) Interval() time.Duration {
	return s.interval
}

func (s *Sweeper) Run(ctx context.Context) error {
	expired, err := s.tokenRepo.DeleteExpired(ctx, time.Now())
	if err != nil {
		return err
	}
	if len(expired) == 0 {
		return nil
	}

	for _, token := range expired {
		if token.MessageID == nil {
			continue
		}
		if err := s.notifier.DeleteMessage(ctx, token.CustomerID, *token.MessageID); err != nil {
			logger.Log.Warn(fmt.Sprintf("failed to delete expired token message %d for customer %d: %v",
				*token.MessageID, token.CustomerID, err))
		}
	}

	logger.Log.Info(fmt.Sprintf("swept %d expired token(s)", len(expired)))
	return nil
}
