package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-loyalty/modules/notification/dto"
	"go-loyalty/util/errs"
	"go-loyalty/util/logger"

	"github.com/google/uuid"
)

var ErrRecipientListUnavailable = errs.DatabaseFailureError("failed to fetch the recipient list")

// RecipientSource provides the ids to fan out to. The list is fetched once,
// up front, so no store resources are held while the broadcast paces itself.
type RecipientSource interface {
	ListRecipientIDs(ctx context.Context) ([]int64, error)
}

type BroadcastService interface {
	Broadcast(ctx context.Context, req *dto.BroadcastRequest) (*dto.BroadcastResult, error)
}

type PacingPolicy struct {
	BatchSize  int
	BatchPause time.Duration
	SendPause  time.Duration
}

type broadcastService struct {
	notifier   Notifier
	recipients RecipientSource
	pacing     PacingPolicy
}

func NewBroadcastService(notifier Notifier, recipients RecipientSource, pacing PacingPolicy) BroadcastService {
	return &broadcastService{
		notifier:   notifier,
		recipients: recipients,
		pacing:     pacing,
	}
}

// Broadcast delivers the content to every recipient, best-effort. Individual
// failures are classified and counted but never abort the run; only failure to
// obtain the recipient list aborts, before any send.
func (s *broadcastService) Broadcast(ctx context.Context, req *dto.BroadcastRequest) (*dto.BroadcastResult, error) {
	ids, err := s.recipients.ListRecipientIDs(ctx)
	if err != nil {
		logger.Log.Error(fmt.Sprintf("broadcast aborted, recipient list unavailable: %v", err))
		return nil, ErrRecipientListUnavailable
	}

	image, err := req.DecodeImage()
	if err != nil {
		return nil, errs.InputValidationError("image_base64 is not valid base64")
	}

	runID := uuid.NewString()
	logger.Log.Info(fmt.Sprintf("broadcast %s starting: %d recipients", runID, len(ids)))

	result := &dto.BroadcastResult{Total: len(ids)}
	for i, id := range ids {
		var sendErr error
		if image != nil {
			_, sendErr = s.notifier.SendImage(ctx, id, image, req.Caption)
		} else {
			sendErr = s.notifier.SendText(ctx, id, req.Text)
		}

		if sendErr != nil {
			result.FailureCount++
			if errors.Is(sendErr, ErrRecipientUnreachable) {
				logger.Log.Warn(fmt.Sprintf("broadcast %s: recipient %d unreachable: %v", runID, id, sendErr))
			} else {
				logger.Log.Error(fmt.Sprintf("broadcast %s: unexpected send failure for %d: %v", runID, id, sendErr))
			}
		} else {
			result.SuccessCount++
		}

		if i == len(ids)-1 {
			break
		}
		pause := s.pacing.SendPause
		if s.pacing.BatchSize > 0 && (i+1)%s.pacing.BatchSize == 0 {
			pause = s.pacing.BatchPause
		}
		if !sleep(ctx, pause) {
			logger.Log.Warn(fmt.Sprintf("broadcast %s cancelled after %d/%d sends", runID, i+1, len(ids)))
			return result, ctx.Err()
		}
	}

	logger.Log.Info(fmt.Sprintf("broadcast %s finished: %d sent, %d failed of %d",
		runID, result.SuccessCount, result.FailureCount, result.Total))
	return result, nil
}

// sleep waits for d or until the context is cancelled. Returns false on cancel.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
