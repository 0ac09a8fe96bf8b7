package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go-loyalty/modules/notification/dto"
)

type fakeRecipients struct {
	ids []int64
	err error
}

func (f *fakeRecipients) ListRecipientIDs(_ context.Context) ([]int64, error) {
	return f.ids, f.err
}

type fakeNotifier struct {
	sent    []int64
	failFor map[int64]error
}

func (f *fakeNotifier) SendText(_ context.Context, recipient int64, _ string) error {
	if err, ok := f.failFor[recipient]; ok {
		return err
	}
	f.sent = append(f.sent, recipient)
	return nil
}

func (f *fakeNotifier) SendImage(_ context.Context, recipient int64, _ []byte, _ string) (int64, error) {
	if err, ok := f.failFor[recipient]; ok {
		return 0, err
	}
	f.sent = append(f.sent, recipient)
	return 100 + recipient, nil
}

func (f *fakeNotifier) DeleteMessage(_ context.Context, _ int64, _ int64) error {
	return nil
}

func noPacing() PacingPolicy {
	return PacingPolicy{BatchSize: 20}
}

func TestBroadcastCountsFailuresWithoutAborting(t *testing.T) {
	ids := make([]int64, 45)
	for i := range ids {
		ids[i] = int64(i + 1)
	}
	notifier := &fakeNotifier{failFor: map[int64]error{
		7:  fmt.Errorf("%w: blocked", ErrRecipientUnreachable),
		13: errors.New("connection reset"),
	}}

	svc := NewBroadcastService(notifier, &fakeRecipients{ids: ids}, noPacing())

	result, err := svc.Broadcast(context.Background(), &dto.BroadcastRequest{Text: "hello"})
	if err != nil {
		t.Fatalf("Broadcast: %v", err)
	}
	if result.Total != 45 || result.SuccessCount != 43 || result.FailureCount != 2 {
		t.Errorf("got %+v, want 43/2 of 45", result)
	}
	if len(notifier.sent) != 43 {
		t.Errorf("notifier recorded %d sends, want 43", len(notifier.sent))
	}
}

func TestBroadcastAbortsWhenRecipientListUnavailable(t *testing.T) {
	notifier := &fakeNotifier{}
	svc := NewBroadcastService(notifier, &fakeRecipients{err: errors.New("db down")}, noPacing())

	_, err := svc.Broadcast(context.Background(), &dto.BroadcastRequest{Text: "hello"})
	if !errors.Is(err, ErrRecipientListUnavailable) {
		t.Fatalf("err = %v, want ErrRecipientListUnavailable", err)
	}
	if len(notifier.sent) != 0 {
		t.Errorf("no sends expected before abort, got %d", len(notifier.sent))
	}
}

func TestBroadcastStopsOnCancel(t *testing.T) {
	ids := []int64{1, 2, 3, 4, 5}
	notifier := &fakeNotifier{}
	// a pause long enough that only cancellation can end the wait
	svc := NewBroadcastService(notifier, &fakeRecipients{ids: ids}, PacingPolicy{BatchSize: 20, SendPause: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := svc.Broadcast(ctx, &dto.BroadcastRequest{Text: "hello"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if result == nil || result.SuccessCount != 1 {
		t.Errorf("got %+v, want partial result with 1 send before cancel", result)
	}
}

func TestBroadcastSendsImages(t *testing.T) {
	notifier := &fakeNotifier{}
	svc := NewBroadcastService(notifier, &fakeRecipients{ids: []int64{1, 2}}, noPacing())

	// one transparent pixel, any valid payload works
	req := &dto.BroadcastRequest{ImageBase64: "aGVsbG8=", Caption: "promo"}
	if err := req.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	result, err := svc.Broadcast(context.Background(), req)
	if err != nil {
		t.Fatalf("Broadcast: %v", err)
	}
	if result.SuccessCount != 2 {
		t.Errorf("success = %d, want 2", result.SuccessCount)
	}
}
