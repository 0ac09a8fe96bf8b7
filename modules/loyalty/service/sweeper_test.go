package service

import (
	"context"
	"testing"
	"time"
)

func TestSweeperDeletesExpiredAndTheirMessages(t *testing.T) {
	tokenRepo := newFakeTokenRepo()
	notifier := &recordingNotifier{}
	ctx := context.Background()

	if _, err := tokenRepo.Insert(ctx, 1, "AAA111", time.Now().Add(-time.Minute)); err != nil {
		t.Fatal(err)
	}
	if err := tokenRepo.AttachMessage(ctx, 1, "AAA111", 50); err != nil {
		t.Fatal(err)
	}
	if _, err := tokenRepo.Insert(ctx, 2, "BBB222", time.Now().Add(-time.Second)); err != nil {
		t.Fatal(err)
	}
	if _, err := tokenRepo.Insert(ctx, 3, "CCC333", time.Now().Add(10*time.Minute)); err != nil {
		t.Fatal(err)
	}

	sweeper := NewSweeper(tokenRepo, notifier, time.Minute)
	if err := sweeper.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if _, ok := tokenRepo.tokens["AAA111"]; ok {
		t.Error("expired token AAA111 survived the sweep")
	}
	if _, ok := tokenRepo.tokens["BBB222"]; ok {
		t.Error("expired token BBB222 survived the sweep")
	}
	if _, ok := tokenRepo.tokens["CCC333"]; !ok {
		t.Error("live token CCC333 was swept")
	}
	// only AAA111 had a message attached
	if len(notifier.deleted) != 1 || notifier.deleted[0] != 50 {
		t.Errorf("deleted messages = %v, want [50]", notifier.deleted)
	}
}

func TestSweeperNoExpiredTokens(t *testing.T) {
	tokenRepo := newFakeTokenRepo()
	notifier := &recordingNotifier{}

	if _, err := tokenRepo.Insert(context.Background(), 1, "AAA111", time.Now().Add(10*time.Minute)); err != nil {
		t.Fatal(err)
	}

	sweeper := NewSweeper(tokenRepo, notifier, time.Minute)
	if err := sweeper.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(tokenRepo.tokens) != 1 {
		t.Error("live token removed on sweep")
	}
}
