package config

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/loyalty?sslmode=disable")

	config, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if config.HTTPPort != 8090 {
		t.Errorf("port = %d, want 8090", config.HTTPPort)
	}
	if config.TokenTTL != 600*time.Second {
		t.Errorf("token ttl = %s, want 600s", config.TokenTTL)
	}
	if config.SweepInterval != 610*time.Second {
		t.Errorf("sweep interval = %s, want 610s", config.SweepInterval)
	}
	if config.FreeItemEvery != 6 {
		t.Errorf("free item every = %d, want 6", config.FreeItemEvery)
	}
	if config.BroadcastBatchSize != 20 || config.BroadcastBatchPause != time.Second || config.BroadcastSendPause != 50*time.Millisecond {
		t.Errorf("unexpected broadcast pacing: %d/%s/%s",
			config.BroadcastBatchSize, config.BroadcastBatchPause, config.BroadcastSendPause)
	}
	if len(config.DiscountTiers) != 10 {
		t.Errorf("tiers = %d, want 10", len(config.DiscountTiers))
	}
	if config.BackupEnabled {
		t.Error("backup should be disabled by default")
	}
}

func TestLoadRequiresDSN(t *testing.T) {
	t.Setenv("DB_DSN", "")

	_, err := Load()
	if !errors.Is(err, ErrDSN) {
		t.Fatalf("err = %v, want ErrDSN", err)
	}
}

func TestLoadCustomTiers(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/loyalty?sslmode=disable")
	t.Setenv("DISCOUNT_TIERS", "0:5,1000:10")

	config, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(config.DiscountTiers) != 2 {
		t.Fatalf("tiers = %d, want 2", len(config.DiscountTiers))
	}
	if config.DiscountTiers[1].Percent != 10 || !config.DiscountTiers[1].Threshold.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("unexpected second tier: %+v", config.DiscountTiers[1])
	}
}

func TestLoadRejectsBadTiers(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/loyalty?sslmode=disable")
	t.Setenv("DISCOUNT_TIERS", "100:1,50:2")

	if _, err := Load(); err == nil {
		t.Fatal("Load accepted a tier table that does not start at zero")
	}
}
