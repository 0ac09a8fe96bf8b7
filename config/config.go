package config

import (
	"errors"
	"fmt"
	"time"

	"go-loyalty/modules/customer/reward"
	"go-loyalty/util/env"
)

var (
	ErrInvalidHTTPPort    = errors.New("HTTP_PORT must be a positive integer")
	ErrGracefulTimeout    = errors.New("GRACEFUL_TIMEOUT must be a positive duration")
	ErrDSN                = errors.New("DB_DSN must be set")
	ErrTokenTTL           = errors.New("TOKEN_TTL must be a positive duration")
	ErrSweepInterval      = errors.New("SWEEP_INTERVAL must be a positive duration")
	ErrBroadcastBatchSize = errors.New("BROADCAST_BATCH_SIZE must be a positive integer")
)

// Default tier table of the venue; overridable via DISCOUNT_TIERS.
const defaultDiscountTiers = "0:1,5000:2,10000:3,15000:4,21000:5,27000:6,35000:7,45000:8,55000:9,70000:10"

// รวมการโหลดค่าคอนฟิกทั้งหมดไว้ในจุดเดียว
type Config struct {
	HTTPPort        int
	GracefulTimeout time.Duration
	DSN             string

	TelegramToken string

	TokenTTL      time.Duration
	SweepInterval time.Duration
	FreeItemEvery int
	DiscountTiers reward.Table

	BroadcastBatchSize  int
	BroadcastBatchPause time.Duration
	BroadcastSendPause  time.Duration

	BackupEnabled  bool
	BackupDir      string
	BackupInterval time.Duration
	BackupKeepDays int
}

func Load() (*Config, error) {
	tiers, err := reward.ParseTable(env.GetDefault("DISCOUNT_TIERS", defaultDiscountTiers))
	if err != nil {
		return nil, fmt.Errorf("DISCOUNT_TIERS: %w", err)
	}

	config := &Config{
		HTTPPort:        env.GetIntDefault("HTTP_PORT", 8090),
		GracefulTimeout: env.GetDurationDefault("GRACEFUL_TIMEOUT", 5*time.Second),
		DSN:             env.Get("DB_DSN"),

		TelegramToken: env.Get("TELEGRAM_TOKEN"),

		TokenTTL:      env.GetDurationDefault("TOKEN_TTL", 600*time.Second),
		SweepInterval: env.GetDurationDefault("SWEEP_INTERVAL", 610*time.Second),
		FreeItemEvery: env.GetIntDefault("FREE_ITEM_EVERY", 6),
		DiscountTiers: tiers,

		BroadcastBatchSize:  env.GetIntDefault("BROADCAST_BATCH_SIZE", 20),
		BroadcastBatchPause: time.Duration(env.GetIntDefault("BROADCAST_BATCH_PAUSE_MS", 1000)) * time.Millisecond,
		BroadcastSendPause:  time.Duration(env.GetIntDefault("BROADCAST_SEND_PAUSE_MS", 50)) * time.Millisecond,

		BackupEnabled:  env.GetBoolDefault("BACKUP_ENABLED", false),
		BackupDir:      env.GetDefault("BACKUP_DIR", "db_backups"),
		BackupInterval: env.GetDurationDefault("BACKUP_INTERVAL", 24*time.Hour),
		BackupKeepDays: env.GetIntDefault("BACKUP_KEEP_DAYS", 7),
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) Validate() error {
	if c.HTTPPort <= 0 {
		return ErrInvalidHTTPPort
	}
	if c.GracefulTimeout <= 0 {
		return ErrGracefulTimeout
	}
	if len(c.DSN) == 0 {
		return ErrDSN
	}
	if c.TokenTTL <= 0 {
		return ErrTokenTTL
	}
	if c.SweepInterval <= 0 {
		return ErrSweepInterval
	}
	if c.BroadcastBatchSize <= 0 {
		return ErrBroadcastBatchSize
	}
	return c.DiscountTiers.Validate()
}
