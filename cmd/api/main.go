package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-loyalty/application"
	"go-loyalty/config"
	auditModule "go-loyalty/modules/audit"
	customerModule "go-loyalty/modules/customer"
	loyaltyModule "go-loyalty/modules/loyalty"
	notificationModule "go-loyalty/modules/notification"
	notification "go-loyalty/modules/notification/service"
	"go-loyalty/modules/notification/telegram"
	"go-loyalty/util/backup"
	"go-loyalty/util/logger"
	"go-loyalty/util/module"
	"go-loyalty/util/storage/sqldb"
	"go-loyalty/util/storage/sqldb/transactor"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	closeLog, err := logger.Init()
	if err != nil {
		panic(err.Error())
	}
	defer closeLog()

	config, err := config.Load()
	if err != nil {
		log.Panic(err)
	}

	dbCtx, closeDB, err := sqldb.NewDBContext(config.DSN)
	if err != nil {
		logger.Log.Panic(err.Error())
	}
	defer closeDB()

	if err := sqldb.EnsureSchema(context.Background(), dbCtx); err != nil {
		logger.Log.Panic(err.Error())
	}

	tx, dbTxCtx := transactor.New(dbCtx.DB(),
		transactor.WithNestedTransactionStrategy(transactor.NestedTransactionsSavepoints))
	mCtx := module.NewModuleContext(tx, dbTxCtx)

	notifier := newNotifier(config.TelegramToken)

	app := application.New(*config)
	err = app.RegisterModules(
		customerModule.NewModule(mCtx, customerModule.Options{
			Tiers:         config.DiscountTiers,
			FreeItemEvery: config.FreeItemEvery,
		}),
		auditModule.NewModule(mCtx),
		notificationModule.NewModule(mCtx, notifier, notification.PacingPolicy{
			BatchSize:  config.BroadcastBatchSize,
			BatchPause: config.BroadcastBatchPause,
			SendPause:  config.BroadcastSendPause,
		}),
		loyaltyModule.NewModule(mCtx, loyaltyModule.Options{
			TokenTTL:      config.TokenTTL,
			SweepInterval: config.SweepInterval,
			FreeItemEvery: config.FreeItemEvery,
		}),
	)
	if err != nil {
		logger.Log.Panic(err.Error())
	}

	if config.BackupEnabled {
		app.RegisterJobs(backup.NewRunner(config.DSN, config.BackupDir, config.BackupKeepDays, config.BackupInterval))
	}

	if err := app.Run(); err != nil {
		logger.Log.Panic(err.Error())
	}

	// รอสัญญาณการปิด
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Log.Info("Shutting down...")

	app.Shutdown()

	logger.Log.Info("Shutdown complete.")
}

func newNotifier(token string) notification.Notifier {
	if token == "" {
		logger.Log.Warn("TELEGRAM_TOKEN not set, using noop notifier")
		return notification.NewNoopNotifier()
	}
	notifier, err := telegram.NewNotifier(token)
	if err != nil {
		logger.Log.Panic(fmt.Sprintf("failed to create telegram notifier: %v", err))
	}
	return notifier
}
