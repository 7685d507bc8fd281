package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-faculty-leave/internal/balance"
	"go-faculty-leave/internal/config"
	"go-faculty-leave/internal/messaging/kafka"
	"go-faculty-leave/internal/messaging/kafka/producer"
	"go-faculty-leave/internal/shared/connection"

	"go.uber.org/zap"
)

const (
	kafkaMaxRetries = 5
	jobStopTimeout  = time.Minute
)

// RunWorker publishes outbox notifications and runs the yearly rollover
// until SIGINT or SIGTERM.
func RunWorker(cfg *config.Config, baseLogger *zap.Logger) error {
	logger := baseLogger.Named("app.worker")

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database, logger)
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	redisClient, err := connection.ConnectRedisWithRetry(cfg.Redis, redisMaxRetries, logger)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	kafkaWriter, err := connection.ConnectKafkaWithRetry(cfg.Kafka.Broker, kafkaMaxRetries, logger)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	outboxRepo := kafka.NewOutboxRepository(sqlDB)
	balanceService := balance.NewService(sqlDB, balance.NewRepository(gormDB), redisClient, cfg.Ledger, nil, baseLogger)

	rollover := balance.NewRolloverJob(balanceService, cfg.Ledger.RolloverSchedule, baseLogger)
	if err := rollover.Start(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go producer.ProcessOutboxEvents(
		ctx,
		sqlDB,
		outboxRepo,
		kafkaWriter,
		logger,
		cfg.Kafka.PollInterval,
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("worker shutting down")
	cancel()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), jobStopTimeout)
	defer stopCancel()
	rollover.Stop(stopCtx)

	return nil
}
