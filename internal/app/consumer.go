package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go-faculty-leave/internal/config"
	"go-faculty-leave/internal/messaging/kafka/consumer"
	"go-faculty-leave/internal/notification"
	"go-faculty-leave/internal/shared/connection"
	"go-faculty-leave/internal/user"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer delivers leave notifications from Kafka until SIGINT or
// SIGTERM. Without SMTP settings messages are only logged.
func RunConsumer(cfg *config.Config, baseLogger *zap.Logger) error {
	logger := baseLogger.Named("app.consumer")

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database, logger)
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	var sender notification.Sender
	if cfg.Mail.Enabled() {
		sender = notification.NewMailSender(cfg.Mail, baseLogger)
	} else {
		logger.Warn("smtp not configured, notifications will only be logged")
		sender = notification.NewLogSender(baseLogger)
	}
	contacts := user.NewContactDirectory(user.NewRepository(gormDB))
	dispatcher := notification.NewDispatcher(contacts, sender, baseLogger)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.Kafka.Broker},
		Topic:          cfg.Kafka.NotificationTopic,
		GroupID:        cfg.Kafka.GroupID,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumeLeaveNotifications(ctx, reader, dispatcher, baseLogger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
