package consumer

import (
	"context"
	"encoding/json"

	"go-faculty-leave/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafkago.Reader the consumer uses.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

type NotificationDispatcher interface {
	Dispatch(ctx context.Context, evt events.LeaveNotificationEvent) error
}

// ConsumeLeaveNotifications delivers notifications until ctx is cancelled.
// Delivery is best effort: a failed send is logged and the offset is still
// committed.
func ConsumeLeaveNotifications(
	ctx context.Context,
	reader MessageReader,
	dispatcher NotificationDispatcher,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_notification")
	log.Info("leave notification consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave notification consumer stopped")
				return
			}
			log.Error("fetch leave notification message failed", zap.Error(err))
			continue
		}

		handleNotification(ctx, msg, dispatcher, log)

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave notification message failed", zap.Error(err))
		}
	}
}

func handleNotification(ctx context.Context, msg kafkago.Message, dispatcher NotificationDispatcher, log *zap.Logger) {
	var event events.LeaveNotificationEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Error("decode leave notification event failed", zap.Error(err))
		return
	}

	if err := dispatcher.Dispatch(ctx, event); err != nil {
		log.Warn("deliver leave notification failed",
			zap.String("event_type", event.EventType),
			zap.Uint64("leave_id", event.LeaveID),
			zap.Uint64("recipient_id", event.RecipientID),
			zap.Error(err),
		)
	}
}
