package notification

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"go-faculty-leave/internal/events"
	"go-faculty-leave/internal/messaging/kafka"
	"go-faculty-leave/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const aggregateLeaveRequest = "leave_request"

type outboxEnqueuer struct {
	repo   kafka.OutboxRepository
	topic  string
	now    func() time.Time
	logger *zap.Logger
}

// NewOutboxEnqueuer writes each event as a pending outbox row outside any
// business transaction.
func NewOutboxEnqueuer(repo kafka.OutboxRepository, topic string, logger ...*zap.Logger) Enqueuer {
	l := zap.L().Named("notification.enqueuer")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.enqueuer")
	}
	if topic == "" {
		topic = events.LeaveNotificationTopic
	}
	return &outboxEnqueuer{repo: repo, topic: topic, now: time.Now, logger: l}
}

// Enqueue runs after the business commit, so a cancelled request context
// must not drop the rows.
func (e *outboxEnqueuer) Enqueue(ctx context.Context, evts ...Event) {
	ctx = context.WithoutCancel(ctx)
	log := contextutil.GetLogger(ctx, e.logger)
	requestID := contextutil.GetRequestID(ctx)

	for _, evt := range evts {
		if evt.RecipientID == 0 {
			continue
		}

		payload, err := json.Marshal(events.LeaveNotificationEvent{
			EventType:   string(evt.Kind),
			RecipientID: evt.RecipientID,
			LeaveID:     evt.LeaveID,
			Reference:   evt.Reference,
			ActorID:     evt.ActorID,
			LeaveType:   evt.LeaveType,
			StartDate:   evt.StartDate,
			EndDate:     evt.EndDate,
			Remarks:     evt.Remarks,
			OccurredAt:  e.now().UTC(),
		})
		if err != nil {
			log.Warn("encode notification failed", zap.String("kind", string(evt.Kind)), zap.Error(err))
			continue
		}

		outboxEvent := kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     requestID,
			AggregateType: aggregateLeaveRequest,
			AggregateID:   strconv.FormatUint(evt.LeaveID, 10),
			EventType:     string(evt.Kind),
			Topic:         e.topic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}
		if err := kafka.ValidateOutboxEvent(outboxEvent); err != nil {
			log.Warn("invalid notification outbox event", zap.Error(err))
			continue
		}

		if err := e.repo.Create(ctx, outboxEvent); err != nil {
			log.Warn("enqueue notification failed",
				zap.String("kind", string(evt.Kind)),
				zap.Uint64("leave_id", evt.LeaveID),
				zap.Uint64("recipient_id", evt.RecipientID),
				zap.Error(err),
			)
			continue
		}
		log.Debug("notification enqueued",
			zap.String("kind", string(evt.Kind)),
			zap.Uint64("leave_id", evt.LeaveID),
			zap.Uint64("recipient_id", evt.RecipientID),
		)
	}
}
