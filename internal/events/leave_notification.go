package events

import "time"

const LeaveNotificationTopic = "leave.notifications.v1"

// LeaveNotificationEvent is the outbox payload for one notification to one
// recipient.
type LeaveNotificationEvent struct {
	EventType   string    `json:"event_type"`
	RecipientID uint64    `json:"recipient_id"`
	LeaveID     uint64    `json:"leave_id"`
	Reference   string    `json:"reference"`
	ActorID     uint64    `json:"actor_id,omitempty"`
	LeaveType   string    `json:"leave_type,omitempty"`
	StartDate   string    `json:"start_date,omitempty"`
	EndDate     string    `json:"end_date,omitempty"`
	Remarks     string    `json:"remarks,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}
