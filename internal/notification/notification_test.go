package notification_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"

	"go-faculty-leave/internal/events"
	"go-faculty-leave/internal/messaging/kafka"
	"go-faculty-leave/internal/notification"

	"github.com/stretchr/testify/assert"
)

type fakeOutboxRepository struct {
	created  []kafka.OutboxEvent
	createFn func(ctx context.Context, event kafka.OutboxEvent) error
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	if f.createFn != nil {
		if err := f.createFn(ctx, event); err != nil {
			return err
		}
	}
	f.created = append(f.created, event)
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error { return nil }

func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

func TestOutboxEnqueuer_Enqueue(t *testing.T) {
	ctx := context.Background()

	t.Run("success writes one pending row per event", func(t *testing.T) {
		repo := &fakeOutboxRepository{}
		enq := notification.NewOutboxEnqueuer(repo, "")

		enq.Enqueue(ctx,
			notification.Event{Kind: notification.KindRequestSubmitted, RecipientID: 3, LeaveID: 11, Reference: "LV-2024-000011"},
			notification.Event{Kind: notification.KindSubstitutionRequested, RecipientID: 4, LeaveID: 11, Reference: "LV-2024-000011"},
		)

		assert.Len(t, repo.created, 2)
		first := repo.created[0]
		assert.Equal(t, events.LeaveNotificationTopic, first.Topic)
		assert.Equal(t, "11", first.AggregateID)
		assert.Equal(t, "request_submitted", first.EventType)
		assert.Equal(t, kafka.OutboxStatusPending, first.Status)

		var payload events.LeaveNotificationEvent
		assert.NoError(t, json.Unmarshal(repo.created[1].Payload, &payload))
		assert.Equal(t, uint64(4), payload.RecipientID)
		assert.Equal(t, "substitution_requested", payload.EventType)
	})

	t.Run("negative repository failure is swallowed", func(t *testing.T) {
		repo := &fakeOutboxRepository{createFn: func(ctx context.Context, event kafka.OutboxEvent) error {
			return errors.New("insert failed")
		}}
		enq := notification.NewOutboxEnqueuer(repo, "custom.topic")

		assert.NotPanics(t, func() {
			enq.Enqueue(ctx, notification.Event{Kind: notification.KindHodApproved, RecipientID: 3, LeaveID: 1})
		})
		assert.Empty(t, repo.created)
	})

	t.Run("success cancelled request still writes the row", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		repo := &fakeOutboxRepository{createFn: func(ctx context.Context, event kafka.OutboxEvent) error {
			return ctx.Err()
		}}

		notification.NewOutboxEnqueuer(repo, "").Enqueue(cancelled,
			notification.Event{Kind: notification.KindPrincipalApproved, RecipientID: 3, LeaveID: 7, Reference: "LV-2024-000007"},
		)

		if assert.Len(t, repo.created, 1) {
			assert.Equal(t, "principal_approved", repo.created[0].EventType)
		}
	})

	t.Run("success events without recipient are dropped", func(t *testing.T) {
		repo := &fakeOutboxRepository{}
		notification.NewOutboxEnqueuer(repo, "").Enqueue(ctx, notification.Event{Kind: notification.KindHodApproved, LeaveID: 1})

		assert.Empty(t, repo.created)
	})
}

type fakeDirectory struct {
	contacts map[uint64]notification.Contact
}

func (d *fakeDirectory) FindContact(ctx context.Context, userID uint64) (notification.Contact, error) {
	c, ok := d.contacts[userID]
	if !ok {
		return notification.Contact{}, errors.New("user not found")
	}
	return c, nil
}

type fakeSender struct {
	sent []notification.Message
}

func (s *fakeSender) Send(ctx context.Context, msg notification.Message) error {
	s.sent = append(s.sent, msg)
	return nil
}

func TestDispatcher_Dispatch(t *testing.T) {
	ctx := context.Background()
	dir := &fakeDirectory{contacts: map[uint64]notification.Contact{
		3: {UserID: 3, Name: "Asha", Email: "asha@college.edu", IsActive: true},
		4: {UserID: 4, Name: "Ravi"},
		5: {UserID: 5, Name: "Meena", Email: "meena@college.edu"},
	}}

	t.Run("success renders and sends", func(t *testing.T) {
		sender := &fakeSender{}
		d := notification.NewDispatcher(dir, sender)

		err := d.Dispatch(ctx, events.LeaveNotificationEvent{
			EventType:   "principal_rejected",
			RecipientID: 3,
			Reference:   "LV-2024-000002",
			StartDate:   "2024-03-04",
			EndDate:     "2024-03-05",
			Remarks:     "exam week",
		})

		assert.NoError(t, err)
		assert.Len(t, sender.sent, 1)
		assert.Equal(t, "asha@college.edu", sender.sent[0].To)
		assert.Equal(t, "[LV-2024-000002] Leave rejected", sender.sent[0].Subject)
		assert.Contains(t, sender.sent[0].Body, "Period: 2024-03-04 to 2024-03-05")
		assert.Contains(t, sender.sent[0].Body, "Remarks: exam week")
	})

	t.Run("negative recipient without email", func(t *testing.T) {
		d := notification.NewDispatcher(dir, &fakeSender{})

		err := d.Dispatch(ctx, events.LeaveNotificationEvent{EventType: "hod_approved", RecipientID: 4})

		assert.ErrorIs(t, err, notification.ErrRecipientUnreachable)
	})

	t.Run("success inactive recipient is skipped", func(t *testing.T) {
		sender := &fakeSender{}
		d := notification.NewDispatcher(dir, sender)

		err := d.Dispatch(ctx, events.LeaveNotificationEvent{EventType: "hod_approved", RecipientID: 5})

		assert.NoError(t, err)
		assert.Empty(t, sender.sent)
	})

	t.Run("negative unknown recipient", func(t *testing.T) {
		d := notification.NewDispatcher(dir, &fakeSender{})

		err := d.Dispatch(ctx, events.LeaveNotificationEvent{EventType: "hod_approved", RecipientID: 99})

		assert.Error(t, err)
	})
}

func TestRender(t *testing.T) {
	subject, body := notification.Render(notification.KindSubstitutionRequested, "Ravi", events.LeaveNotificationEvent{
		Reference: "LV-2024-000009",
		LeaveType: "CL",
		StartDate: "2024-05-02",
		EndDate:   "2024-05-02",
	})

	assert.Equal(t, "[LV-2024-000009] Substitution requested", subject)
	assert.Contains(t, body, "Dear Ravi,")
	assert.Contains(t, body, "Period: 2024-05-02\n")
	assert.Contains(t, body, "Leave type: CL")
}
