package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-faculty-leave/internal/events"

	"go.uber.org/zap"
)

var ErrRecipientUnreachable = errors.New("notification recipient has no email")

// Contact is how a user is reached.
type Contact struct {
	UserID   uint64
	Name     string
	Email    string
	IsActive bool
}

type ContactDirectory interface {
	FindContact(ctx context.Context, userID uint64) (Contact, error)
}

// Dispatcher turns a queued notification into a message and sends it.
type Dispatcher struct {
	contacts ContactDirectory
	sender   Sender
	logger   *zap.Logger
}

func NewDispatcher(contacts ContactDirectory, sender Sender, logger ...*zap.Logger) *Dispatcher {
	l := zap.L().Named("notification.dispatcher")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.dispatcher")
	}
	return &Dispatcher{contacts: contacts, sender: sender, logger: l}
}

func (d *Dispatcher) Dispatch(ctx context.Context, evt events.LeaveNotificationEvent) error {
	contact, err := d.contacts.FindContact(ctx, evt.RecipientID)
	if err != nil {
		return err
	}
	if contact.Email == "" {
		return ErrRecipientUnreachable
	}
	if !contact.IsActive {
		d.logger.Debug("notification skipped for inactive recipient",
			zap.String("kind", evt.EventType),
			zap.Uint64("recipient_id", evt.RecipientID),
		)
		return nil
	}

	subject, body := Render(Kind(evt.EventType), contact.Name, evt)
	if err := d.sender.Send(ctx, Message{To: contact.Email, Subject: subject, Body: body}); err != nil {
		return err
	}

	d.logger.Info("notification dispatched",
		zap.String("kind", evt.EventType),
		zap.Uint64("leave_id", evt.LeaveID),
		zap.Uint64("recipient_id", evt.RecipientID),
	)
	return nil
}

// Render builds the subject and plain-text body for kind.
func Render(kind Kind, name string, evt events.LeaveNotificationEvent) (string, string) {
	period := evt.StartDate
	if evt.EndDate != "" && evt.EndDate != evt.StartDate {
		period = evt.StartDate + " to " + evt.EndDate
	}

	var subject, line string
	switch kind {
	case KindRequestSubmitted:
		subject = "Leave request submitted"
		line = "your leave request has been submitted"
	case KindSubstitutionRequested:
		subject = "Substitution requested"
		line = "you have been nominated as a substitute for a leave request"
	case KindSubstituteAccepted:
		subject = "Substitute accepted"
		line = "a substitute accepted the arrangement for your leave request"
	case KindSubstituteRejected:
		subject = "Substitute rejected"
		line = "a substitute declined the arrangement, so your leave request was rejected"
	case KindHodApproved:
		subject = "Leave approved by HOD"
		line = "your leave request was approved by the head of department and awaits the principal"
	case KindHodRejected:
		subject = "Leave rejected by HOD"
		line = "your leave request was rejected by the head of department"
	case KindPrincipalApproved:
		subject = "Leave approved"
		line = "your leave request was approved by the principal"
	case KindPrincipalRejected:
		subject = "Leave rejected"
		line = "your leave request was rejected by the principal"
	default:
		subject = "Leave request update"
		line = "there is an update on a leave request"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", name)
	fmt.Fprintf(&b, "Reference %s: %s.\n", evt.Reference, line)
	if evt.LeaveType != "" {
		fmt.Fprintf(&b, "Leave type: %s\n", evt.LeaveType)
	}
	if period != "" {
		fmt.Fprintf(&b, "Period: %s\n", period)
	}
	if evt.Remarks != "" {
		fmt.Fprintf(&b, "Remarks: %s\n", evt.Remarks)
	}
	return fmt.Sprintf("[%s] %s", evt.Reference, subject), b.String()
}
