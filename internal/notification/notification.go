package notification

import "context"

type Kind string

const (
	KindRequestSubmitted      Kind = "request_submitted"
	KindSubstitutionRequested Kind = "substitution_requested"
	KindSubstituteAccepted    Kind = "substitute_accepted"
	KindSubstituteRejected    Kind = "substitute_rejected"
	KindHodApproved           Kind = "hod_approved"
	KindHodRejected           Kind = "hod_rejected"
	KindPrincipalApproved     Kind = "principal_approved"
	KindPrincipalRejected     Kind = "principal_rejected"
)

// Event is one notification addressed to one user about one leave request.
type Event struct {
	Kind        Kind
	RecipientID uint64
	LeaveID     uint64
	Reference   string
	ActorID     uint64
	LeaveType   string
	StartDate   string
	EndDate     string
	Remarks     string
}

// Enqueuer queues notifications for later delivery. It never fails the
// caller; problems are logged by the implementation.
type Enqueuer interface {
	Enqueue(ctx context.Context, events ...Event)
}

// NopEnqueuer drops every event.
type NopEnqueuer struct{}

func (NopEnqueuer) Enqueue(context.Context, ...Event) {}
