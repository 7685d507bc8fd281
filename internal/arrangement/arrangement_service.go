package arrangement

import (
	"context"
	"database/sql"
	"errors"
	"time"

	arrangementerrors "go-faculty-leave/internal/arrangement/errors"
	"go-faculty-leave/internal/domain"
	"go-faculty-leave/internal/notification"
	"go-faculty-leave/internal/workflow"
	workflowerrors "go-faculty-leave/internal/workflow/errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Parent is the locked leave request an arrangement belongs to.
type Parent struct {
	ID          uint64
	RequesterID uint64
	Reference   string
	LeaveType   string
	StartDate   string
	EndDate     string
	State       workflow.State
}

// ParentWorkflow is the leave side of a substitute response. Both calls run
// inside the caller's transaction.
type ParentWorkflow interface {
	Lock(ctx context.Context, tx *sql.Tx, leaveID uint64) (Parent, error)
	ApplySubstituteOutcome(ctx context.Context, tx *sql.Tx, leaveID uint64, composite workflow.SubstituteStatus) (workflow.State, error)
}

//go:generate mockgen -source=arrangement_service.go -destination=mock/arrangement_service_mock.go -package=mock
type Service interface {
	Resolve(ctx context.Context, actor domain.Actor, arrangementID uint64, decision workflow.ArrangementStatus) (ResolveResponse, error)
	ListForSubstitute(ctx context.Context, actor domain.Actor, status string) ([]AssignmentResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	parent   ParentWorkflow
	notifier notification.Enqueuer
	audit    domain.AuditLogger
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	parent ParentWorkflow,
	notifier notification.Enqueuer,
	audit domain.AuditLogger,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("arrangement.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("arrangement.service")
	}
	if notifier == nil {
		notifier = notification.NopEnqueuer{}
	}
	if audit == nil {
		audit = domain.NopAuditLogger{}
	}
	return &service{
		db:       db,
		repo:     repo,
		parent:   parent,
		notifier: notifier,
		audit:    audit,
		now:      time.Now,
		logger:   l,
	}
}

func (s *service) Resolve(ctx context.Context, actor domain.Actor, arrangementID uint64, decision workflow.ArrangementStatus) (ResolveResponse, error) {
	s.logger.Debug("resolve arrangement requested",
		zap.Uint64("arrangement_id", arrangementID),
		zap.Uint64("actor_id", actor.ID),
		zap.String("decision", string(decision)),
	)

	if arrangementID == 0 {
		return ResolveResponse{}, arrangementerrors.ErrInvalidArrangementID
	}
	if decision != workflow.ArrangementAccepted && decision != workflow.ArrangementRejected {
		return ResolveResponse{}, arrangementerrors.ErrInvalidDecision
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("resolve arrangement begin tx failed", zap.Error(err))
		return ResolveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	a, err := qtx.FindByID(ctx, arrangementID)
	if err != nil {
		return ResolveResponse{}, mapRepositoryError(err)
	}

	parent, err := s.parent.Lock(ctx, tx, a.LeaveRequestID)
	if err != nil {
		return ResolveResponse{}, err
	}

	a, err = qtx.FindByIDForUpdate(ctx, arrangementID)
	if err != nil {
		return ResolveResponse{}, mapRepositoryError(err)
	}

	override := actor.ID != a.SubstituteID
	if override && actor.Role != domain.RoleAdmin {
		return ResolveResponse{}, arrangementerrors.ErrNotAssignedSubstitute
	}
	if override && actor.ID == parent.RequesterID {
		return ResolveResponse{}, arrangementerrors.ErrSelfOverride
	}
	if a.Status != workflow.ArrangementPending {
		return ResolveResponse{}, arrangementerrors.ErrAlreadyResolved
	}
	if parent.State.Terminal() {
		return ResolveResponse{}, workflowerrors.ErrLeaveFinalized
	}

	respondedAt := s.now()
	respondedBy := actor.ID
	a.Status = decision
	a.RespondedAt = &respondedAt
	a.RespondedBy = &respondedBy
	if err := qtx.UpdateResponse(ctx, a); err != nil {
		s.logger.Error("resolve arrangement persist failed", zap.Error(err))
		return ResolveResponse{}, err
	}

	statuses, err := qtx.ListStatusesByLeave(ctx, a.LeaveRequestID)
	if err != nil {
		s.logger.Error("resolve arrangement list statuses failed", zap.Error(err))
		return ResolveResponse{}, err
	}
	composite := workflow.Composite(statuses)

	state, err := s.parent.ApplySubstituteOutcome(ctx, tx, a.LeaveRequestID, composite)
	if err != nil {
		s.logger.Warn("resolve arrangement apply outcome failed", zap.Error(err))
		return ResolveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("resolve arrangement commit failed", zap.Error(err))
		return ResolveResponse{}, err
	}
	s.logger.Info("resolve arrangement success",
		zap.Uint64("arrangement_id", a.ID),
		zap.Uint64("leave_id", a.LeaveRequestID),
		zap.String("decision", string(decision)),
		zap.String("composite", string(composite)),
		zap.String("final_status", string(state.Final)),
	)

	if override {
		s.audit.Log(ctx, domain.AuditLog{
			Action:  "ARRANGEMENT_OVERRIDE",
			Message: "admin responded on behalf of substitute",
			Meta: map[string]any{
				"arrangement_id": a.ID,
				"leave_id":       a.LeaveRequestID,
				"substitute_id":  a.SubstituteID,
				"decision":       string(decision),
			},
		})
	}

	kind := notification.KindSubstituteAccepted
	if decision == workflow.ArrangementRejected {
		kind = notification.KindSubstituteRejected
	}
	s.notifier.Enqueue(ctx, notification.Event{
		Kind:        kind,
		RecipientID: parent.RequesterID,
		LeaveID:     parent.ID,
		Reference:   parent.Reference,
		ActorID:     actor.ID,
		LeaveType:   parent.LeaveType,
		StartDate:   parent.StartDate,
		EndDate:     parent.EndDate,
	})

	return ResolveResponse{
		Arrangement:      MapToResponse(*a),
		SubstituteStatus: string(state.Substitute),
		FinalStatus:      string(state.Final),
	}, nil
}

func (s *service) ListForSubstitute(ctx context.Context, actor domain.Actor, status string) ([]AssignmentResponse, error) {
	filter, ok := parseStatusFilter(status)
	if !ok {
		return nil, arrangementerrors.ErrInvalidStatusFilter
	}

	rows, err := s.repo.ListBySubstitute(ctx, actor.ID, filter)
	if err != nil {
		s.logger.Error("list substitute assignments failed", zap.Uint64("actor_id", actor.ID), zap.Error(err))
		return nil, err
	}
	return mapAssignments(rows), nil
}

func mapRepositoryError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return arrangementerrors.ErrArrangementNotFound
	}
	return err
}
