package leave

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go-faculty-leave/internal/arrangement"
	"go-faculty-leave/internal/balance"
	"go-faculty-leave/internal/domain"
	leaveerrors "go-faculty-leave/internal/leave/errors"
	"go-faculty-leave/internal/notification"
	"go-faculty-leave/internal/shared/counter"
	"go-faculty-leave/internal/workflow"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const referenceCounterType = "leave_request"

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, actor domain.Actor, req SubmitLeaveRequest) (LeaveResponse, error)
	DecideHod(ctx context.Context, actor domain.Actor, id uint64, decision workflow.Decision, remarks string) (LeaveResponse, error)
	DecidePrincipal(ctx context.Context, actor domain.Actor, id uint64, decision workflow.Decision, remarks string) (LeaveResponse, error)
	GetByID(ctx context.Context, actor domain.Actor, id uint64) (LeaveDetailResponse, error)
	ListMine(ctx context.Context, actor domain.Actor) ([]LeaveResponse, error)
	ListForHod(ctx context.Context, actor domain.Actor) ([]LeaveResponse, error)
	ListForPrincipal(ctx context.Context, actor domain.Actor) ([]LeaveResponse, error)
	Export(ctx context.Context, actor domain.Actor, from, to string) (*bytes.Buffer, string, error)
}

// Deps groups the collaborators a leave service needs besides its own
// repository.
type Deps struct {
	Arrangements arrangement.Repository
	Counters     counter.Repository
	Ledger       balance.Service
	Notifier     notification.Enqueuer
	Audit        domain.AuditLogger
	Clock        func() time.Time
}

type service struct {
	db           *sql.DB
	repo         Repository
	arrangements arrangement.Repository
	counters     counter.Repository
	ledger       balance.Service
	notifier     notification.Enqueuer
	audit        domain.AuditLogger
	now          func() time.Time
	logger       *zap.Logger
}

func NewService(db *sql.DB, repo Repository, deps Deps, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	if deps.Notifier == nil {
		deps.Notifier = notification.NopEnqueuer{}
	}
	if deps.Audit == nil {
		deps.Audit = domain.NopAuditLogger{}
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	return &service{
		db:           db,
		repo:         repo,
		arrangements: deps.Arrangements,
		counters:     deps.Counters,
		ledger:       deps.Ledger,
		notifier:     deps.Notifier,
		audit:        deps.Audit,
		now:          deps.Clock,
		logger:       l,
	}
}

type submission struct {
	leaveType    LeaveType
	start, end   time.Time
	startSession Session
	endSession   Session
	days         decimal.Decimal
	reason       string
	substitutes  []ArrangementInput
}

func (s *service) Submit(ctx context.Context, actor domain.Actor, req SubmitLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("submit leave requested",
		zap.Uint64("actor_id", actor.ID),
		zap.String("leave_type", req.LeaveType),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
		zap.Int("substitutes", len(req.Arrangements)),
	)

	sub, err := validateSubmission(actor, req)
	if err != nil {
		s.logger.Warn("submit leave validation failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	requester, err := s.checkParticipants(ctx, actor, sub.substitutes)
	if err != nil {
		s.logger.Warn("submit leave participant check failed", zap.Uint64("actor_id", actor.ID), zap.Error(err))
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("submit leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := qtx.LockRequester(ctx, requester.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrRequesterNotFound
		}
		s.logger.Error("submit leave requester lock failed", zap.Uint64("requester_id", requester.ID), zap.Error(err))
		return LeaveResponse{}, err
	}

	l := &LeaveRequest{
		RequesterID:    requester.ID,
		DepartmentCode: *requester.DepartmentCode,
		LeaveType:      sub.leaveType,
		StartDate:      sub.start,
		EndDate:        sub.end,
		StartSession:   sub.startSession,
		EndSession:     sub.endSession,
		TotalDays:      sub.days,
		Reason:         sub.reason,
	}

	existing, err := qtx.FindActiveInRange(ctx, requester.ID, sub.start, sub.end)
	if err != nil {
		s.logger.Error("submit leave overlap check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	for _, other := range existing {
		if l.overlaps(other) {
			s.logger.Warn("submit leave overlap detected",
				zap.Uint64("requester_id", requester.ID),
				zap.String("conflicting_reference", other.Reference),
			)
			return LeaveResponse{}, leaveerrors.ErrLeaveOverlap
		}
	}

	now := s.now()
	seq, err := s.counters.WithTx(tx).GetNextValue(ctx, strconv.Itoa(now.Year()), referenceCounterType)
	if err != nil {
		s.logger.Error("submit leave reference allocation failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	l.Reference = fmt.Sprintf("LV-%d-%06d", now.Year(), seq)
	l.AppliedAt = now
	l.UpdatedAt = now
	l.SetState(workflow.Initial(len(sub.substitutes), requester.Role), now)

	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("submit leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	items := make([]arrangement.Arrangement, 0, len(sub.substitutes))
	for _, in := range sub.substitutes {
		items = append(items, arrangement.Arrangement{
			LeaveRequestID: l.ID,
			SubstituteID:   in.SubstituteID,
			Details:        strings.TrimSpace(in.Details),
			Status:         workflow.ArrangementPending,
			CreatedAt:      now,
		})
	}
	if err := s.arrangements.WithTx(tx).CreateBatch(ctx, items); err != nil {
		s.logger.Error("submit leave arrangements persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("submit leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	s.logger.Info("submit leave success",
		zap.Uint64("leave_id", l.ID),
		zap.String("reference", l.Reference),
		zap.Uint64("requester_id", l.RequesterID),
		zap.String("substitute_status", string(l.SubstituteStatus)),
	)

	base := s.eventFor(*l, actor.ID)
	events := make([]notification.Event, 0, len(items)+1)
	submitted := base
	submitted.Kind = notification.KindRequestSubmitted
	submitted.RecipientID = l.RequesterID
	events = append(events, submitted)
	for _, a := range items {
		evt := base
		evt.Kind = notification.KindSubstitutionRequested
		evt.RecipientID = a.SubstituteID
		evt.Remarks = a.Details
		events = append(events, evt)
	}
	s.notifier.Enqueue(ctx, events...)

	return mapToResponse(*l), nil
}

func validateSubmission(actor domain.Actor, req SubmitLeaveRequest) (submission, error) {
	if actor.IsZero() {
		return submission{}, leaveerrors.ErrRequesterNotFound
	}

	leaveType := LeaveType(strings.ToUpper(strings.TrimSpace(req.LeaveType)))
	if !leaveType.Valid() {
		return submission{}, leaveerrors.ErrInvalidLeaveType
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		return submission{}, err
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return submission{}, err
	}

	startSession := sessionOrDefault(req.StartSession, SessionForenoon)
	endSession := sessionOrDefault(req.EndSession, SessionAfternoon)
	days, err := CountDays(start, end, startSession, endSession)
	if err != nil {
		return submission{}, err
	}

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return submission{}, leaveerrors.ErrReasonRequired
	}

	if len(req.Arrangements) > maxSubstitutes {
		return submission{}, leaveerrors.ErrTooManySubstitutes
	}
	seen := make(map[uint64]struct{}, len(req.Arrangements))
	for _, a := range req.Arrangements {
		if a.SubstituteID == 0 {
			return submission{}, leaveerrors.ErrInvalidSubstitute
		}
		if a.SubstituteID == actor.ID {
			return submission{}, leaveerrors.ErrSelfSubstitute
		}
		if _, dup := seen[a.SubstituteID]; dup {
			return submission{}, leaveerrors.ErrDuplicateSubstitute
		}
		seen[a.SubstituteID] = struct{}{}
	}

	return submission{
		leaveType:    leaveType,
		start:        start,
		end:          end,
		startSession: startSession,
		endSession:   endSession,
		days:         days,
		reason:       reason,
		substitutes:  req.Arrangements,
	}, nil
}

// checkParticipants loads the requester and every nominated substitute in one
// query and returns the requester.
func (s *service) checkParticipants(ctx context.Context, actor domain.Actor, substitutes []ArrangementInput) (Person, error) {
	ids := make([]uint64, 0, len(substitutes)+1)
	ids = append(ids, actor.ID)
	for _, a := range substitutes {
		ids = append(ids, a.SubstituteID)
	}

	people, err := s.repo.FindPeople(ctx, ids)
	if err != nil {
		return Person{}, err
	}
	byID := make(map[uint64]Person, len(people))
	for _, p := range people {
		byID[p.ID] = p
	}

	requester, ok := byID[actor.ID]
	if !ok {
		return Person{}, leaveerrors.ErrRequesterNotFound
	}
	if !requester.IsActive {
		return Person{}, leaveerrors.ErrRequesterInactive
	}
	if requester.DepartmentCode == nil || *requester.DepartmentCode == "" {
		return Person{}, leaveerrors.ErrRequesterWithoutDepartment
	}

	for _, a := range substitutes {
		p, ok := byID[a.SubstituteID]
		if !ok || !p.IsActive {
			return Person{}, leaveerrors.ErrInvalidSubstitute
		}
	}
	return requester, nil
}

func (s *service) DecideHod(ctx context.Context, actor domain.Actor, id uint64, decision workflow.Decision, remarks string) (LeaveResponse, error) {
	return s.decide(ctx, actor, id, decision, remarks, hodStage)
}

func (s *service) DecidePrincipal(ctx context.Context, actor domain.Actor, id uint64, decision workflow.Decision, remarks string) (LeaveResponse, error) {
	return s.decide(ctx, actor, id, decision, remarks, principalStage)
}

// approvalStage describes one approver stage of the chain.
type approvalStage struct {
	name       string
	authorize  func(actor domain.Actor, l LeaveRequest) error
	trigger    func(workflow.Decision) workflow.Trigger
	record     func(l *LeaveRequest, actorID uint64)
	approved   notification.Kind
	rejected   notification.Kind
	auditEvent string
}

var hodStage = approvalStage{
	name: "hod",
	authorize: func(actor domain.Actor, l LeaveRequest) error {
		if actor.Role != domain.RoleHOD || actor.DepartmentCode == "" || actor.DepartmentCode != l.DepartmentCode {
			return leaveerrors.ErrNotDepartmentHod
		}
		return nil
	},
	trigger:    workflow.HodTrigger,
	record:     func(l *LeaveRequest, actorID uint64) { l.HodDecidedBy = &actorID },
	approved:   notification.KindHodApproved,
	rejected:   notification.KindHodRejected,
	auditEvent: "LEAVE_HOD_DECISION",
}

var principalStage = approvalStage{
	name: "principal",
	authorize: func(actor domain.Actor, _ LeaveRequest) error {
		if !actor.Role.IsInstitutional() {
			return leaveerrors.ErrNotPrincipal
		}
		return nil
	},
	trigger:    workflow.PrincipalTrigger,
	record:     func(l *LeaveRequest, actorID uint64) { l.PrincipalDecidedBy = &actorID },
	approved:   notification.KindPrincipalApproved,
	rejected:   notification.KindPrincipalRejected,
	auditEvent: "LEAVE_PRINCIPAL_DECISION",
}

func (s *service) decide(ctx context.Context, actor domain.Actor, id uint64, decision workflow.Decision, remarks string, stage approvalStage) (LeaveResponse, error) {
	log := s.logger.With(
		zap.String("stage", stage.name),
		zap.Uint64("leave_id", id),
		zap.Uint64("actor_id", actor.ID),
		zap.String("decision", string(decision)),
	)
	log.Debug("decide leave requested")

	if id == 0 {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}
	if !decision.Valid() {
		return LeaveResponse{}, leaveerrors.ErrInvalidDecision
	}
	if err := stage.authorize(actor, LeaveRequest{DepartmentCode: actor.DepartmentCode}); err != nil {
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("decide leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		return LeaveResponse{}, mapRepositoryError(err)
	}
	if err := stage.authorize(actor, *l); err != nil {
		return LeaveResponse{}, err
	}
	if l.RequesterID == actor.ID {
		return LeaveResponse{}, leaveerrors.ErrSelfDecision
	}

	next, err := workflow.Apply(l.State(), stage.trigger(decision))
	if err != nil {
		log.Warn("decide leave transition rejected", zap.String("final_status", string(l.FinalStatus)), zap.Error(err))
		return LeaveResponse{}, err
	}

	now := s.now()
	l.SetState(next, now)
	stage.record(l, actor.ID)
	if r := strings.TrimSpace(remarks); r != "" {
		l.Remarks = &r
	}
	l.UpdatedAt = now

	if err := qtx.UpdateWorkflow(ctx, l); err != nil {
		log.Error("decide leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if next.Final == workflow.FinalApproved {
		if err := s.ledger.ConsumeForLeave(ctx, tx, l.RequesterID, l.StartDate.Year(), string(l.LeaveType), l.TotalDays); err != nil {
			log.Error("decide leave balance consumption failed", zap.Error(err))
			return LeaveResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("decide leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	log.Info("decide leave success",
		zap.String("reference", l.Reference),
		zap.String("final_status", string(l.FinalStatus)),
	)

	s.audit.Log(ctx, domain.AuditLog{
		Action:  stage.auditEvent,
		Message: fmt.Sprintf("%s %s leave %s", stage.name, decision, l.Reference),
		Meta: map[string]any{
			"leave_id":     l.ID,
			"requester_id": l.RequesterID,
			"actor_id":     actor.ID,
			"decision":     string(decision),
			"final_status": string(l.FinalStatus),
		},
	})

	evt := s.eventFor(*l, actor.ID)
	evt.RecipientID = l.RequesterID
	evt.Kind = stage.approved
	if decision == workflow.DecisionReject {
		evt.Kind = stage.rejected
	}
	if l.Remarks != nil {
		evt.Remarks = *l.Remarks
	}
	s.notifier.Enqueue(ctx, evt)

	return mapToResponse(*l), nil
}

func (s *service) GetByID(ctx context.Context, actor domain.Actor, id uint64) (LeaveDetailResponse, error) {
	if id == 0 {
		return LeaveDetailResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return LeaveDetailResponse{}, mapRepositoryError(err)
	}

	items, err := s.arrangements.ListByLeave(ctx, l.ID)
	if err != nil {
		s.logger.Error("get leave arrangements failed", zap.Uint64("leave_id", id), zap.Error(err))
		return LeaveDetailResponse{}, err
	}

	if !canView(actor, *l, items) {
		return LeaveDetailResponse{}, leaveerrors.ErrLeaveForbidden
	}

	return LeaveDetailResponse{
		LeaveResponse: mapToResponse(*l),
		Arrangements:  arrangement.MapToListResponse(items),
	}, nil
}

func canView(actor domain.Actor, l LeaveRequest, items []arrangement.Arrangement) bool {
	switch {
	case actor.ID == l.RequesterID, actor.Role.IsInstitutional():
		return true
	case actor.Role == domain.RoleHOD && actor.DepartmentCode == l.DepartmentCode:
		return true
	}
	for _, a := range items {
		if a.SubstituteID == actor.ID {
			return true
		}
	}
	return false
}

func (s *service) ListMine(ctx context.Context, actor domain.Actor) ([]LeaveResponse, error) {
	rows, err := s.repo.ListByRequester(ctx, actor.ID)
	if err != nil {
		s.logger.Error("list own leaves failed", zap.Uint64("actor_id", actor.ID), zap.Error(err))
		return nil, err
	}
	return mapRowsToResponse(rows), nil
}

func (s *service) ListForHod(ctx context.Context, actor domain.Actor) ([]LeaveResponse, error) {
	if err := hodStage.authorize(actor, LeaveRequest{DepartmentCode: actor.DepartmentCode}); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByDepartment(ctx, actor.DepartmentCode, actor.ID)
	if err != nil {
		s.logger.Error("list department leaves failed", zap.String("department_code", actor.DepartmentCode), zap.Error(err))
		return nil, err
	}
	return mapRowsToResponse(rows), nil
}

func (s *service) ListForPrincipal(ctx context.Context, actor domain.Actor) ([]LeaveResponse, error) {
	if err := principalStage.authorize(actor, LeaveRequest{}); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListPrincipalQueue(ctx)
	if err != nil {
		s.logger.Error("list principal queue failed", zap.Error(err))
		return nil, err
	}
	return mapRowsToResponse(rows), nil
}

func (s *service) eventFor(l LeaveRequest, actorID uint64) notification.Event {
	return notification.Event{
		LeaveID:   l.ID,
		Reference: l.Reference,
		ActorID:   actorID,
		LeaveType: string(l.LeaveType),
		StartDate: l.StartDate.Format(time.DateOnly),
		EndDate:   l.EndDate.Format(time.DateOnly),
	}
}

func parseDate(value string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func sessionOrDefault(raw string, fallback Session) Session {
	if raw == "" {
		return fallback
	}
	return Session(strings.ToUpper(strings.TrimSpace(raw)))
}

func mapRepositoryError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return leaveerrors.ErrLeaveNotFound
	}
	return err
}
