package leave

import (
	"context"
	"database/sql"
	"time"

	"go-faculty-leave/internal/arrangement"
	leaveerrors "go-faculty-leave/internal/leave/errors"
	"go-faculty-leave/internal/workflow"

	"go.uber.org/zap"
)

// SubstituteStage feeds arrangement outcomes into the leave workflow. It runs
// inside the arrangement service's transaction.
type SubstituteStage struct {
	repo   Repository
	now    func() time.Time
	logger *zap.Logger
}

var _ arrangement.ParentWorkflow = (*SubstituteStage)(nil)

func NewSubstituteStage(repo Repository, logger ...*zap.Logger) *SubstituteStage {
	l := zap.L().Named("leave.substitute_stage")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.substitute_stage")
	}
	return &SubstituteStage{repo: repo, now: time.Now, logger: l}
}

func (s *SubstituteStage) Lock(ctx context.Context, tx *sql.Tx, leaveID uint64) (arrangement.Parent, error) {
	l, err := s.repo.WithTx(tx).FindByIDForUpdate(ctx, leaveID)
	if err != nil {
		return arrangement.Parent{}, mapRepositoryError(err)
	}
	return arrangement.Parent{
		ID:          l.ID,
		RequesterID: l.RequesterID,
		Reference:   l.Reference,
		LeaveType:   string(l.LeaveType),
		StartDate:   l.StartDate.Format(time.DateOnly),
		EndDate:     l.EndDate.Format(time.DateOnly),
		State:       l.State(),
	}, nil
}

func (s *SubstituteStage) ApplySubstituteOutcome(ctx context.Context, tx *sql.Tx, leaveID uint64, composite workflow.SubstituteStatus) (workflow.State, error) {
	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByIDForUpdate(ctx, leaveID)
	if err != nil {
		return workflow.State{}, mapRepositoryError(err)
	}

	people, err := qtx.FindPeople(ctx, []uint64{l.RequesterID})
	if err != nil {
		return workflow.State{}, err
	}
	if len(people) == 0 {
		return workflow.State{}, leaveerrors.ErrRequesterNotFound
	}

	current := l.State()
	next, err := workflow.ApplyFor(current, workflow.SubstituteTrigger(composite), people[0].Role)
	if err != nil {
		return current, err
	}
	if next == current {
		return next, nil
	}

	now := s.now()
	l.SetState(next, now)
	l.UpdatedAt = now
	if err := qtx.UpdateWorkflow(ctx, l); err != nil {
		s.logger.Error("apply substitute outcome persist failed", zap.Uint64("leave_id", leaveID), zap.Error(err))
		return current, err
	}

	s.logger.Info("substitute stage advanced",
		zap.Uint64("leave_id", leaveID),
		zap.String("substitute_status", string(next.Substitute)),
		zap.String("final_status", string(next.Final)),
	)
	return next, nil
}
