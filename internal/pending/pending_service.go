package pending

import (
	"context"

	"go-faculty-leave/internal/domain"

	"go.uber.org/zap"
)

//go:generate mockgen -source=pending_service.go -destination=mock/pending_service_mock.go -package=mock
type Service interface {
	GetPendingCounters(ctx context.Context, actor domain.Actor) Counters
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("pending.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("pending.service")
	}
	return &service{repo: repo, logger: l}
}

// GetPendingCounters reads the badge counts for actor straight from the
// workflow tables. Approval counts are only computed for roles that can act
// on them. Any read failure yields all zeros.
func (s *service) GetPendingCounters(ctx context.Context, actor domain.Actor) Counters {
	counters, err := s.count(ctx, actor)
	if err != nil {
		s.logger.Warn("pending counters unavailable",
			zap.Uint64("actor_id", actor.ID),
			zap.String("role", string(actor.Role)),
			zap.Error(err),
		)
		return Counters{}
	}
	return counters
}

func (s *service) count(ctx context.Context, actor domain.Actor) (Counters, error) {
	var (
		c   Counters
		err error
	)

	c.Substitutions, err = s.repo.CountSubstitutions(ctx, actor.ID)
	if err != nil {
		return Counters{}, err
	}

	if actor.Role == domain.RoleHOD && actor.DepartmentCode != "" {
		c.HodApprovals, err = s.repo.CountHodApprovals(ctx, actor.DepartmentCode, actor.ID)
		if err != nil {
			return Counters{}, err
		}
	}

	if actor.Role.IsInstitutional() {
		c.PrincipalApprovals, err = s.repo.CountPrincipalApprovals(ctx)
		if err != nil {
			return Counters{}, err
		}
	}
	return c, nil
}
