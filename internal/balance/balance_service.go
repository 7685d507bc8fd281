package balance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	balanceerrors "go-faculty-leave/internal/balance/errors"
	"go-faculty-leave/internal/config"
	"go-faculty-leave/internal/domain"
	"go-faculty-leave/internal/shared/apperror"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

//go:generate mockgen -source=balance_service.go -destination=mock/balance_service_mock.go -package=mock
type Service interface {
	CreditYearlyLeaves(ctx context.Context, actor domain.Actor, userID uint64, year int) (BalanceResponse, error)
	GetBalance(ctx context.Context, actor domain.Actor, userID uint64, year int) (BalanceResponse, error)
	RolloverYear(ctx context.Context, year int) (RolloverResult, error)
	ConsumeForLeave(ctx context.Context, tx *sql.Tx, userID uint64, year int, leaveType string, days decimal.Decimal) error
}

// Clock returns the current time. Nil means time.Now.
type Clock func() time.Time

type service struct {
	db      *sql.DB
	repo    Repository
	redis   *redis.Client
	lockTTL time.Duration
	now     Clock
	group   singleflight.Group
	logger  *zap.Logger
}

// NewService builds the ledger. rdb may be nil on a single instance, in which
// case rollover relies on singleflight alone.
func NewService(db *sql.DB, repo Repository, rdb *redis.Client, cfg config.LedgerConfig, clock Clock, logger ...*zap.Logger) Service {
	l := zap.L().Named("balance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.service")
	}
	if clock == nil {
		clock = time.Now
	}
	ttl := cfg.RolloverLockTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &service{db: db, repo: repo, redis: rdb, lockTTL: ttl, now: clock, logger: l}
}

func (s *service) resolveYear(year int) (int, error) {
	if year == 0 {
		return s.now().Year(), nil
	}
	if year < 1900 || year > 9999 {
		return 0, balanceerrors.ErrInvalidYear
	}
	return year, nil
}

func (s *service) CreditYearlyLeaves(ctx context.Context, actor domain.Actor, userID uint64, year int) (BalanceResponse, error) {
	s.logger.Debug("credit yearly leaves requested",
		zap.Uint64("actor_id", actor.ID),
		zap.Uint64("user_id", userID),
		zap.Int("year", year),
	)

	if !actor.Role.IsInstitutional() {
		return BalanceResponse{}, apperror.ErrForbidden
	}
	if userID == 0 {
		return BalanceResponse{}, balanceerrors.ErrInvalidUserID
	}
	year, err := s.resolveYear(year)
	if err != nil {
		return BalanceResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("credit yearly leaves begin tx failed", zap.Error(err))
		return BalanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	profile, err := s.findProfile(ctx, qtx, userID)
	if err != nil {
		return BalanceResponse{}, err
	}
	b, err := s.credit(ctx, qtx, profile, year)
	if err != nil {
		s.logger.Warn("credit yearly leaves failed", zap.Uint64("user_id", userID), zap.Error(err))
		return BalanceResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("credit yearly leaves commit failed", zap.Error(err))
		return BalanceResponse{}, err
	}
	s.logger.Info("credit yearly leaves success",
		zap.Uint64("user_id", userID),
		zap.Int("year", year),
		zap.Int("casual_total", b.CasualTotal),
		zap.Int("rh_total", b.RHTotal),
		zap.Int("earned_total", b.EarnedTotal),
	)

	return mapToResponse(*b), nil
}

// credit upserts the entitlement totals for year and returns the stored row.
func (s *service) credit(ctx context.Context, qtx Repository, profile *Profile, year int) (*LeaveBalance, error) {
	asOf := ClampToYear(s.now(), year)
	e, err := ComputeEntitlement(profile.Role, profile.DateJoined, year, asOf)
	if err != nil {
		return nil, err
	}

	if err := qtx.UpsertTotals(ctx, &LeaveBalance{
		UserID:       profile.ID,
		AcademicYear: year,
		CasualTotal:  e.Casual,
		RHTotal:      e.RH,
		EarnedTotal:  e.Earned,
	}); err != nil {
		return nil, err
	}
	return qtx.FindByUserAndYear(ctx, profile.ID, year)
}

func (s *service) findProfile(ctx context.Context, qtx Repository, userID uint64) (*Profile, error) {
	profile, err := qtx.FindProfile(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, balanceerrors.ErrUserNotFound
		}
		s.logger.Error("balance load profile failed", zap.Uint64("user_id", userID), zap.Error(err))
		return nil, err
	}
	return profile, nil
}

func (s *service) GetBalance(ctx context.Context, actor domain.Actor, userID uint64, year int) (BalanceResponse, error) {
	if userID == 0 {
		return BalanceResponse{}, balanceerrors.ErrInvalidUserID
	}
	year, err := s.resolveYear(year)
	if err != nil {
		return BalanceResponse{}, err
	}

	if actor.ID != userID && !actor.Role.IsInstitutional() {
		if actor.Role != domain.RoleHOD {
			return BalanceResponse{}, apperror.ErrForbidden
		}
		profile, err := s.findProfile(ctx, s.repo, userID)
		if err != nil {
			return BalanceResponse{}, err
		}
		if profile.DepartmentCode != actor.DepartmentCode {
			return BalanceResponse{}, apperror.ErrForbidden
		}
	}

	b, err := s.repo.FindByUserAndYear(ctx, userID, year)
	if err != nil {
		if isNotFound(err) {
			return BalanceResponse{}, balanceerrors.ErrBalanceNotFound
		}
		return BalanceResponse{}, err
	}
	return mapToResponse(*b), nil
}

func (s *service) RolloverYear(ctx context.Context, year int) (RolloverResult, error) {
	year, err := s.resolveYear(year)
	if err != nil {
		return RolloverResult{}, err
	}

	v, err, shared := s.group.Do(strconv.Itoa(year), func() (any, error) {
		return s.rollover(ctx, year)
	})
	if shared {
		s.logger.Debug("rollover trigger coalesced", zap.Int("year", year))
	}
	if err != nil {
		return RolloverResult{}, err
	}
	return v.(RolloverResult), nil
}

func rolloverLockKey(year int) string {
	return fmt.Sprintf("leave:rollover:%d", year)
}

func (s *service) rollover(ctx context.Context, year int) (RolloverResult, error) {
	if s.redis != nil {
		key := rolloverLockKey(year)
		ok, err := s.redis.SetNX(ctx, key, s.now().UTC().Format(time.RFC3339), s.lockTTL).Result()
		if err != nil {
			s.logger.Error("rollover lock failed", zap.Int("year", year), zap.Error(err))
			return RolloverResult{}, err
		}
		if !ok {
			s.logger.Warn("rollover lock held elsewhere", zap.Int("year", year))
			return RolloverResult{}, balanceerrors.ErrRolloverInProgress
		}
		defer s.redis.Del(context.WithoutCancel(ctx), key)
	}

	s.logger.Info("rollover started", zap.Int("year", year))

	ids, err := s.repo.ListActiveUserIDs(ctx)
	if err != nil {
		s.logger.Error("rollover list users failed", zap.Error(err))
		return RolloverResult{}, err
	}

	result := RolloverResult{Year: year}
	for _, id := range ids {
		err := s.rolloverUser(ctx, id, year)
		switch {
		case err == nil:
			result.Credited++
		case errors.Is(err, balanceerrors.ErrYearBeforeJoining), errors.Is(err, balanceerrors.ErrMissingDateJoined):
			result.Skipped++
		default:
			result.Failed++
			s.logger.Error("rollover user failed", zap.Uint64("user_id", id), zap.Int("year", year), zap.Error(err))
		}
	}

	s.logger.Info("rollover finished",
		zap.Int("year", year),
		zap.Int("credited", result.Credited),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

// rolloverUser credits year and carries unused EL forward from year-1.
// Each user commits on their own so a re-run resumes cleanly.
func (s *service) rolloverUser(ctx context.Context, userID uint64, year int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	profile, err := s.findProfile(ctx, qtx, userID)
	if err != nil {
		return err
	}
	if _, err := s.credit(ctx, qtx, profile, year); err != nil {
		return err
	}

	carried := decimal.Zero
	prev, err := qtx.FindByUserAndYear(ctx, userID, year-1)
	switch {
	case err == nil:
		carried = decimal.Max(prev.EarnedRemaining(), decimal.Zero)
	case !isNotFound(err):
		return err
	}
	if err := qtx.SetCarried(ctx, userID, year, carried); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *service) ConsumeForLeave(ctx context.Context, tx *sql.Tx, userID uint64, year int, leaveType string, days decimal.Decimal) error {
	bucket, ok := BucketFor(leaveType)
	if !ok {
		return nil
	}

	qtx := s.repo.WithTx(tx)

	updated, err := qtx.AddUsed(ctx, userID, year, bucket, days)
	if err != nil {
		s.logger.Error("consume leave update failed", zap.Uint64("user_id", userID), zap.Error(err))
		return err
	}
	if !updated {
		profile, err := s.findProfile(ctx, qtx, userID)
		if err != nil {
			return err
		}
		if _, err := s.credit(ctx, qtx, profile, year); err != nil {
			return err
		}
		if _, err := qtx.AddUsed(ctx, userID, year, bucket, days); err != nil {
			return err
		}
	}

	b, err := qtx.FindByUserAndYear(ctx, userID, year)
	if err != nil {
		return err
	}
	if remaining := remainingFor(*b, bucket); remaining.IsNegative() {
		s.logger.Warn("leave balance overdrawn",
			zap.Uint64("user_id", userID),
			zap.Int("year", year),
			zap.String("bucket", string(bucket)),
			zap.String("remaining", remaining.String()),
		)
	}
	s.logger.Info("consume leave success",
		zap.Uint64("user_id", userID),
		zap.Int("year", year),
		zap.String("bucket", string(bucket)),
		zap.String("days", days.String()),
	)
	return nil
}

func remainingFor(b LeaveBalance, bucket Bucket) decimal.Decimal {
	resp := mapToResponse(b)
	switch bucket {
	case BucketCasual:
		return resp.Casual.Remaining
	case BucketRH:
		return resp.RH.Remaining
	default:
		return resp.Earned.Remaining
	}
}
