package user

import (
	"context"
	"strings"
	"time"

	"go-faculty-leave/internal/balance"
	"go-faculty-leave/internal/domain"
	"go-faculty-leave/internal/shared/contextutil"
	usererrors "go-faculty-leave/internal/user/errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type Service interface {
	Create(ctx context.Context, actor domain.Actor, req CreateUserRequest) (UserResponse, error)
	GetAll(ctx context.Context, filter Filter) ([]UserResponse, error)
	GetByID(ctx context.Context, id uint64) (UserResponse, error)
	ToggleStatus(ctx context.Context, actor domain.Actor, id uint64, isActive bool) error
	ChangePassword(ctx context.Context, actor domain.Actor, currentPassword, newPassword string) error
}

// YearlyCreditor credits the entitlement of a freshly created account.
type YearlyCreditor interface {
	CreditYearlyLeaves(ctx context.Context, actor domain.Actor, userID uint64, year int) (balance.BalanceResponse, error)
}

type service struct {
	repo   Repository
	ledger YearlyCreditor
	now    func() time.Time
}

// NewService wires the user service. ledger may be nil, in which case new
// accounts are credited lazily on their first approved leave.
func NewService(repo Repository, ledger YearlyCreditor) Service {
	return &service{repo: repo, ledger: ledger, now: time.Now}
}

func (s *service) GetAll(ctx context.Context, filter Filter) ([]UserResponse, error) {
	l := contextutil.GetLogger(ctx, nil)

	users, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		l.Error("failed to get users", zap.Error(err))
		return nil, err
	}

	res := make([]UserResponse, len(users))
	for i, u := range users {
		res[i] = mapToResponse(u)
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, id uint64) (UserResponse, error) {
	if id == 0 {
		return UserResponse{}, usererrors.ErrInvalidUserID
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		contextutil.GetLogger(ctx, nil).Warn("failed to get user", zap.Uint64("user_id", id), zap.Error(err))
		return UserResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*u), nil
}

func (s *service) Create(ctx context.Context, actor domain.Actor, req CreateUserRequest) (UserResponse, error) {
	l := contextutil.GetLogger(ctx, nil)

	role := domain.Role(strings.ToLower(strings.TrimSpace(req.Role)))
	if !role.Valid() {
		return UserResponse{}, usererrors.ErrInvalidRole
	}

	joined, err := time.Parse(time.DateOnly, strings.TrimSpace(req.DateJoined))
	if err != nil {
		return UserResponse{}, usererrors.ErrInvalidDateJoined
	}

	if len(req.Password) < 8 {
		return UserResponse{}, usererrors.ErrInvalidPassword
	}

	var dept *string
	if code := strings.ToUpper(strings.TrimSpace(req.DepartmentCode)); code != "" {
		dept = &code
	}
	if dept == nil && requiresDepartment(role) {
		return UserResponse{}, usererrors.ErrDepartmentRequired
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		l.Error("failed to hash password", zap.Error(err))
		return UserResponse{}, err
	}

	var phone *string
	if p := strings.TrimSpace(req.Phone); p != "" {
		phone = &p
	}

	u := &User{
		Name:           strings.TrimSpace(req.Name),
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:          phone,
		Password:       string(hashedPassword),
		Role:           role,
		DepartmentCode: dept,
		DateJoined:     joined,
		IsActive:       true,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		l.Error("failed to create user", zap.Error(err))
		return UserResponse{}, mapRepositoryError(err)
	}

	l.Info("user created successfully", zap.Uint64("user_id", u.ID), zap.String("role", string(u.Role)))

	if s.ledger != nil {
		year := s.now().Year()
		if _, err := s.ledger.CreditYearlyLeaves(ctx, actor, u.ID, year); err != nil {
			l.Warn("initial leave credit failed",
				zap.Uint64("user_id", u.ID),
				zap.Int("year", year),
				zap.Error(err),
			)
		}
	}

	return mapToResponse(*u), nil
}

func (s *service) ToggleStatus(ctx context.Context, actor domain.Actor, id uint64, isActive bool) error {
	l := contextutil.GetLogger(ctx, nil)

	if id == 0 {
		return usererrors.ErrInvalidUserID
	}
	if !isActive && id == actor.ID {
		return usererrors.ErrSelfDeactivation
	}

	if err := s.repo.UpdateStatus(ctx, id, isActive, s.now()); err != nil {
		l.Error("failed to update user status", zap.Uint64("user_id", id), zap.Error(err))
		return mapRepositoryError(err)
	}

	l.Info("user status updated", zap.Uint64("user_id", id), zap.Bool("is_active", isActive))
	return nil
}

func (s *service) ChangePassword(ctx context.Context, actor domain.Actor, currentPassword, newPassword string) error {
	l := contextutil.GetLogger(ctx, nil)

	u, err := s.repo.FindByID(ctx, actor.ID)
	if err != nil {
		return mapRepositoryError(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(currentPassword)); err != nil {
		return usererrors.ErrWrongPassword
	}
	if len(newPassword) < 8 {
		return usererrors.ErrInvalidPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		l.Error("failed to hash new password", zap.Error(err))
		return err
	}

	return mapRepositoryError(s.repo.UpdatePassword(ctx, u.ID, string(hashed), s.now()))
}
