package auth

import (
	"context"
	"strconv"
	"time"

	autherrors "go-faculty-leave/internal/auth/errors"
	"go-faculty-leave/internal/config"
	"go-faculty-leave/internal/domain"
	"go-faculty-leave/internal/middleware"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, email, password string) (accessToken string, expiresAt time.Time, resp AuthResponse, err error)
	GetMe(ctx context.Context, actor domain.Actor) (AuthResponse, error)
}

type service struct {
	repo   Repository
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger
}

func NewService(repo Repository, cfg config.AuthConfig, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	ttl := cfg.AccessTokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &service{repo: repo, secret: []byte(cfg.JWTSecret), ttl: ttl, now: time.Now, logger: l}
}

func (s *service) Login(ctx context.Context, email, password string) (string, time.Time, AuthResponse, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return "", time.Time{}, AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", time.Time{}, AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		return "", time.Time{}, AuthResponse{}, autherrors.ErrUserInactive
	}

	expiresAt := s.now().Add(s.ttl)
	token, err := s.generateToken(*user, expiresAt)
	if err != nil {
		s.logger.Error("sign access token failed", zap.Uint64("user_id", user.ID), zap.Error(err))
		return "", time.Time{}, AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	s.logger.Info("user logged in", zap.Uint64("user_id", user.ID), zap.String("role", string(user.Role)))
	return token, expiresAt, mapToResponse(*user), nil
}

func (s *service) GetMe(ctx context.Context, actor domain.Actor) (AuthResponse, error) {
	u, err := s.repo.GetByID(ctx, actor.ID)
	if err != nil {
		return AuthResponse{}, autherrors.ErrUserNotFound
	}
	if !u.IsActive {
		return AuthResponse{}, autherrors.ErrUserInactive
	}
	return mapToResponse(*u), nil
}

func (s *service) generateToken(c Credential, expiresAt time.Time) (string, error) {
	claims := middleware.Claims{
		UserID:         c.ID,
		Role:           string(c.Role),
		DepartmentCode: c.department(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(c.ID, 10),
			IssuedAt:  jwt.NewNumericDate(s.now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}
