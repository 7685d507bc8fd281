package auth_test

import (
	"context"
	"testing"
	"time"

	"go-faculty-leave/internal/auth"
	autherrors "go-faculty-leave/internal/auth/errors"
	authMock "go-faculty-leave/internal/auth/mock"
	"go-faculty-leave/internal/config"
	"go-faculty-leave/internal/domain"
	"go-faculty-leave/internal/middleware"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testSecret = "test-secret-at-least-16"

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{JWTSecret: testSecret, AccessTokenTTL: time.Hour}
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()
	password := "password123"
	pw, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	dept := "CSE"

	hod := &auth.Credential{
		ID:             20,
		Name:           "Priya",
		Email:          "priya@college.edu",
		Password:       string(pw),
		Role:           domain.RoleHOD,
		DepartmentCode: &dept,
		IsActive:       true,
	}

	t.Run("success issues token carrying the actor", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockRepo := authMock.NewMockRepository(ctrl)
		service := auth.NewService(mockRepo, testAuthConfig())

		mockRepo.EXPECT().GetByEmail(gomock.Any(), hod.Email).Return(hod, nil)

		token, expiresAt, resp, err := service.Login(ctx, hod.Email, password)

		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.True(t, expiresAt.After(time.Now()))
		assert.Equal(t, "hod", resp.Role)
		assert.Equal(t, "CSE", resp.DepartmentCode)

		claims, err := middleware.ParseToken(token, testSecret)
		assert.NoError(t, err)
		assert.Equal(t, domain.Actor{ID: 20, Role: domain.RoleHOD, DepartmentCode: "CSE"}, claims.Actor())
	})

	t.Run("negative wrong password", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockRepo := authMock.NewMockRepository(ctrl)
		service := auth.NewService(mockRepo, testAuthConfig())

		mockRepo.EXPECT().GetByEmail(gomock.Any(), hod.Email).Return(hod, nil)

		_, _, _, err := service.Login(ctx, hod.Email, "wrongpass")

		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("negative unknown email", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockRepo := authMock.NewMockRepository(ctrl)
		service := auth.NewService(mockRepo, testAuthConfig())

		mockRepo.EXPECT().GetByEmail(gomock.Any(), "ghost@college.edu").Return(nil, gorm.ErrRecordNotFound)

		_, _, _, err := service.Login(ctx, "ghost@college.edu", password)

		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("negative inactive user", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockRepo := authMock.NewMockRepository(ctrl)
		service := auth.NewService(mockRepo, testAuthConfig())

		inactive := *hod
		inactive.IsActive = false
		mockRepo.EXPECT().GetByEmail(gomock.Any(), hod.Email).Return(&inactive, nil)

		_, _, _, err := service.Login(ctx, hod.Email, password)

		assert.ErrorIs(t, err, autherrors.ErrUserInactive)
	})
}

func TestService_GetMe(t *testing.T) {
	ctx := context.Background()
	actor := domain.Actor{ID: 10, Role: domain.RoleFaculty, DepartmentCode: "CSE"}

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockRepo := authMock.NewMockRepository(ctrl)
		service := auth.NewService(mockRepo, testAuthConfig())

		mockRepo.EXPECT().GetByID(gomock.Any(), uint64(10)).
			Return(&auth.Credential{ID: 10, Email: "asha@college.edu", Role: domain.RoleFaculty, IsActive: true}, nil)

		resp, err := service.GetMe(ctx, actor)

		assert.NoError(t, err)
		assert.Equal(t, "asha@college.edu", resp.Email)
	})

	t.Run("negative deleted user", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockRepo := authMock.NewMockRepository(ctrl)
		service := auth.NewService(mockRepo, testAuthConfig())

		mockRepo.EXPECT().GetByID(gomock.Any(), uint64(10)).Return(nil, gorm.ErrRecordNotFound)

		_, err := service.GetMe(ctx, actor)

		assert.ErrorIs(t, err, autherrors.ErrUserNotFound)
	})
}
