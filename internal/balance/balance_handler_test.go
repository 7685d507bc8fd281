package balance_test

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-faculty-leave/internal/balance"
	balanceerrors "go-faculty-leave/internal/balance/errors"
	"go-faculty-leave/internal/domain"
	"go-faculty-leave/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type fakeBalanceService struct {
	getFn      func(ctx context.Context, actor domain.Actor, userID uint64, year int) (balance.BalanceResponse, error)
	creditFn   func(ctx context.Context, actor domain.Actor, userID uint64, year int) (balance.BalanceResponse, error)
	rolloverFn func(ctx context.Context, year int) (balance.RolloverResult, error)
}

func (f *fakeBalanceService) CreditYearlyLeaves(ctx context.Context, actor domain.Actor, userID uint64, year int) (balance.BalanceResponse, error) {
	return f.creditFn(ctx, actor, userID, year)
}

func (f *fakeBalanceService) GetBalance(ctx context.Context, actor domain.Actor, userID uint64, year int) (balance.BalanceResponse, error) {
	return f.getFn(ctx, actor, userID, year)
}

func (f *fakeBalanceService) RolloverYear(ctx context.Context, year int) (balance.RolloverResult, error) {
	return f.rolloverFn(ctx, year)
}

func (f *fakeBalanceService) ConsumeForLeave(ctx context.Context, tx *sql.Tx, userID uint64, year int, leaveType string, days decimal.Decimal) error {
	return nil
}

func newBalanceRouter(svc balance.Service, actor domain.Actor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := balance.NewHandler(svc)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextActor, actor)
		c.Next()
	})
	r.GET("/balances/:user_id", h.Get)
	r.POST("/balances/credit", h.Credit)
	r.POST("/balances/rollover", h.Rollover)
	return r
}

func TestBalanceHandler_Get(t *testing.T) {
	faculty := domain.Actor{ID: 10, Role: domain.RoleFaculty, DepartmentCode: "CSE"}

	t.Run("success passes user and year", func(t *testing.T) {
		var gotUser uint64
		var gotYear int
		svc := &fakeBalanceService{getFn: func(ctx context.Context, actor domain.Actor, userID uint64, year int) (balance.BalanceResponse, error) {
			gotUser, gotYear = userID, year
			return balance.BalanceResponse{UserID: userID, Year: year}, nil
		}}

		w := httptest.NewRecorder()
		newBalanceRouter(svc, faculty).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/balances/10?year=2024", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, uint64(10), gotUser)
		assert.Equal(t, 2024, gotYear)
	})

	t.Run("negative invalid year", func(t *testing.T) {
		svc := &fakeBalanceService{}

		w := httptest.NewRecorder()
		newBalanceRouter(svc, faculty).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/balances/10?year=abc", nil))

		assert.Equal(t, balanceerrors.ErrInvalidYear.HTTPStatus, w.Code)
	})

	t.Run("negative invalid user id", func(t *testing.T) {
		svc := &fakeBalanceService{}

		w := httptest.NewRecorder()
		newBalanceRouter(svc, faculty).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/balances/me", nil))

		assert.Equal(t, balanceerrors.ErrInvalidUserID.HTTPStatus, w.Code)
	})
}

func TestBalanceHandler_Credit(t *testing.T) {
	principal := domain.Actor{ID: 30, Role: domain.RolePrincipal}

	t.Run("success", func(t *testing.T) {
		svc := &fakeBalanceService{creditFn: func(ctx context.Context, actor domain.Actor, userID uint64, year int) (balance.BalanceResponse, error) {
			assert.Equal(t, principal, actor)
			return balance.BalanceResponse{UserID: userID, Year: year}, nil
		}}

		req := httptest.NewRequest(http.MethodPost, "/balances/credit", strings.NewReader(`{"user_id":10,"year":2024}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		newBalanceRouter(svc, principal).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("negative service error is mapped", func(t *testing.T) {
		svc := &fakeBalanceService{creditFn: func(ctx context.Context, actor domain.Actor, userID uint64, year int) (balance.BalanceResponse, error) {
			return balance.BalanceResponse{}, balanceerrors.ErrYearBeforeJoining
		}}

		req := httptest.NewRequest(http.MethodPost, "/balances/credit", strings.NewReader(`{"user_id":10,"year":2000}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		newBalanceRouter(svc, principal).ServeHTTP(w, req)

		assert.Equal(t, balanceerrors.ErrYearBeforeJoining.HTTPStatus, w.Code)
	})

	t.Run("negative missing user id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/balances/credit", strings.NewReader(`{"year":2024}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		newBalanceRouter(&fakeBalanceService{}, principal).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestBalanceHandler_Rollover(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeBalanceService{rolloverFn: func(ctx context.Context, year int) (balance.RolloverResult, error) {
			return balance.RolloverResult{Year: year, Credited: 3}, nil
		}}

		req := httptest.NewRequest(http.MethodPost, "/balances/rollover", strings.NewReader(`{"year":2025}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		newBalanceRouter(svc, domain.Actor{ID: 1, Role: domain.RoleAdmin}).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"credited":3`)
	})

	t.Run("negative lock held", func(t *testing.T) {
		svc := &fakeBalanceService{rolloverFn: func(ctx context.Context, year int) (balance.RolloverResult, error) {
			return balance.RolloverResult{}, balanceerrors.ErrRolloverInProgress
		}}

		req := httptest.NewRequest(http.MethodPost, "/balances/rollover", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		newBalanceRouter(svc, domain.Actor{ID: 1, Role: domain.RoleAdmin}).ServeHTTP(w, req)

		assert.Equal(t, balanceerrors.ErrRolloverInProgress.HTTPStatus, w.Code)
	})
}
