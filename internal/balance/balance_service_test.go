package balance_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"go-faculty-leave/internal/balance"
	balanceerrors "go-faculty-leave/internal/balance/errors"
	"go-faculty-leave/internal/config"
	"go-faculty-leave/internal/domain"
	"go-faculty-leave/internal/shared/apperror"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type balanceKey struct {
	userID uint64
	year   int
}

type fakeBalanceRepository struct {
	rows     map[balanceKey]*balance.LeaveBalance
	profiles map[uint64]*balance.Profile

	upsertCalls int
	listFn      func(ctx context.Context) ([]uint64, error)
}

func newFakeBalanceRepository() *fakeBalanceRepository {
	return &fakeBalanceRepository{
		rows:     map[balanceKey]*balance.LeaveBalance{},
		profiles: map[uint64]*balance.Profile{},
	}
}

func (f *fakeBalanceRepository) WithTx(tx *sql.Tx) balance.Repository {
	return f
}

func (f *fakeBalanceRepository) UpsertTotals(ctx context.Context, b *balance.LeaveBalance) error {
	f.upsertCalls++
	key := balanceKey{b.UserID, b.AcademicYear}
	if existing, ok := f.rows[key]; ok {
		existing.CasualTotal = b.CasualTotal
		existing.RHTotal = b.RHTotal
		existing.EarnedTotal = b.EarnedTotal
		return nil
	}
	row := *b
	f.rows[key] = &row
	return nil
}

func (f *fakeBalanceRepository) FindByUserAndYear(ctx context.Context, userID uint64, year int) (*balance.LeaveBalance, error) {
	row, ok := f.rows[balanceKey{userID, year}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *row
	return &cp, nil
}

func (f *fakeBalanceRepository) SetCarried(ctx context.Context, userID uint64, year int, carried decimal.Decimal) error {
	row, ok := f.rows[balanceKey{userID, year}]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	row.EarnedCarried = carried
	return nil
}

func (f *fakeBalanceRepository) AddUsed(ctx context.Context, userID uint64, year int, bucket balance.Bucket, days decimal.Decimal) (bool, error) {
	row, ok := f.rows[balanceKey{userID, year}]
	if !ok {
		return false, nil
	}
	switch bucket {
	case balance.BucketCasual:
		row.CasualUsed = row.CasualUsed.Add(days)
	case balance.BucketRH:
		row.RHUsed = row.RHUsed.Add(days)
	case balance.BucketEarned:
		row.EarnedUsed = row.EarnedUsed.Add(days)
	}
	return true, nil
}

func (f *fakeBalanceRepository) FindProfile(ctx context.Context, userID uint64) (*balance.Profile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (f *fakeBalanceRepository) ListActiveUserIDs(ctx context.Context) ([]uint64, error) {
	if f.listFn != nil {
		return f.listFn(ctx)
	}
	var ids []uint64
	for id, p := range f.profiles {
		if p.IsActive {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

var (
	adminActor   = domain.Actor{ID: 1, Role: domain.RoleAdmin}
	fixedNow     = time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)
	facultyJoin  = time.Date(2023, time.August, 15, 0, 0, 0, 0, time.UTC)
	ledgerConfig = config.LedgerConfig{RolloverLockTTL: time.Minute}
)

type balanceServiceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	redisMock redismock.ClientMock
	repo      *fakeBalanceRepository
	service   balance.Service
}

func setupBalanceServiceTest(t *testing.T) *balanceServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	rdb, redisMock := redismock.NewClientMock()

	repo := newFakeBalanceRepository()
	repo.profiles[7] = &balance.Profile{ID: 7, Role: domain.RoleFaculty, DepartmentCode: "CSE", DateJoined: facultyJoin, IsActive: true}

	svc := balance.NewService(db, repo, rdb, ledgerConfig, func() time.Time { return fixedNow })

	return &balanceServiceDeps{db: db, sqlMock: sqlMock, redisMock: redisMock, repo: repo, service: svc}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestBalanceService_CreditYearlyLeaves(t *testing.T) {
	ctx := context.Background()

	t.Run("success joining year scenario", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.CreditYearlyLeaves(ctx, adminActor, 7, 2023)

		assert.NoError(t, err)
		assert.Equal(t, 2023, resp.Year)
		assert.True(t, decimal.NewFromInt(5).Equal(resp.Casual.Total))
		assert.True(t, decimal.NewFromInt(1).Equal(resp.RH.Total))
		assert.True(t, decimal.Zero.Equal(resp.Earned.Total))
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success twice keeps totals and used counters", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		expectTx(t, deps.sqlMock, true)

		first, err := deps.service.CreditYearlyLeaves(ctx, adminActor, 7, 2024)
		assert.NoError(t, err)

		deps.repo.rows[balanceKey{7, 2024}].CasualUsed = decimal.RequireFromString("2.5")

		second, err := deps.service.CreditYearlyLeaves(ctx, adminActor, 7, 2024)
		assert.NoError(t, err)

		assert.True(t, first.Casual.Total.Equal(second.Casual.Total))
		assert.True(t, first.RH.Total.Equal(second.RH.Total))
		assert.True(t, first.Earned.Total.Equal(second.Earned.Total))
		assert.Equal(t, "2.5", second.Casual.Used.String())
		assert.Equal(t, "9.5", second.Casual.Remaining.String())
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success year defaults to current year", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.CreditYearlyLeaves(ctx, adminActor, 7, 0)

		assert.NoError(t, err)
		assert.Equal(t, 2024, resp.Year)
		assert.True(t, decimal.NewFromInt(12).Equal(resp.Casual.Total))
		assert.True(t, decimal.Zero.Equal(resp.Earned.Total))
	})

	t.Run("negative year before joining", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.CreditYearlyLeaves(ctx, adminActor, 7, 2022)

		assert.ErrorIs(t, err, balanceerrors.ErrYearBeforeJoining)
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
		assert.Equal(t, 0, deps.repo.upsertCalls)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative unknown user", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.CreditYearlyLeaves(ctx, adminActor, 99, 2024)

		assert.ErrorIs(t, err, balanceerrors.ErrUserNotFound)
	})

	t.Run("negative faculty cannot credit", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.CreditYearlyLeaves(ctx, domain.Actor{ID: 7, Role: domain.RoleFaculty}, 7, 2024)

		assert.ErrorIs(t, err, apperror.ErrForbidden)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestBalanceService_GetBalance(t *testing.T) {
	ctx := context.Background()

	seed := func(deps *balanceServiceDeps) {
		deps.repo.rows[balanceKey{7, 2024}] = &balance.LeaveBalance{
			UserID: 7, AcademicYear: 2024,
			CasualTotal: 12, CasualUsed: decimal.NewFromInt(3),
			RHTotal: 2, RHUsed: decimal.Zero,
			EarnedTotal: 6, EarnedUsed: decimal.RequireFromString("1.5"), EarnedCarried: decimal.NewFromInt(2),
		}
	}

	t.Run("success own balance with remaining", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		defer deps.db.Close()
		seed(deps)

		resp, err := deps.service.GetBalance(ctx, domain.Actor{ID: 7, Role: domain.RoleFaculty}, 7, 2024)

		assert.NoError(t, err)
		assert.Equal(t, "9", resp.Casual.Remaining.String())
		assert.Equal(t, "6.5", resp.Earned.Remaining.String())
	})

	t.Run("success hod of same department", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		defer deps.db.Close()
		seed(deps)

		_, err := deps.service.GetBalance(ctx, domain.Actor{ID: 3, Role: domain.RoleHOD, DepartmentCode: "CSE"}, 7, 2024)

		assert.NoError(t, err)
	})

	t.Run("negative hod of other department", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		defer deps.db.Close()
		seed(deps)

		_, err := deps.service.GetBalance(ctx, domain.Actor{ID: 3, Role: domain.RoleHOD, DepartmentCode: "ECE"}, 7, 2024)

		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})

	t.Run("negative other faculty", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		defer deps.db.Close()
		seed(deps)

		_, err := deps.service.GetBalance(ctx, domain.Actor{ID: 8, Role: domain.RoleFaculty, DepartmentCode: "CSE"}, 7, 2024)

		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})

	t.Run("negative missing row", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GetBalance(ctx, adminActor, 7, 2020)

		assert.ErrorIs(t, err, balanceerrors.ErrBalanceNotFound)
	})
}

func TestBalanceService_RolloverYear(t *testing.T) {
	ctx := context.Background()
	lockKey := "leave:rollover:2024"
	lockValue := fixedNow.Format(time.RFC3339)

	t.Run("success credits and carries earned leave", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		defer deps.db.Close()

		deps.repo.profiles[7].DateJoined = time.Date(2020, time.January, 6, 0, 0, 0, 0, time.UTC)
		deps.repo.rows[balanceKey{7, 2023}] = &balance.LeaveBalance{
			UserID: 7, AcademicYear: 2023,
			CasualTotal: 12, CasualUsed: decimal.NewFromInt(10),
			EarnedTotal: 6, EarnedUsed: decimal.RequireFromString("2.5"), EarnedCarried: decimal.NewFromInt(1),
		}

		deps.redisMock.ExpectSetNX(lockKey, lockValue, time.Minute).SetVal(true)
		deps.redisMock.ExpectDel(lockKey).SetVal(1)
		expectTx(t, deps.sqlMock, true)

		result, err := deps.service.RolloverYear(ctx, 2024)

		assert.NoError(t, err)
		assert.Equal(t, balance.RolloverResult{Year: 2024, Credited: 1}, result)

		row := deps.repo.rows[balanceKey{7, 2024}]
		assert.Equal(t, "4.5", row.EarnedCarried.String())
		assert.True(t, row.CasualUsed.IsZero())
		assert.Equal(t, 12, row.CasualTotal)
		assert.NoError(t, deps.redisMock.ExpectationsWereMet())
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success rerun is stable and carry never negative", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		defer deps.db.Close()

		deps.repo.rows[balanceKey{7, 2023}] = &balance.LeaveBalance{
			UserID: 7, AcademicYear: 2023, EarnedTotal: 0, EarnedUsed: decimal.NewFromInt(3),
		}

		for i := 0; i < 2; i++ {
			deps.redisMock.ExpectSetNX(lockKey, lockValue, time.Minute).SetVal(true)
			deps.redisMock.ExpectDel(lockKey).SetVal(1)
			expectTx(t, deps.sqlMock, true)

			result, err := deps.service.RolloverYear(ctx, 2024)
			assert.NoError(t, err)
			assert.Equal(t, 1, result.Credited)
		}

		assert.True(t, deps.repo.rows[balanceKey{7, 2024}].EarnedCarried.IsZero())
		assert.NoError(t, deps.redisMock.ExpectationsWereMet())
	})

	t.Run("success users joining later are skipped", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		defer deps.db.Close()

		deps.repo.profiles[7].DateJoined = time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)

		deps.redisMock.ExpectSetNX(lockKey, lockValue, time.Minute).SetVal(true)
		deps.redisMock.ExpectDel(lockKey).SetVal(1)
		expectTx(t, deps.sqlMock, false)

		result, err := deps.service.RolloverYear(ctx, 2024)

		assert.NoError(t, err)
		assert.Equal(t, 1, result.Skipped)
		assert.Equal(t, 0, result.Credited)
	})

	t.Run("negative lock held elsewhere", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		defer deps.db.Close()

		deps.redisMock.ExpectSetNX(lockKey, lockValue, time.Minute).SetVal(false)

		_, err := deps.service.RolloverYear(ctx, 2024)

		assert.ErrorIs(t, err, balanceerrors.ErrRolloverInProgress)
		assert.NoError(t, deps.redisMock.ExpectationsWereMet())
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative list users failed", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		defer deps.db.Close()

		deps.repo.listFn = func(ctx context.Context) ([]uint64, error) {
			return nil, errors.New("db down")
		}
		deps.redisMock.ExpectSetNX(lockKey, lockValue, time.Minute).SetVal(true)
		deps.redisMock.ExpectDel(lockKey).SetVal(1)

		_, err := deps.service.RolloverYear(ctx, 2024)

		assert.EqualError(t, err, "db down")
		assert.NoError(t, deps.redisMock.ExpectationsWereMet())
	})
}

func TestBalanceService_ConsumeForLeave(t *testing.T) {
	ctx := context.Background()

	t.Run("success casual leave increments casual used", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		defer deps.db.Close()
		deps.repo.rows[balanceKey{7, 2024}] = &balance.LeaveBalance{UserID: 7, AcademicYear: 2024, CasualTotal: 12}

		err := deps.service.ConsumeForLeave(ctx, nil, 7, 2024, "CL", decimal.RequireFromString("1.5"))

		assert.NoError(t, err)
		assert.Equal(t, "1.5", deps.repo.rows[balanceKey{7, 2024}].CasualUsed.String())
	})

	t.Run("success missing row is credited first", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		defer deps.db.Close()

		err := deps.service.ConsumeForLeave(ctx, nil, 7, 2024, "RH", decimal.NewFromInt(1))

		assert.NoError(t, err)
		row := deps.repo.rows[balanceKey{7, 2024}]
		assert.Equal(t, 2, row.RHTotal)
		assert.Equal(t, "1", row.RHUsed.String())
	})

	t.Run("success overdraw is allowed", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		defer deps.db.Close()
		deps.repo.rows[balanceKey{7, 2024}] = &balance.LeaveBalance{UserID: 7, AcademicYear: 2024, EarnedTotal: 1}

		err := deps.service.ConsumeForLeave(ctx, nil, 7, 2024, "EL", decimal.NewFromInt(3))

		assert.NoError(t, err)
		assert.Equal(t, "3", deps.repo.rows[balanceKey{7, 2024}].EarnedUsed.String())
	})

	t.Run("success untracked type touches nothing", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		defer deps.db.Close()

		err := deps.service.ConsumeForLeave(ctx, nil, 7, 2024, "OOD", decimal.NewFromInt(2))

		assert.NoError(t, err)
		assert.Empty(t, deps.repo.rows)
		assert.Equal(t, 0, deps.repo.upsertCalls)
	})
}
