package department_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"go-faculty-leave/internal/department"
	departmenterrors "go-faculty-leave/internal/department/errors"
	departmentMock "go-faculty-leave/internal/department/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type serviceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	service   department.Service
	repo      *departmentMock.MockRepository
	redismock redismock.ClientMock
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	dbRedis, redisMock := redismock.NewClientMock()
	repo := departmentMock.NewMockRepository(ctrl)

	svc := department.NewService(db, repo, dbRedis, zap.NewNop())

	return &serviceDeps{
		db:        db,
		sqlMock:   sqlMock,
		service:   svc,
		repo:      repo,
		redismock: redisMock,
	}
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

func TestDepartmentService_GetAll(t *testing.T) {
	ctx := context.Background()

	t.Run("success cache hit skips the database", func(t *testing.T) {
		deps := setupServiceTest(t)
		cached, _ := json.Marshal([]department.DepartmentResponse{
			{Code: "CSE", Name: "Computer Science"},
			{Code: "ECE", Name: "Electronics"},
		})
		deps.redismock.ExpectGet(department.DepartmentAllKey).SetVal(string(cached))

		resp, err := deps.service.GetAll(ctx)

		assert.NoError(t, err)
		assert.Len(t, resp, 2)
		assert.Equal(t, "CSE", resp[0].Code)
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("success cache miss loads and stores", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.redismock.ExpectGet(department.DepartmentAllKey).RedisNil()

		deps.repo.EXPECT().
			FindAll(gomock.Any()).
			Return([]department.Department{{Code: "MECH", Name: "Mechanical"}}, nil).
			Times(1)

		expected, _ := json.Marshal([]department.DepartmentResponse{{Code: "MECH", Name: "Mechanical"}})
		deps.redismock.ExpectSet(department.DepartmentAllKey, string(expected), 30*time.Minute).SetVal("OK")

		resp, err := deps.service.GetAll(ctx)

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, "Mechanical", resp[0].Name)
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("negative database error", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.redismock.ExpectGet(department.DepartmentAllKey).RedisNil()

		deps.repo.EXPECT().
			FindAll(gomock.Any()).
			Return(nil, errors.New("db connection error"))

		resp, err := deps.service.GetAll(ctx)

		assert.Error(t, err)
		assert.Nil(t, resp)
	})
}

func TestDepartmentService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success normalizes code and invalidates cache", func(t *testing.T) {
		deps := setupServiceTest(t)
		expectTx(t, deps.sqlMock, true)

		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, d *department.Department) error {
				assert.Equal(t, "CSE", d.Code)
				assert.Equal(t, "Computer Science", d.Name)
				return nil
			})
		deps.redismock.ExpectDel(department.DepartmentAllKey).SetVal(1)

		resp, err := deps.service.Create(ctx, department.CreateDepartmentRequest{Code: " cse ", Name: "Computer Science "})

		assert.NoError(t, err)
		assert.Equal(t, "CSE", resp.Code)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("negative duplicate code rolls back", func(t *testing.T) {
		deps := setupServiceTest(t)
		expectTx(t, deps.sqlMock, false)

		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			Return(departmenterrors.ErrDepartmentAlreadyExists)

		_, err := deps.service.Create(ctx, department.CreateDepartmentRequest{Code: "CSE", Name: "Computer Science"})

		assert.ErrorIs(t, err, departmenterrors.ErrDepartmentAlreadyExists)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative blank code", func(t *testing.T) {
		deps := setupServiceTest(t)

		_, err := deps.service.Create(ctx, department.CreateDepartmentRequest{Code: "  ", Name: "X"})

		assert.ErrorIs(t, err, departmenterrors.ErrInvalidDepartmentCode)
	})
}

func TestDepartmentService_GetByCode(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().
			FindByCode(gomock.Any(), "ECE").
			Return(&department.Department{Code: "ECE", Name: "Electronics"}, nil)

		resp, err := deps.service.GetByCode(ctx, "ece")

		assert.NoError(t, err)
		assert.Equal(t, "Electronics", resp.Name)
	})

	t.Run("negative not found", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().
			FindByCode(gomock.Any(), "XYZ").
			Return(nil, departmenterrors.ErrDepartmentNotFound)

		resp, err := deps.service.GetByCode(ctx, "XYZ")

		assert.ErrorIs(t, err, departmenterrors.ErrDepartmentNotFound)
		assert.Empty(t, resp.Code)
	})
}

func TestDepartmentService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)
		expectTx(t, deps.sqlMock, true)

		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().
			FindByCode(gomock.Any(), "CSE").
			Return(&department.Department{Code: "CSE", Name: "Old"}, nil)
		deps.repo.EXPECT().
			Update(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, d *department.Department) error {
				assert.Equal(t, "Computer Science and Engineering", d.Name)
				return nil
			})
		deps.redismock.ExpectDel(department.DepartmentAllKey).SetVal(1)

		resp, err := deps.service.Update(ctx, "CSE", department.UpdateDepartmentRequest{Name: "Computer Science and Engineering"})

		assert.NoError(t, err)
		assert.Equal(t, "Computer Science and Engineering", resp.Name)
	})

	t.Run("negative not found rolls back", func(t *testing.T) {
		deps := setupServiceTest(t)
		expectTx(t, deps.sqlMock, false)

		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().
			FindByCode(gomock.Any(), "CSE").
			Return(nil, departmenterrors.ErrDepartmentNotFound)

		_, err := deps.service.Update(ctx, "CSE", department.UpdateDepartmentRequest{Name: "X"})

		assert.ErrorIs(t, err, departmenterrors.ErrDepartmentNotFound)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestDepartmentService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)
		expectTx(t, deps.sqlMock, true)

		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().Delete(gomock.Any(), "CSE").Return(nil)
		deps.redismock.ExpectDel(department.DepartmentAllKey).SetVal(1)

		err := deps.service.Delete(ctx, "CSE")

		assert.NoError(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative department with members", func(t *testing.T) {
		deps := setupServiceTest(t)
		expectTx(t, deps.sqlMock, false)

		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().Delete(gomock.Any(), "CSE").Return(departmenterrors.ErrDepartmentInUse)

		err := deps.service.Delete(ctx, "CSE")

		assert.ErrorIs(t, err, departmenterrors.ErrDepartmentInUse)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestDepartmentRepository_FindByCode(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	assert.NoError(t, err)
	repo := department.NewRepository(gdb)

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "departments" WHERE code = $1`)).
			WillReturnRows(sqlmock.NewRows([]string{"code", "name"}).AddRow("CSE", "Computer Science"))

		dept, err := repo.FindByCode(context.Background(), "CSE")

		assert.NoError(t, err)
		assert.Equal(t, "Computer Science", dept.Name)
	})

	t.Run("negative missing row maps to not found", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "departments" WHERE code = $1`)).
			WillReturnRows(sqlmock.NewRows([]string{"code", "name"}))

		_, err := repo.FindByCode(context.Background(), "XYZ")

		assert.ErrorIs(t, err, departmenterrors.ErrDepartmentNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
