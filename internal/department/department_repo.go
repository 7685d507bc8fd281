package department

import (
	"context"
	"database/sql"
	"errors"

	departmenterrors "go-faculty-leave/internal/department/errors"
	"go-faculty-leave/internal/shared/connection"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

//go:generate mockgen -source=department_repo.go -destination=mock/department_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, dept *Department) error
	FindAll(ctx context.Context) ([]Department, error)
	FindByCode(ctx context.Context, code string) (*Department, error)
	Update(ctx context.Context, dept *Department) error
	Delete(ctx context.Context, code string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: connection.BindTx(r.db, tx)}
}

func (r *repository) Create(ctx context.Context, dept *Department) error {
	return mapRepositoryError(r.db.WithContext(ctx).Create(dept).Error)
}

func (r *repository) FindAll(ctx context.Context) ([]Department, error) {
	var depts []Department
	err := r.db.WithContext(ctx).Order("code ASC").Find(&depts).Error
	return depts, err
}

func (r *repository) FindByCode(ctx context.Context, code string) (*Department, error) {
	var dept Department
	if err := r.db.WithContext(ctx).First(&dept, "code = ?", code).Error; err != nil {
		return nil, mapRepositoryError(err)
	}
	return &dept, nil
}

func (r *repository) Update(ctx context.Context, dept *Department) error {
	return mapRepositoryError(r.db.WithContext(ctx).Save(dept).Error)
}

func (r *repository) Delete(ctx context.Context, code string) error {
	res := r.db.WithContext(ctx).Delete(&Department{}, "code = ?", code)
	if res.Error != nil {
		return mapRepositoryError(res.Error)
	}
	if res.RowsAffected == 0 {
		return departmenterrors.ErrDepartmentNotFound
	}
	return nil
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return departmenterrors.ErrDepartmentNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return departmenterrors.ErrDepartmentAlreadyExists
		case "23503":
			return departmenterrors.ErrDepartmentInUse
		}
	}
	return err
}
