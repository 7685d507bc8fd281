package balance

import (
	"context"
	"database/sql"
	"errors"

	"go-faculty-leave/internal/domain"
	"go-faculty-leave/internal/shared/connection"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=balance_repo.go -destination=mock/balance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	UpsertTotals(ctx context.Context, b *LeaveBalance) error
	FindByUserAndYear(ctx context.Context, userID uint64, year int) (*LeaveBalance, error)
	SetCarried(ctx context.Context, userID uint64, year int, carried decimal.Decimal) error
	AddUsed(ctx context.Context, userID uint64, year int, bucket Bucket, days decimal.Decimal) (bool, error)
	FindProfile(ctx context.Context, userID uint64) (*Profile, error)
	ListActiveUserIDs(ctx context.Context) ([]uint64, error)
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

// UpsertTotals writes the *_total columns only. Used and carried counters
// of an existing row are left alone.
func (r *repository) UpsertTotals(ctx context.Context, b *LeaveBalance) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "academic_year"}},
			DoUpdates: clause.AssignmentColumns([]string{"casual_total", "rh_total", "earned_total", "updated_at"}),
		}).
		Create(b).Error
}

func (r *repository) FindByUserAndYear(ctx context.Context, userID uint64, year int) (*LeaveBalance, error) {
	var b LeaveBalance
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND academic_year = ?", userID, year).
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) SetCarried(ctx context.Context, userID uint64, year int, carried decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&LeaveBalance{}).
		Where("user_id = ? AND academic_year = ?", userID, year).
		Update("earned_carried", carried).Error
}

// AddUsed increments the bucket's used counter and reports whether a row
// existed to increment.
func (r *repository) AddUsed(ctx context.Context, userID uint64, year int, bucket Bucket, days decimal.Decimal) (bool, error) {
	col := bucket.usedColumn()
	res := r.db.WithContext(ctx).
		Model(&LeaveBalance{}).
		Where("user_id = ? AND academic_year = ?", userID, year).
		UpdateColumn(col, gorm.Expr(col+" + ?", days))
	return res.RowsAffected > 0, res.Error
}

func (r *repository) FindProfile(ctx context.Context, userID uint64) (*Profile, error) {
	var row struct {
		ID             uint64
		Role           string
		DepartmentCode sql.NullString
		DateJoined     sql.NullTime
		IsActive       bool
	}
	err := r.db.WithContext(ctx).
		Table("users").
		Select("id, role, department_code, date_joined, is_active").
		Where("id = ?", userID).
		Take(&row).Error
	if err != nil {
		return nil, err
	}
	return &Profile{
		ID:             row.ID,
		Role:           domain.Role(row.Role),
		DepartmentCode: row.DepartmentCode.String,
		DateJoined:     row.DateJoined.Time,
		IsActive:       row.IsActive,
	}, nil
}

func (r *repository) ListActiveUserIDs(ctx context.Context) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).
		Table("users").
		Where("is_active = ?", true).
		Order("id").
		Pluck("id", &ids).Error
	return ids, err
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
