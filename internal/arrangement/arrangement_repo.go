package arrangement

import (
	"context"
	"database/sql"

	"go-faculty-leave/internal/shared/connection"
	"go-faculty-leave/internal/workflow"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=arrangement_repo.go -destination=mock/arrangement_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	CreateBatch(ctx context.Context, items []Arrangement) error
	FindByID(ctx context.Context, id uint64) (*Arrangement, error)
	FindByIDForUpdate(ctx context.Context, id uint64) (*Arrangement, error)
	UpdateResponse(ctx context.Context, a *Arrangement) error
	ListByLeave(ctx context.Context, leaveID uint64) ([]Arrangement, error)
	ListStatusesByLeave(ctx context.Context, leaveID uint64) ([]workflow.ArrangementStatus, error)
	ListBySubstitute(ctx context.Context, substituteID uint64, status workflow.ArrangementStatus) ([]Assignment, error)
	CountPendingForSubstitute(ctx context.Context, substituteID uint64) (int64, error)
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

func (r *repository) CreateBatch(ctx context.Context, items []Arrangement) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) FindByID(ctx context.Context, id uint64) (*Arrangement, error) {
	var a Arrangement
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id uint64) (*Arrangement, error) {
	var a Arrangement
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&a, id).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) UpdateResponse(ctx context.Context, a *Arrangement) error {
	return r.db.WithContext(ctx).
		Model(a).
		Select("status", "responded_at", "responded_by").
		Updates(a).Error
}

func (r *repository) ListByLeave(ctx context.Context, leaveID uint64) ([]Arrangement, error) {
	var items []Arrangement
	err := r.db.WithContext(ctx).
		Where("leave_request_id = ?", leaveID).
		Order("id").
		Find(&items).Error
	return items, err
}

func (r *repository) ListStatusesByLeave(ctx context.Context, leaveID uint64) ([]workflow.ArrangementStatus, error) {
	var statuses []workflow.ArrangementStatus
	err := r.db.WithContext(ctx).
		Model(&Arrangement{}).
		Where("leave_request_id = ?", leaveID).
		Order("id").
		Pluck("status", &statuses).Error
	return statuses, err
}

func (r *repository) ListBySubstitute(ctx context.Context, substituteID uint64, status workflow.ArrangementStatus) ([]Assignment, error) {
	q := r.db.WithContext(ctx).
		Table("arrangements").
		Select(`arrangements.*,
			leave_requests.reference,
			leave_requests.requester_id,
			users.name AS requester_name,
			leave_requests.leave_type,
			leave_requests.start_date,
			leave_requests.end_date,
			leave_requests.start_session,
			leave_requests.end_session,
			leave_requests.final_status`).
		Joins("JOIN leave_requests ON leave_requests.id = arrangements.leave_request_id").
		Joins("JOIN users ON users.id = leave_requests.requester_id").
		Where("arrangements.substitute_id = ?", substituteID)
	if status != "" {
		q = q.Where("arrangements.status = ?", status)
	}

	var rows []Assignment
	err := q.Order("leave_requests.start_date DESC, arrangements.id DESC").Scan(&rows).Error
	return rows, err
}

func (r *repository) CountPendingForSubstitute(ctx context.Context, substituteID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Arrangement{}).
		Where("substitute_id = ? AND status = ?", substituteID, workflow.ArrangementPending).
		Count(&count).Error
	return count, err
}
