package leave

import (
	"context"
	"database/sql"
	"time"

	"go-faculty-leave/internal/shared/connection"
	"go-faculty-leave/internal/shared/scope"
	"go-faculty-leave/internal/workflow"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	FindByID(ctx context.Context, id uint64) (*LeaveRequest, error)
	FindByIDForUpdate(ctx context.Context, id uint64) (*LeaveRequest, error)
	UpdateWorkflow(ctx context.Context, l *LeaveRequest) error
	LockRequester(ctx context.Context, requesterID uint64) error
	FindActiveInRange(ctx context.Context, requesterID uint64, start, end time.Time) ([]LeaveRequest, error)
	FindPeople(ctx context.Context, ids []uint64) ([]Person, error)
	ListByRequester(ctx context.Context, requesterID uint64) ([]LeaveRow, error)
	ListByDepartment(ctx context.Context, departmentCode string, excludeRequesterID uint64) ([]LeaveRow, error)
	ListPrincipalQueue(ctx context.Context) ([]LeaveRow, error)
	ListForRegister(ctx context.Context, from, to time.Time) ([]LeaveRow, error)
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

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindByID(ctx context.Context, id uint64) (*LeaveRequest, error) {
	var l LeaveRequest
	if err := r.db.WithContext(ctx).First(&l, id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id uint64) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&l, id).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// UpdateWorkflow writes the mutable workflow columns only. Submitted facts
// never change after insert.
func (r *repository) UpdateWorkflow(ctx context.Context, l *LeaveRequest) error {
	return r.db.WithContext(ctx).
		Model(l).
		Select(
			"substitute_status",
			"hod_status",
			"principal_status",
			"final_status",
			"hod_decided_by",
			"principal_decided_by",
			"remarks",
			"processed_on",
			"updated_at",
		).
		Updates(l).Error
}

// LockRequester holds the requester's user row until the transaction ends so
// concurrent submissions by the same person run their overlap checks in turn.
func (r *repository) LockRequester(ctx context.Context, requesterID uint64) error {
	var ids []uint64
	res := r.db.WithContext(ctx).
		Table("users").
		Select("id").
		Where("id = ?", requesterID).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Scan(&ids)
	if res.Error != nil {
		return res.Error
	}
	if len(ids) == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindActiveInRange returns the requester's non-rejected leaves touching any
// day in [start, end]. Half-day precision is left to the caller.
func (r *repository) FindActiveInRange(ctx context.Context, requesterID uint64, start, end time.Time) ([]LeaveRequest, error) {
	var leaves []LeaveRequest
	err := r.db.WithContext(ctx).
		Where("requester_id = ?", requesterID).
		Where("final_status <> ?", string(workflow.FinalRejected)).
		Where("NOT (end_date < ? OR start_date > ?)", start, end).
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindPeople(ctx context.Context, ids []uint64) ([]Person, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var people []Person
	err := r.db.WithContext(ctx).
		Table("users").
		Select("id, name, role, department_code, is_active").
		Where("id IN ?", ids).
		Scan(&people).Error
	return people, err
}

func (r *repository) rows(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("leave_requests").
		Select("leave_requests.*, users.name AS requester_name").
		Joins("JOIN users ON users.id = leave_requests.requester_id")
}

func (r *repository) ListByRequester(ctx context.Context, requesterID uint64) ([]LeaveRow, error) {
	var rows []LeaveRow
	err := r.rows(ctx).
		Where("leave_requests.requester_id = ?", requesterID).
		Order("leave_requests.applied_at DESC").
		Scan(&rows).Error
	return rows, err
}

// ListByDepartment returns every request that has reached the HOD stage in a
// department, awaiting decisions first.
func (r *repository) ListByDepartment(ctx context.Context, departmentCode string, excludeRequesterID uint64) ([]LeaveRow, error) {
	var rows []LeaveRow
	err := r.rows(ctx).
		Scopes(scope.Department("leave_requests.department_code", departmentCode)).
		Where("leave_requests.hod_status IS NOT NULL").
		Where("leave_requests.requester_id <> ?", excludeRequesterID).
		Order(clause.Expr{
			SQL:  "CASE WHEN leave_requests.hod_status = ? THEN 0 ELSE 1 END, leave_requests.applied_at DESC",
			Vars: []any{workflow.StagePending},
		}).
		Scan(&rows).Error
	return rows, err
}

func (r *repository) ListPrincipalQueue(ctx context.Context) ([]LeaveRow, error) {
	var rows []LeaveRow
	err := r.rows(ctx).
		Where("leave_requests.hod_status = ?", workflow.StageApproved).
		Where("leave_requests.principal_status = ?", workflow.StagePending).
		Order("leave_requests.applied_at ASC").
		Scan(&rows).Error
	return rows, err
}

// ListForRegister returns every request overlapping [from, to], grouped by
// department for the register export.
func (r *repository) ListForRegister(ctx context.Context, from, to time.Time) ([]LeaveRow, error) {
	var rows []LeaveRow
	err := r.rows(ctx).
		Where("NOT (leave_requests.end_date < ? OR leave_requests.start_date > ?)", from, to).
		Order("leave_requests.department_code, leave_requests.start_date, leave_requests.id").
		Scan(&rows).Error
	return rows, err
}
