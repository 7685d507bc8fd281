package pending

import (
	"context"

	"go-faculty-leave/internal/shared/scope"
	"go-faculty-leave/internal/workflow"

	"gorm.io/gorm"
)

//go:generate mockgen -source=pending_repo.go -destination=mock/pending_repo_mock.go -package=mock
type Repository interface {
	CountSubstitutions(ctx context.Context, userID uint64) (int64, error)
	CountHodApprovals(ctx context.Context, departmentCode string, excludeRequesterID uint64) (int64, error)
	CountPrincipalApprovals(ctx context.Context) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CountSubstitutions(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("arrangements").
		Where("substitute_id = ? AND status = ?", userID, string(workflow.ArrangementPending)).
		Count(&count).Error
	return count, err
}

func (r *repository) CountHodApprovals(ctx context.Context, departmentCode string, excludeRequesterID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("leave_requests").
		Scopes(scope.Department("department_code", departmentCode)).
		Where("requester_id <> ?", excludeRequesterID).
		Where("substitute_status IN ?", []string{
			string(workflow.SubstituteAccepted),
			string(workflow.SubstituteNotApplicable),
		}).
		Where("hod_status = ?", workflow.StagePending).
		Count(&count).Error
	return count, err
}

func (r *repository) CountPrincipalApprovals(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("leave_requests").
		Where("hod_status = ? AND principal_status = ?", workflow.StageApproved, workflow.StagePending).
		Count(&count).Error
	return count, err
}
