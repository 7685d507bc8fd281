package rbac

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=rbac_repo.go -destination=mock/rbac_repo_mock.go -package=mock
type Repository interface {
	GetRolePermissions(ctx context.Context) ([]RolePermission, error)
	Grant(ctx context.Context, p RolePermission) error
	Revoke(ctx context.Context, p RolePermission) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetRolePermissions(ctx context.Context) ([]RolePermission, error) {
	var rows []RolePermission
	err := r.db.WithContext(ctx).
		Order("role ASC").
		Order("resource ASC").
		Order("action ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) Grant(ctx context.Context, p RolePermission) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&p).Error
}

func (r *repository) Revoke(ctx context.Context, p RolePermission) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("role = ? AND resource = ? AND action = ?", p.Role, p.Resource, p.Action).
		Delete(&RolePermission{})
	return res.RowsAffected > 0, res.Error
}
