package rbac

import "go-faculty-leave/internal/domain"

type RolePermission struct {
	Role     string `gorm:"column:role;primaryKey"`
	Resource string `gorm:"column:resource;primaryKey"`
	Action   string `gorm:"column:action;primaryKey"`
}

func (RolePermission) TableName() string {
	return "role_permissions"
}

// roleInheritance lists which role's grants each role also holds.
var roleInheritance = map[domain.Role]domain.Role{
	domain.RoleHOD:   domain.RoleFaculty,
	domain.RoleAdmin: domain.RolePrincipal,
}
