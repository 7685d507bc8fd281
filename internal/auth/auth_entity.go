package auth

import "go-faculty-leave/internal/domain"

// Credential is the slice of a user row needed to authenticate.
type Credential struct {
	ID             uint64      `gorm:"column:id;primaryKey"`
	Name           string      `gorm:"column:name"`
	Email          string      `gorm:"column:email"`
	Password       string      `gorm:"column:password"`
	Role           domain.Role `gorm:"column:role"`
	DepartmentCode *string     `gorm:"column:department_code"`
	IsActive       bool        `gorm:"column:is_active"`
}

func (Credential) TableName() string {
	return "users"
}

func (c Credential) department() string {
	if c.DepartmentCode == nil {
		return ""
	}
	return *c.DepartmentCode
}
