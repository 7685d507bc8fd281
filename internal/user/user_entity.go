package user

import (
	"time"

	"go-faculty-leave/internal/domain"
)

type User struct {
	ID             uint64      `gorm:"column:id;primaryKey;autoIncrement"`
	Name           string      `gorm:"column:name;type:varchar(255);not null"`
	Email          string      `gorm:"column:email;type:text;not null;uniqueIndex"`
	Phone          *string     `gorm:"column:phone;type:varchar(30)"`
	Password       string      `gorm:"column:password;type:text;not null"`
	Role           domain.Role `gorm:"column:role;type:varchar(20);not null"`
	DepartmentCode *string     `gorm:"column:department_code;type:varchar(20)"`
	DateJoined     time.Time   `gorm:"column:date_joined;type:date;not null"`
	IsActive       bool        `gorm:"column:is_active;default:true"`
	CreatedAt      time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

// Actor is the identity the user acts as once authenticated.
func (u User) Actor() domain.Actor {
	a := domain.Actor{ID: u.ID, Role: u.Role}
	if u.DepartmentCode != nil {
		a.DepartmentCode = *u.DepartmentCode
	}
	return a
}

// Filter narrows a user listing. Zero values match everything.
type Filter struct {
	Role           domain.Role
	DepartmentCode string
	ActiveOnly     bool
}

// requiresDepartment reports whether a role belongs to a teaching department.
func requiresDepartment(r domain.Role) bool {
	switch r {
	case domain.RoleFaculty, domain.RoleHOD, domain.RoleStaff:
		return true
	}
	return false
}
