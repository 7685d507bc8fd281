package domain

import "strconv"

type Role string

const (
	RoleFaculty   Role = "faculty"
	RoleHOD       Role = "hod"
	RoleStaff     Role = "staff"
	RolePrincipal Role = "principal"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleFaculty, RoleHOD, RoleStaff, RolePrincipal, RoleAdmin:
		return true
	}
	return false
}

// IsInstitutional reports whether the role decides the final approval stage.
func (r Role) IsInstitutional() bool {
	return r == RolePrincipal || r == RoleAdmin
}

// Actor is the already-authenticated caller of a core operation. It is passed
// explicitly; services never read identity from ambient request state.
type Actor struct {
	ID             uint64
	Role           Role
	DepartmentCode string
}

func (a Actor) IsZero() bool {
	return a.ID == 0
}

func (a Actor) IDString() string {
	return strconv.FormatUint(a.ID, 10)
}
