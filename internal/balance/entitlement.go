package balance

import (
	"time"

	balanceerrors "go-faculty-leave/internal/balance/errors"
	"go-faculty-leave/internal/domain"
)

const (
	casualPerYear = 12
	rhPerYear     = 2
)

var earnedPerRole = map[domain.Role]int{
	domain.RoleFaculty:   6,
	domain.RoleHOD:       6,
	domain.RoleStaff:     4,
	domain.RolePrincipal: 8,
}

// Entitlement is the yearly credit for one user.
type Entitlement struct {
	Casual int
	RH     int
	Earned int
}

// ComputeEntitlement returns the credit for year. Joining-year credit is
// prorated by month, and EL is granted only after a full year of service as
// of asOf.
func ComputeEntitlement(role domain.Role, dateJoined time.Time, year int, asOf time.Time) (Entitlement, error) {
	if dateJoined.IsZero() {
		return Entitlement{}, balanceerrors.ErrMissingDateJoined
	}
	if year < dateJoined.Year() {
		return Entitlement{}, balanceerrors.ErrYearBeforeJoining
	}

	e := Entitlement{Casual: casualPerYear, RH: rhPerYear}
	if year == dateJoined.Year() {
		e.Casual = max(casualPerYear-int(dateJoined.Month())+1, 0)
		if dateJoined.Month() > time.June {
			e.RH = 1
		}
	}

	if !asOf.Before(dateJoined.AddDate(1, 0, 0)) {
		e.Earned = earnedPerRole[role]
	}
	return e, nil
}

// ClampToYear pins t into [Jan 1, Dec 31] of year.
func ClampToYear(t time.Time, year int) time.Time {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, t.Location())
	end := time.Date(year, time.December, 31, 23, 59, 59, 0, t.Location())
	switch {
	case t.Before(start):
		return start
	case t.After(end):
		return end
	}
	return t
}
