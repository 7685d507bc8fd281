package balance_test

import (
	"testing"
	"time"

	"go-faculty-leave/internal/balance"
	balanceerrors "go-faculty-leave/internal/balance/errors"
	"go-faculty-leave/internal/domain"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestComputeEntitlement(t *testing.T) {
	t.Run("success joined mid august faculty joining year", func(t *testing.T) {
		joined := date(2023, time.August, 15)
		asOf := balance.ClampToYear(date(2026, time.January, 10), 2023)

		e, err := balance.ComputeEntitlement(domain.RoleFaculty, joined, 2023, asOf)

		assert.NoError(t, err)
		assert.Equal(t, balance.Entitlement{Casual: 5, RH: 1, Earned: 0}, e)
	})

	t.Run("success joined in june keeps both rh", func(t *testing.T) {
		joined := date(2024, time.June, 30)

		e, err := balance.ComputeEntitlement(domain.RoleStaff, joined, 2024, date(2024, time.December, 31))

		assert.NoError(t, err)
		assert.Equal(t, 7, e.Casual)
		assert.Equal(t, 2, e.RH)
		assert.Equal(t, 0, e.Earned)
	})

	t.Run("success january joiner gets full casual", func(t *testing.T) {
		e, err := balance.ComputeEntitlement(domain.RoleFaculty, date(2024, time.January, 2), 2024, date(2024, time.May, 1))

		assert.NoError(t, err)
		assert.Equal(t, 12, e.Casual)
		assert.Equal(t, 2, e.RH)
	})

	t.Run("success earned leave by role after a full year", func(t *testing.T) {
		joined := date(2020, time.March, 1)
		asOf := date(2025, time.June, 1)
		want := map[domain.Role]int{
			domain.RoleFaculty:   6,
			domain.RoleHOD:       6,
			domain.RoleStaff:     4,
			domain.RolePrincipal: 8,
			domain.RoleAdmin:     0,
		}

		for role, earned := range want {
			e, err := balance.ComputeEntitlement(role, joined, 2025, asOf)
			assert.NoError(t, err)
			assert.Equal(t, 12, e.Casual)
			assert.Equal(t, 2, e.RH)
			assert.Equal(t, earned, e.Earned, string(role))
		}
	})

	t.Run("success earned leave waits for anniversary", func(t *testing.T) {
		joined := date(2024, time.September, 1)

		before, err := balance.ComputeEntitlement(domain.RoleFaculty, joined, 2025, date(2025, time.August, 31))
		assert.NoError(t, err)
		assert.Equal(t, 0, before.Earned)

		after, err := balance.ComputeEntitlement(domain.RoleFaculty, joined, 2025, date(2025, time.September, 1))
		assert.NoError(t, err)
		assert.Equal(t, 6, after.Earned)
	})

	t.Run("negative year before joining", func(t *testing.T) {
		_, err := balance.ComputeEntitlement(domain.RoleFaculty, date(2023, time.August, 15), 2022, date(2022, time.December, 31))

		assert.ErrorIs(t, err, balanceerrors.ErrYearBeforeJoining)
	})

	t.Run("negative missing joining date", func(t *testing.T) {
		_, err := balance.ComputeEntitlement(domain.RoleFaculty, time.Time{}, 2024, date(2024, time.January, 1))

		assert.ErrorIs(t, err, balanceerrors.ErrMissingDateJoined)
	})
}

func TestClampToYear(t *testing.T) {
	assert.Equal(t, date(2023, time.January, 1), balance.ClampToYear(date(2021, time.May, 5), 2023))
	assert.Equal(t, time.Date(2023, time.December, 31, 23, 59, 59, 0, time.UTC), balance.ClampToYear(date(2026, time.May, 5), 2023))
	assert.Equal(t, date(2023, time.May, 5), balance.ClampToYear(date(2023, time.May, 5), 2023))
}

func TestBucketFor(t *testing.T) {
	b, ok := balance.BucketFor("CL")
	assert.True(t, ok)
	assert.Equal(t, balance.BucketCasual, b)

	b, ok = balance.BucketFor("EL")
	assert.True(t, ok)
	assert.Equal(t, balance.BucketEarned, b)

	for _, lt := range []string{"OOD", "SCL", "LOP", "ML", "VL", "COMP"} {
		_, ok := balance.BucketFor(lt)
		assert.False(t, ok, lt)
	}
}
