package balance

import (
	"time"

	"go-faculty-leave/internal/domain"

	"github.com/shopspring/decimal"
)

type LeaveBalance struct {
	ID           uint64 `gorm:"primaryKey"`
	UserID       uint64 `gorm:"not null;uniqueIndex:uq_leave_balances_user_year"`
	AcademicYear int    `gorm:"not null;uniqueIndex:uq_leave_balances_user_year"`

	CasualTotal   int             `gorm:"not null;default:0"`
	CasualUsed    decimal.Decimal `gorm:"type:numeric(6,1);not null;default:0"`
	RHTotal       int             `gorm:"column:rh_total;not null;default:0"`
	RHUsed        decimal.Decimal `gorm:"column:rh_used;type:numeric(6,1);not null;default:0"`
	EarnedTotal   int             `gorm:"not null;default:0"`
	EarnedUsed    decimal.Decimal `gorm:"type:numeric(6,1);not null;default:0"`
	EarnedCarried decimal.Decimal `gorm:"type:numeric(6,1);not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LeaveBalance) TableName() string {
	return "leave_balances"
}

// EarnedRemaining is what can still be taken from EL, carry-in included.
func (b LeaveBalance) EarnedRemaining() decimal.Decimal {
	return decimal.NewFromInt(int64(b.EarnedTotal)).Add(b.EarnedCarried).Sub(b.EarnedUsed)
}

// Profile is the slice of a user the ledger needs.
type Profile struct {
	ID             uint64
	Role           domain.Role
	DepartmentCode string
	DateJoined     time.Time
	IsActive       bool
}

// Bucket names a balance counter pair.
type Bucket string

const (
	BucketCasual Bucket = "casual"
	BucketRH     Bucket = "rh"
	BucketEarned Bucket = "earned"
)

// BucketFor maps a leave type code to the bucket it draws from. Only types
// whose name matches a bucket are tracked.
func BucketFor(leaveType string) (Bucket, bool) {
	switch leaveType {
	case "CL":
		return BucketCasual, true
	case "RH":
		return BucketRH, true
	case "EL":
		return BucketEarned, true
	}
	return "", false
}

func (b Bucket) usedColumn() string {
	return string(b) + "_used"
}
