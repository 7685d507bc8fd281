package leave

import (
	"time"

	"go-faculty-leave/internal/domain"
	leaveerrors "go-faculty-leave/internal/leave/errors"
	"go-faculty-leave/internal/workflow"

	"github.com/shopspring/decimal"
)

type LeaveType string

const (
	TypeCasual          LeaveType = "CL"
	TypeEarned          LeaveType = "EL"
	TypeOnOfficialDuty  LeaveType = "OOD"
	TypeSpecialCasual   LeaveType = "SCL"
	TypeLossOfPay       LeaveType = "LOP"
	TypeRestrictedHol   LeaveType = "RH"
	TypeMaternity       LeaveType = "ML"
	TypeVacation        LeaveType = "VL"
	TypeCompensatoryOff LeaveType = "COMP"
)

func (t LeaveType) Valid() bool {
	switch t {
	case TypeCasual, TypeEarned, TypeOnOfficialDuty, TypeSpecialCasual, TypeLossOfPay,
		TypeRestrictedHol, TypeMaternity, TypeVacation, TypeCompensatoryOff:
		return true
	}
	return false
}

// Session is the half of a working day: forenoon or afternoon.
type Session string

const (
	SessionForenoon  Session = "FN"
	SessionAfternoon Session = "AN"
)

func (s Session) Valid() bool {
	return s == SessionForenoon || s == SessionAfternoon
}

type LeaveRequest struct {
	ID                 uint64                    `gorm:"primaryKey"`
	Reference          string                    `gorm:"type:varchar(30);not null;uniqueIndex"`
	RequesterID        uint64                    `gorm:"not null;index:idx_leave_requests_requester_dates"`
	DepartmentCode     string                    `gorm:"type:varchar(20);not null"`
	LeaveType          LeaveType                 `gorm:"type:varchar(10);not null"`
	StartDate          time.Time                 `gorm:"type:date;not null;index:idx_leave_requests_requester_dates"`
	EndDate            time.Time                 `gorm:"type:date;not null;index:idx_leave_requests_requester_dates"`
	StartSession       Session                   `gorm:"type:varchar(2);not null;default:'FN'"`
	EndSession         Session                   `gorm:"type:varchar(2);not null;default:'AN'"`
	TotalDays          decimal.Decimal           `gorm:"type:numeric(6,1);not null"`
	Reason             string                    `gorm:"type:text;not null"`
	SubstituteStatus   workflow.SubstituteStatus `gorm:"type:varchar(20);not null"`
	HodStatus          workflow.StageStatus      `gorm:"type:varchar(20)"`
	PrincipalStatus    workflow.StageStatus      `gorm:"type:varchar(20)"`
	FinalStatus        workflow.FinalStatus      `gorm:"type:varchar(20);not null;default:'pending'"`
	HodDecidedBy       *uint64
	PrincipalDecidedBy *uint64
	Remarks            *string `gorm:"type:text"`
	AppliedAt          time.Time
	ProcessedOn        *time.Time
	UpdatedAt          time.Time
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

func (l LeaveRequest) State() workflow.State {
	return workflow.State{
		Substitute: l.SubstituteStatus,
		Hod:        l.HodStatus,
		Principal:  l.PrincipalStatus,
		Final:      l.FinalStatus,
	}
}

// SetState copies s onto the row. processed_on is stamped the first time the
// request becomes terminal.
func (l *LeaveRequest) SetState(s workflow.State, at time.Time) {
	l.SubstituteStatus = s.Substitute
	l.HodStatus = s.Hod
	l.PrincipalStatus = s.Principal
	l.FinalStatus = s.Final
	if s.Terminal() && l.ProcessedOn == nil {
		l.ProcessedOn = &at
	}
}

// halfDaySpan returns the first and last half-day slot the leave covers.
// Slots count from the Unix epoch, two per day.
func (l LeaveRequest) halfDaySpan() (int64, int64) {
	return halfDaySlot(l.StartDate, l.StartSession), halfDaySlot(l.EndDate, l.EndSession)
}

func halfDaySlot(day time.Time, s Session) int64 {
	slot := day.UTC().Truncate(24*time.Hour).Unix() / 86400 * 2
	if s == SessionAfternoon {
		slot++
	}
	return slot
}

func (l LeaveRequest) overlaps(other LeaveRequest) bool {
	aStart, aEnd := l.halfDaySpan()
	bStart, bEnd := other.halfDaySpan()
	return aStart <= bEnd && bStart <= aEnd
}

// LeaveRow is a leave request joined with its requester's name.
type LeaveRow struct {
	LeaveRequest  `gorm:"embedded"`
	RequesterName string
}

// Person is the slice of a user the leave workflow needs.
type Person struct {
	ID             uint64
	Name           string
	Role           domain.Role
	DepartmentCode *string
	IsActive       bool
}

// CountDays returns the leave length in half-day precision. A range starting
// in the afternoon or ending in the forenoon loses half a day at that end.
func CountDays(start, end time.Time, startSession, endSession Session) (decimal.Decimal, error) {
	if start.After(end) {
		return decimal.Zero, leaveerrors.ErrInvalidDateRange
	}
	if !startSession.Valid() || !endSession.Valid() {
		return decimal.Zero, leaveerrors.ErrInvalidSession
	}

	half := decimal.NewFromFloat(0.5)
	days := decimal.NewFromInt(int64(end.Sub(start).Hours()/24) + 1)
	if startSession == SessionAfternoon {
		days = days.Sub(half)
	}
	if endSession == SessionForenoon {
		days = days.Sub(half)
	}
	if !days.IsPositive() {
		return decimal.Zero, leaveerrors.ErrInvalidHalfDayRange
	}
	return days, nil
}
