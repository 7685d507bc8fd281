package arrangement

import (
	"time"

	"go-faculty-leave/internal/workflow"
)

// Arrangement asks one substitute to cover duties during a leave. Its status
// changes exactly once.
type Arrangement struct {
	ID             uint64                     `gorm:"primaryKey"`
	LeaveRequestID uint64                     `gorm:"not null;uniqueIndex:uq_arrangements_leave_substitute"`
	SubstituteID   uint64                     `gorm:"not null;uniqueIndex:uq_arrangements_leave_substitute;index:idx_arrangements_substitute_status"`
	Details        string                     `gorm:"type:text"`
	Status         workflow.ArrangementStatus `gorm:"type:varchar(20);not null;default:'pending';index:idx_arrangements_substitute_status"`
	RespondedAt    *time.Time
	RespondedBy    *uint64
	CreatedAt      time.Time
}

func (Arrangement) TableName() string {
	return "arrangements"
}

// Assignment is an arrangement joined with the leave it belongs to.
type Assignment struct {
	Arrangement   `gorm:"embedded"`
	Reference     string
	RequesterID   uint64
	RequesterName string
	LeaveType     string
	StartDate     time.Time
	EndDate       time.Time
	StartSession  string
	EndSession    string
	FinalStatus   string
}
