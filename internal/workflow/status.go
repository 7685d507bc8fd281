package workflow

import (
	"database/sql/driver"
	"fmt"
)

// SubstituteStatus is the composite decision of every arrangement attached to
// a leave request.
type SubstituteStatus string

const (
	SubstituteNotApplicable SubstituteStatus = "not_applicable"
	SubstitutePending       SubstituteStatus = "pending"
	SubstituteAccepted      SubstituteStatus = "accepted"
	SubstituteRejected      SubstituteStatus = "rejected"
)

// Cleared reports whether the substitute stage no longer blocks the HOD.
func (s SubstituteStatus) Cleared() bool {
	return s == SubstituteAccepted || s == SubstituteNotApplicable
}

// StageStatus is the state of the HOD or principal stage. The zero value
// means the stage is locked and is stored as NULL.
type StageStatus string

const (
	StageLocked   StageStatus = ""
	StagePending  StageStatus = "pending"
	StageApproved StageStatus = "approved"
	StageRejected StageStatus = "rejected"
)

func (s StageStatus) Value() (driver.Value, error) {
	if s == StageLocked {
		return nil, nil
	}
	return string(s), nil
}

func (s *StageStatus) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*s = StageLocked
	case string:
		*s = StageStatus(v)
	case []byte:
		*s = StageStatus(v)
	default:
		return fmt.Errorf("workflow: cannot scan %T into StageStatus", src)
	}
	return nil
}

// Ptr returns nil for a locked stage, for nullable JSON fields.
func (s StageStatus) Ptr() *string {
	if s == StageLocked {
		return nil
	}
	v := string(s)
	return &v
}

type FinalStatus string

const (
	FinalPending  FinalStatus = "pending"
	FinalApproved FinalStatus = "approved"
	FinalRejected FinalStatus = "rejected"
)

func (f FinalStatus) Terminal() bool {
	return f == FinalApproved || f == FinalRejected
}

type ArrangementStatus string

const (
	ArrangementPending  ArrangementStatus = "pending"
	ArrangementAccepted ArrangementStatus = "accepted"
	ArrangementRejected ArrangementStatus = "rejected"
)

// Decision is what an approver or substitute answers.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

func (d Decision) Valid() bool {
	return d == DecisionApprove || d == DecisionReject
}
