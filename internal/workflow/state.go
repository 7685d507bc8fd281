package workflow

import "go-faculty-leave/internal/domain"

// State is the full workflow position of one leave request.
type State struct {
	Substitute SubstituteStatus
	Hod        StageStatus
	Principal  StageStatus
	Final      FinalStatus
}

func (s State) Terminal() bool {
	return s.Final.Terminal()
}

// DeriveFinal computes the final status from the three stage fields. It is
// the only way Final is ever assigned.
func DeriveFinal(sub SubstituteStatus, hod, principal StageStatus) FinalStatus {
	switch {
	case sub == SubstituteRejected, hod == StageRejected, principal == StageRejected:
		return FinalRejected
	case principal == StageApproved:
		return FinalApproved
	default:
		return FinalPending
	}
}

func (s State) withDerivedFinal() State {
	s.Final = DeriveFinal(s.Substitute, s.Hod, s.Principal)
	return s
}

// Initial returns the state of a freshly submitted request. Without
// substitutes the HOD stage opens at once, and an HOD requester skips their
// own stage.
func Initial(substituteCount int, requesterRole domain.Role) State {
	s := State{
		Substitute: SubstitutePending,
		Hod:        StageLocked,
		Principal:  StageLocked,
	}
	if substituteCount == 0 {
		s.Substitute = SubstituteNotApplicable
		s.Hod = StagePending
	}
	return SkipOwnHodStage(s, requesterRole)
}

// SkipOwnHodStage passes an open HOD stage straight to the principal when
// the requester is an HOD, since nobody else can decide that stage.
func SkipOwnHodStage(s State, requesterRole domain.Role) State {
	if requesterRole == domain.RoleHOD && s.Hod == StagePending {
		s.Hod = StageApproved
		s.Principal = StagePending
	}
	return s.withDerivedFinal()
}

// Consistent reports whether s satisfies the stage-unlock invariants.
func (s State) Consistent() bool {
	if s.Hod != StageLocked && !s.Substitute.Cleared() {
		return false
	}
	if s.Principal != StageLocked && s.Hod != StageApproved {
		return false
	}
	return s.Final == DeriveFinal(s.Substitute, s.Hod, s.Principal)
}
