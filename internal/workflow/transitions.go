package workflow

import (
	"go-faculty-leave/internal/domain"
	workflowerrors "go-faculty-leave/internal/workflow/errors"
)

type Trigger string

const (
	TriggerSubstitutesPending  Trigger = "substitutes_pending"
	TriggerSubstitutesAccepted Trigger = "substitutes_accepted"
	TriggerSubstitutesRejected Trigger = "substitutes_rejected"
	TriggerHodApprove          Trigger = "hod_approve"
	TriggerHodReject           Trigger = "hod_reject"
	TriggerPrincipalApprove    Trigger = "principal_approve"
	TriggerPrincipalReject     Trigger = "principal_reject"
)

// Terminal reports whether firing t ends the workflow when allowed.
func (t Trigger) Terminal() bool {
	switch t {
	case TriggerSubstitutesRejected, TriggerHodReject, TriggerPrincipalApprove, TriggerPrincipalReject:
		return true
	}
	return false
}

type transition struct {
	guard  func(State) bool
	effect func(State) State
}

var transitions = map[Trigger]transition{
	TriggerSubstitutesPending: {
		guard:  substitutePending,
		effect: func(s State) State { return s },
	},
	TriggerSubstitutesAccepted: {
		guard: substitutePending,
		effect: func(s State) State {
			s.Substitute = SubstituteAccepted
			s.Hod = StagePending
			return s
		},
	},
	TriggerSubstitutesRejected: {
		guard: substitutePending,
		effect: func(s State) State {
			s.Substitute = SubstituteRejected
			s.Hod = StageLocked
			s.Principal = StageLocked
			return s
		},
	},
	TriggerHodApprove: {
		guard: hodPending,
		effect: func(s State) State {
			s.Hod = StageApproved
			s.Principal = StagePending
			return s
		},
	},
	TriggerHodReject: {
		guard: hodPending,
		effect: func(s State) State {
			s.Hod = StageRejected
			s.Principal = StageLocked
			return s
		},
	},
	TriggerPrincipalApprove: {
		guard: principalPending,
		effect: func(s State) State {
			s.Principal = StageApproved
			return s
		},
	},
	TriggerPrincipalReject: {
		guard: principalPending,
		effect: func(s State) State {
			s.Principal = StageRejected
			return s
		},
	},
}

func substitutePending(s State) bool { return s.Substitute == SubstitutePending }
func hodPending(s State) bool        { return s.Hod == StagePending }
func principalPending(s State) bool  { return s.Principal == StagePending }

// Apply fires t against s. Terminal states reject every trigger, and a
// trigger whose stage is not pending is rejected without changing anything.
func Apply(s State, t Trigger) (State, error) {
	tr, ok := transitions[t]
	if !ok {
		return s, workflowerrors.ErrUnknownTrigger
	}
	if s.Terminal() {
		return s, workflowerrors.ErrLeaveFinalized
	}
	if !tr.guard(s) {
		return s, workflowerrors.ErrStageNotPending
	}
	return tr.effect(s).withDerivedFinal(), nil
}

// ApplyFor is Apply followed by the HOD self-skip for requesterRole.
func ApplyFor(s State, t Trigger, requesterRole domain.Role) (State, error) {
	next, err := Apply(s, t)
	if err != nil {
		return next, err
	}
	return SkipOwnHodStage(next, requesterRole), nil
}

// HodTrigger maps an HOD decision to its trigger.
func HodTrigger(d Decision) Trigger {
	if d == DecisionApprove {
		return TriggerHodApprove
	}
	return TriggerHodReject
}

// PrincipalTrigger maps a principal decision to its trigger.
func PrincipalTrigger(d Decision) Trigger {
	if d == DecisionApprove {
		return TriggerPrincipalApprove
	}
	return TriggerPrincipalReject
}
