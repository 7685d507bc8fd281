package workflow

// Composite folds every arrangement status of one leave into a single
// substitute decision. Rejection dominates, then unanimous acceptance.
// It always works from the full set so it can be re-run at any time.
func Composite(statuses []ArrangementStatus) SubstituteStatus {
	if len(statuses) == 0 {
		return SubstituteNotApplicable
	}
	accepted := 0
	for _, st := range statuses {
		switch st {
		case ArrangementRejected:
			return SubstituteRejected
		case ArrangementAccepted:
			accepted++
		}
	}
	if accepted == len(statuses) {
		return SubstituteAccepted
	}
	return SubstitutePending
}

// SubstituteTrigger maps a composite status to the trigger that feeds it to
// the leave request.
func SubstituteTrigger(composite SubstituteStatus) Trigger {
	switch composite {
	case SubstituteRejected:
		return TriggerSubstitutesRejected
	case SubstituteAccepted:
		return TriggerSubstitutesAccepted
	default:
		return TriggerSubstitutesPending
	}
}
