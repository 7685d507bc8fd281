package pending

type Counters struct {
	Substitutions      int64 `json:"substitutions"`
	HodApprovals       int64 `json:"hod_approvals"`
	PrincipalApprovals int64 `json:"principal_approvals"`
}
