package leave

import (
	"time"

	"go-faculty-leave/internal/arrangement"

	"github.com/shopspring/decimal"
)

const maxSubstitutes = 4

type ArrangementInput struct {
	SubstituteID uint64 `json:"substitute_id" binding:"required"`
	Details      string `json:"details" binding:"max=500"`
}

type SubmitLeaveRequest struct {
	LeaveType    string             `json:"leave_type" binding:"required"`
	StartDate    string             `json:"start_date" binding:"required"`
	EndDate      string             `json:"end_date" binding:"required"`
	StartSession string             `json:"start_session" binding:"omitempty,oneof=FN AN"`
	EndSession   string             `json:"end_session" binding:"omitempty,oneof=FN AN"`
	Reason       string             `json:"reason" binding:"required,max=1000"`
	Arrangements []ArrangementInput `json:"arrangements" binding:"max=4,dive"`
}

type DecisionRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approve reject"`
	Remarks  string `json:"remarks" binding:"max=500"`
}

type LeaveResponse struct {
	ID                 uint64          `json:"id"`
	Reference          string          `json:"reference"`
	RequesterID        uint64          `json:"requester_id"`
	RequesterName      string          `json:"requester_name,omitempty"`
	DepartmentCode     string          `json:"department_code"`
	LeaveType          string          `json:"leave_type"`
	StartDate          string          `json:"start_date"`
	EndDate            string          `json:"end_date"`
	StartSession       string          `json:"start_session"`
	EndSession         string          `json:"end_session"`
	TotalDays          decimal.Decimal `json:"total_days"`
	Reason             string          `json:"reason"`
	SubstituteStatus   string          `json:"substitute_status"`
	HodStatus          *string         `json:"hod_status"`
	PrincipalStatus    *string         `json:"principal_status"`
	FinalStatus        string          `json:"final_status"`
	HodDecidedBy       *uint64         `json:"hod_decided_by,omitempty"`
	PrincipalDecidedBy *uint64         `json:"principal_decided_by,omitempty"`
	Remarks            *string         `json:"remarks,omitempty"`
	AppliedAt          time.Time       `json:"applied_at"`
	ProcessedOn        *time.Time      `json:"processed_on,omitempty"`
}

type LeaveDetailResponse struct {
	LeaveResponse
	Arrangements []arrangement.ArrangementResponse `json:"arrangements"`
}

func mapToResponse(l LeaveRequest) LeaveResponse {
	return LeaveResponse{
		ID:                 l.ID,
		Reference:          l.Reference,
		RequesterID:        l.RequesterID,
		DepartmentCode:     l.DepartmentCode,
		LeaveType:          string(l.LeaveType),
		StartDate:          l.StartDate.Format(time.DateOnly),
		EndDate:            l.EndDate.Format(time.DateOnly),
		StartSession:       string(l.StartSession),
		EndSession:         string(l.EndSession),
		TotalDays:          l.TotalDays,
		Reason:             l.Reason,
		SubstituteStatus:   string(l.SubstituteStatus),
		HodStatus:          l.HodStatus.Ptr(),
		PrincipalStatus:    l.PrincipalStatus.Ptr(),
		FinalStatus:        string(l.FinalStatus),
		HodDecidedBy:       l.HodDecidedBy,
		PrincipalDecidedBy: l.PrincipalDecidedBy,
		Remarks:            l.Remarks,
		AppliedAt:          l.AppliedAt,
		ProcessedOn:        l.ProcessedOn,
	}
}

func mapRowsToResponse(rows []LeaveRow) []LeaveResponse {
	out := make([]LeaveResponse, 0, len(rows))
	for _, r := range rows {
		resp := mapToResponse(r.LeaveRequest)
		resp.RequesterName = r.RequesterName
		out = append(out, resp)
	}
	return out
}
