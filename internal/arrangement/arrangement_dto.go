package arrangement

import (
	"time"

	"go-faculty-leave/internal/workflow"
)

type ResolveRequest struct {
	Decision string `json:"decision" binding:"required,oneof=accepted rejected"`
}

type ArrangementResponse struct {
	ID             uint64     `json:"id"`
	LeaveRequestID uint64     `json:"leave_request_id"`
	SubstituteID   uint64     `json:"substitute_id"`
	Details        string     `json:"details,omitempty"`
	Status         string     `json:"status"`
	RespondedAt    *time.Time `json:"responded_at,omitempty"`
	RespondedBy    *uint64    `json:"responded_by,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

type ResolveResponse struct {
	Arrangement      ArrangementResponse `json:"arrangement"`
	SubstituteStatus string              `json:"substitute_status"`
	FinalStatus      string              `json:"final_status"`
}

type AssignmentResponse struct {
	ArrangementResponse
	Reference     string `json:"reference"`
	RequesterID   uint64 `json:"requester_id"`
	RequesterName string `json:"requester_name"`
	LeaveType     string `json:"leave_type"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	StartSession  string `json:"start_session"`
	EndSession    string `json:"end_session"`
	FinalStatus   string `json:"final_status"`
}

func MapToResponse(a Arrangement) ArrangementResponse {
	return ArrangementResponse{
		ID:             a.ID,
		LeaveRequestID: a.LeaveRequestID,
		SubstituteID:   a.SubstituteID,
		Details:        a.Details,
		Status:         string(a.Status),
		RespondedAt:    a.RespondedAt,
		RespondedBy:    a.RespondedBy,
		CreatedAt:      a.CreatedAt,
	}
}

func MapToListResponse(items []Arrangement) []ArrangementResponse {
	out := make([]ArrangementResponse, 0, len(items))
	for _, a := range items {
		out = append(out, MapToResponse(a))
	}
	return out
}

func mapAssignments(rows []Assignment) []AssignmentResponse {
	out := make([]AssignmentResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, AssignmentResponse{
			ArrangementResponse: MapToResponse(r.Arrangement),
			Reference:           r.Reference,
			RequesterID:         r.RequesterID,
			RequesterName:       r.RequesterName,
			LeaveType:           r.LeaveType,
			StartDate:           r.StartDate.Format(time.DateOnly),
			EndDate:             r.EndDate.Format(time.DateOnly),
			StartSession:        r.StartSession,
			EndSession:          r.EndSession,
			FinalStatus:         r.FinalStatus,
		})
	}
	return out
}

func parseStatusFilter(raw string) (workflow.ArrangementStatus, bool) {
	switch s := workflow.ArrangementStatus(raw); s {
	case "", workflow.ArrangementPending, workflow.ArrangementAccepted, workflow.ArrangementRejected:
		return s, true
	}
	return "", false
}
