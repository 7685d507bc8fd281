package department

type CreateDepartmentRequest struct {
	Code string `json:"code" binding:"required,alphanum,max=20"`
	Name string `json:"name" binding:"required,max=255"`
}

type UpdateDepartmentRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

type DepartmentResponse struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

func mapToResponse(dept Department) DepartmentResponse {
	resp := DepartmentResponse{
		Code: dept.Code,
		Name: dept.Name,
	}
	if !dept.CreatedAt.IsZero() {
		resp.CreatedAt = dept.CreatedAt.Format("2006-01-02 15:04:05")
	}
	if !dept.UpdatedAt.IsZero() {
		resp.UpdatedAt = dept.UpdatedAt.Format("2006-01-02 15:04:05")
	}
	return resp
}

func mapToListResponse(depts []Department) []DepartmentResponse {
	res := make([]DepartmentResponse, len(depts))
	for i, d := range depts {
		res[i] = mapToResponse(d)
	}
	return res
}
