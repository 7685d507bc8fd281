package rbac

type CheckRequest struct {
	Resource string `json:"resource" binding:"required"`
	Action   string `json:"action" binding:"required"`
}

type PermissionRequest struct {
	Role     string `json:"role" binding:"required,oneof=faculty hod staff principal admin"`
	Resource string `json:"resource" binding:"required,max=50"`
	Action   string `json:"action" binding:"required,max=50"`
}

type PermissionResponse struct {
	Role     string `json:"role"`
	Resource string `json:"resource"`
	Action   string `json:"action"`
}

func mapToResponse(p RolePermission) PermissionResponse {
	return PermissionResponse{Role: p.Role, Resource: p.Resource, Action: p.Action}
}
