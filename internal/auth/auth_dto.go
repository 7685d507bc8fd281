package auth

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	ID             uint64 `json:"id"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	Role           string `json:"role"`
	DepartmentCode string `json:"department_code,omitempty"`
}

type LoginResponse struct {
	User        AuthResponse `json:"user"`
	AccessToken string       `json:"access_token"`
	ExpiresAt   string       `json:"expires_at"`
}

func mapToResponse(c Credential) AuthResponse {
	return AuthResponse{
		ID:             c.ID,
		Email:          c.Email,
		Name:           c.Name,
		Role:           string(c.Role),
		DepartmentCode: c.department(),
	}
}
