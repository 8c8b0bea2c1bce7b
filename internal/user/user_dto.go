package user

import "time"

type UpdateUserRequest struct {
	Name       string `json:"name" binding:"required"`
	Department string `json:"department"`
}

type UserResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	Department   string `json:"department"`
	LeaveBalance int    `json:"leave_balance"`
	CreatedAt    string `json:"created_at"`
}

type OverviewStats struct {
	TotalEmployees int64 `json:"totalEmployees"`
}

func mapToResponse(u User) UserResponse {
	return UserResponse{
		ID:           u.ID.String(),
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role,
		Department:   u.Department,
		LeaveBalance: u.LeaveBalance,
		CreatedAt:    u.CreatedAt.Format(time.RFC3339),
	}
}
