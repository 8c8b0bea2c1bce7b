package leave

import "time"

type ApplyLeaveRequest struct {
	LeaveType string `json:"leave_type" binding:"required,oneof=casual sick paid"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Reason    string `json:"reason"`
}

type UpdateLeaveRequest struct {
	LeaveType *string `json:"leave_type" binding:"omitempty,oneof=casual sick paid"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
	Reason    *string `json:"reason"`
}

type DecideLeaveRequest struct {
	Status          string  `json:"status" binding:"required,oneof=approved rejected"`
	RejectionReason *string `json:"rejection_reason"`
}

type LeaveResponse struct {
	ID              string  `json:"id"`
	UserID          string  `json:"user_id"`
	LeaveType       string  `json:"leave_type"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	TotalDays       int     `json:"total_days"`
	Reason          string  `json:"reason"`
	Status          string  `json:"status"`
	ApprovedBy      *string `json:"approved_by,omitempty"`
	ApprovedAt      *string `json:"approved_at,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`

	UserName         string `json:"user_name,omitempty"`
	UserEmail        string `json:"user_email,omitempty"`
	UserDepartment   string `json:"user_department,omitempty"`
	UserLeaveBalance *int   `json:"user_leave_balance,omitempty"`
}

type MyLeavesStats struct {
	TotalLeaves    int `json:"totalLeaves"`
	PendingLeaves  int `json:"pendingLeaves"`
	ApprovedLeaves int `json:"approvedLeaves"`
	RejectedLeaves int `json:"rejectedLeaves"`
	TotalDaysTaken int `json:"totalDaysTaken"`
}

type MyLeavesResponse struct {
	Leaves []LeaveResponse `json:"leaves"`
	Stats  MyLeavesStats   `json:"stats"`
}

type StatusCounts struct {
	PendingCount  int64 `json:"pendingCount"`
	ApprovedCount int64 `json:"approvedCount"`
	RejectedCount int64 `json:"rejectedCount"`
}

type AllLeavesResponse struct {
	Leaves []LeaveResponse `json:"leaves"`
	Stats  StatusCounts    `json:"stats"`
}

type LeaveStats struct {
	StatusCounts
	TotalDaysApproved int64 `json:"totalDaysApproved"`
}

func mapToResponse(l Leave) LeaveResponse {
	resp := LeaveResponse{
		ID:        l.ID.String(),
		UserID:    l.UserID.String(),
		LeaveType: l.LeaveType,
		StartDate: l.StartDate.Format("2006-01-02"),
		EndDate:   l.EndDate.Format("2006-01-02"),
		TotalDays: l.TotalDays,
		Reason:    l.Reason,
		Status:    l.Status,
	}
	if l.ApprovedBy != nil {
		v := l.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if l.ApprovedAt != nil {
		v := l.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	resp.RejectionReason = l.RejectionReason
	if l.User != nil {
		resp.UserName = l.User.Name
		resp.UserEmail = l.User.Email
		resp.UserDepartment = l.User.Department
		balance := l.User.LeaveBalance
		resp.UserLeaveBalance = &balance
	}
	return resp
}

func mapToListResponse(leaves []Leave) []LeaveResponse {
	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l)
	}
	return resp
}
