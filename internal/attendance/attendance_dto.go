package attendance

import "time"

type MarkAttendanceRequest struct {
	Notes string `json:"notes"`
}

type AttendanceResponse struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	Date     string `json:"date"`
	Status   string `json:"status"`
	MarkedAt string `json:"marked_at"`
	Notes    string `json:"notes,omitempty"`

	UserName       string `json:"user_name,omitempty"`
	UserEmail      string `json:"user_email,omitempty"`
	UserDepartment string `json:"user_department,omitempty"`
}

type AttendanceCounts struct {
	TotalDays   int `json:"totalDays"`
	PresentDays int `json:"presentDays"`
	LateDays    int `json:"lateDays"`
}

type MyAttendanceResponse struct {
	Attendance []AttendanceResponse `json:"attendance"`
	Stats      AttendanceCounts     `json:"stats"`
}

type TodayResponse struct {
	Marked     bool                `json:"marked"`
	Attendance *AttendanceResponse `json:"attendance"`
}

type AttendanceStats struct {
	TotalEmployees       int64 `json:"totalEmployees"`
	PresentToday         int64 `json:"presentToday"`
	AttendanceLast30Days int64 `json:"attendanceLast30Days"`
}

func mapToResponse(a Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:       a.ID.String(),
		UserID:   a.UserID.String(),
		Date:     a.Date.Format("2006-01-02"),
		Status:   a.Status,
		MarkedAt: a.MarkedAt.Format(time.RFC3339),
		Notes:    a.Notes,
	}
	if a.User != nil {
		resp.UserName = a.User.Name
		resp.UserEmail = a.User.Email
		resp.UserDepartment = a.User.Department
	}
	return resp
}

func mapToListResponse(rows []Attendance) []AttendanceResponse {
	resp := make([]AttendanceResponse, len(rows))
	for i, a := range rows {
		resp[i] = mapToResponse(a)
	}
	return resp
}
