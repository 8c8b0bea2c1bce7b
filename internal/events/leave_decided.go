package events

import "time"

const LeaveDecisionTopic = "hr.leave.decision.v1"

type LeaveDecisionEvent struct {
	EventType       string    `json:"event_type"`
	RequestID       string    `json:"request_id"`
	LeaveID         string    `json:"leave_id"`
	UserID          string    `json:"user_id"`
	LeaveType       string    `json:"leave_type"`
	Status          string    `json:"status"`
	TotalDays       int       `json:"total_days"`
	DecidedBy       string    `json:"decided_by"`
	RejectionReason *string   `json:"rejection_reason,omitempty"`
	OccurredAt      time.Time `json:"occurred_at"`
}
