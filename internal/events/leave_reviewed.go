package events

import "time"

const LeaveReviewedTopic = "leave.request.reviewed.v1"

type LeaveReviewedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	LeaveID    string    `json:"leave_id"`
	EmployeeID string    `json:"employee_id"`
	Status     string    `json:"status"`
	DaysUsed   int       `json:"days_used"`
	ReviewedBy string    `json:"reviewed_by"`
	Comments   *string   `json:"comments,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
