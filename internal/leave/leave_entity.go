package leave

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// ParseReviewStatus accepts only the two statuses a review may set.
func ParseReviewStatus(v string) (Status, bool) {
	switch Status(v) {
	case StatusApproved, StatusRejected:
		return Status(v), true
	default:
		return "", false
	}
}

func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// CanTransitionTo allows only pending -> approved and pending -> rejected.
func (s Status) CanTransitionTo(target Status) bool {
	if s != StatusPending {
		return false
	}
	return target == StatusApproved || target == StatusRejected
}

type LeaveRequest struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID   uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_employee_dates"`
	EmployeeName string    `gorm:"type:varchar(255);not null"`

	StartDate Date   `gorm:"type:date;not null;index:idx_leave_requests_employee_dates"`
	EndDate   Date   `gorm:"type:date;not null;index:idx_leave_requests_employee_dates"`
	Reason    string `gorm:"type:text;not null"`

	Status     Status    `gorm:"type:varchar(20);not null;index:idx_leave_requests_status"`
	AppliedAt  time.Time `gorm:"not null;index:idx_leave_requests_applied_at"`
	ReviewedAt *time.Time
	ReviewedBy *string `gorm:"type:varchar(255)"`
	Comments   *string `gorm:"type:text"`
}

func (l LeaveRequest) Period() DateRange {
	return DateRange{Start: l.StartDate, End: l.EndDate}
}

// LeaveBalance keeps RemainingDays = TotalDays - UsedDays; only approval
// moves days from remaining to used.
type LeaveBalance struct {
	EmployeeID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	TotalDays     int       `gorm:"not null"`
	UsedDays      int       `gorm:"not null"`
	RemainingDays int       `gorm:"not null"`
	UpdatedAt     time.Time
}

func NewLeaveBalance(employeeID uuid.UUID, totalDays, usedDays int) LeaveBalance {
	return LeaveBalance{
		EmployeeID:    employeeID,
		TotalDays:     totalDays,
		UsedDays:      usedDays,
		RemainingDays: totalDays - usedDays,
	}
}
